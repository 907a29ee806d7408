package mappers

import (
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/models"
)

func ToDomainInvestment(model *models.InvestmentModel) *domain.Investment {
	return &domain.Investment{
		ID:               model.ID,
		OwnerAddress:     model.OwnerAddress,
		Amount:           model.Amount,
		InvestmentDate:   model.InvestmentDate,
		Type:             domain.InvestmentType(model.InvestmentType),
		PackageIndex:     model.PackageIndex,
		TransactionHash:  model.TransactionHash,
		Status:           domain.InvestmentStatus(model.Status),
		IsActive:         model.IsActive,
		EarnedReturn:     model.EarnedReturn,
		TotalWithdrawn:   model.TotalWithdrawn,
		RemainingBalance: model.RemainingBalance,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMInvestment(i *domain.Investment) *models.InvestmentModel {
	return &models.InvestmentModel{
		ID:               i.ID,
		OwnerAddress:     i.OwnerAddress,
		Amount:           i.Amount,
		InvestmentDate:   i.InvestmentDate,
		InvestmentType:   string(i.Type),
		PackageIndex:     i.PackageIndex,
		TransactionHash:  i.TransactionHash,
		Status:           string(i.Status),
		IsActive:         i.IsActive,
		EarnedReturn:     i.EarnedReturn,
		TotalWithdrawn:   i.TotalWithdrawn,
		RemainingBalance: i.RemainingBalance,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}
