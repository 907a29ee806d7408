package mappers

import (
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/models"
)

func ToDomainReferralEdge(model *models.ReferralEdgeModel) *domain.ReferralEdge {
	return &domain.ReferralEdge{
		ID:               model.ID,
		ReferrerAddress:  model.ReferrerAddress,
		ReferredAddress:  model.ReferredAddress,
		Level:            model.Level,
		RegistrationDate: model.RegistrationDate,
		IsActive:         model.IsActive,
		CommissionEarned: model.CommissionEarned,
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

func ToGORMReferralEdge(edge *domain.ReferralEdge) *models.ReferralEdgeModel {
	return &models.ReferralEdgeModel{
		ID:               edge.ID,
		ReferrerAddress:  edge.ReferrerAddress,
		ReferredAddress:  edge.ReferredAddress,
		Level:            edge.Level,
		RegistrationDate: edge.RegistrationDate,
		IsActive:         edge.IsActive,
		CommissionEarned: edge.CommissionEarned,
		CreatedAt:        edge.CreatedAt,
		UpdatedAt:        edge.UpdatedAt,
	}
}
