package investment

import (
	"context"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
)

// AggregateForOwner recomputes the owner's totals from the stored records on
// every call. An owner without records gets zero totals.
func (uc *DefaultInvestmentUsecase) AggregateForOwner(ctx context.Context, owner string) (*investmentdto.OwnerAggregateOutput, error) {
	owner = domain.NormalizeAddress(owner)
	if owner == "" {
		return nil, domain.NewValidationError("address", "required")
	}

	totals, err := uc.investmentRepo.AggregateInvestments(ctx, owner)
	if err != nil {
		return nil, err
	}
	byType, err := uc.investmentRepo.AggregateInvestmentsByType(ctx, owner)
	if err != nil {
		return nil, err
	}
	recent, _, err := uc.investmentRepo.ListInvestments(ctx, domain.InvestmentFilter{
		OwnerAddress: owner,
		Page:         1,
		Limit:        recentLimit,
	})
	if err != nil {
		return nil, err
	}

	return &investmentdto.OwnerAggregateOutput{
		Totals:            totals,
		ByType:            byType,
		RecentInvestments: recent,
	}, nil
}

func (uc *DefaultInvestmentUsecase) ListOwnerInvestments(ctx context.Context, input *investmentdto.ListOwnerInvestmentsInput) (*investmentdto.ListInvestmentsOutput, error) {
	owner := domain.NormalizeAddress(input.OwnerAddress)
	if owner == "" {
		return nil, domain.NewValidationError("address", "required")
	}
	if input.Type != "" && !input.Type.Valid() {
		return nil, domain.NewValidationError("type", "must be one of package, stake, direct, other")
	}
	page, limit := normalizePage(input.Page, input.Limit)

	investments, total, err := uc.investmentRepo.ListInvestments(ctx, domain.InvestmentFilter{
		OwnerAddress: owner,
		Type:         input.Type,
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return nil, err
	}
	totals, err := uc.investmentRepo.AggregateInvestments(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &investmentdto.ListInvestmentsOutput{
		Investments: investments,
		Pagination:  pagination(page, limit, total),
		Totals:      &totals,
	}, nil
}

func (uc *DefaultInvestmentUsecase) ListInvestments(ctx context.Context, input *investmentdto.ListInvestmentsInput) (*investmentdto.ListInvestmentsOutput, error) {
	if input.Type != "" && !input.Type.Valid() {
		return nil, domain.NewValidationError("type", "must be one of package, stake, direct, other")
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, domain.NewValidationError("status", "must be one of pending, confirmed, failed")
	}
	page, limit := normalizePage(input.Page, input.Limit)

	investments, total, err := uc.investmentRepo.ListInvestments(ctx, domain.InvestmentFilter{
		Type:   input.Type,
		Status: input.Status,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &investmentdto.ListInvestmentsOutput{
		Investments: investments,
		Pagination:  pagination(page, limit, total),
	}, nil
}
