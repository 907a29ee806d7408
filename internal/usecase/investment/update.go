package investment

import (
	"context"
	"math"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateInvestment changes only the supplied fields. RemainingBalance follows
// the merged earnedReturn and totalWithdrawn.
func (uc *DefaultInvestmentUsecase) UpdateInvestment(ctx context.Context, input *investmentdto.UpdateInvestmentInput) (*domain.Investment, error) {
	if err := validateUpdate(input); err != nil {
		uc.recordError(opUpdate, err)
		return nil, err
	}

	// investment ids are uuids; anything else cannot resolve to a record
	if _, err := uuid.Parse(input.ID); err != nil {
		uc.recordError(opUpdate, domain.ErrNotFound)
		return nil, domain.ErrNotFound
	}

	updated, err := uc.investmentRepo.UpdateInvestment(ctx, input.ID, domain.InvestmentUpdate{
		EarnedReturn:   input.EarnedReturn,
		TotalWithdrawn: input.TotalWithdrawn,
		Status:         input.Status,
		IsActive:       input.IsActive,
	})
	if err != nil {
		uc.recordError(opUpdate, err)
		return nil, err
	}

	uc.metrics.RecordInvestmentUpdated()
	uc.logger.Debug("investment updated",
		zap.String("investment_id", updated.ID),
		zap.Float64("remaining_balance", updated.RemainingBalance),
	)
	return updated, nil
}

func validateUpdate(input *investmentdto.UpdateInvestmentInput) error {
	if input.EarnedReturn == nil && input.TotalWithdrawn == nil && input.Status == nil && input.IsActive == nil {
		return domain.NewValidationError("body", "no fields to update")
	}
	if input.EarnedReturn != nil && !nonNegative(*input.EarnedReturn) {
		return domain.NewValidationError("roiEarned", "must be a non-negative number")
	}
	if input.TotalWithdrawn != nil && !nonNegative(*input.TotalWithdrawn) {
		return domain.NewValidationError("totalWithdrawn", "must be a non-negative number")
	}
	if input.Status != nil && !input.Status.Valid() {
		return domain.NewValidationError("status", "must be one of pending, confirmed, failed")
	}
	return nil
}

func nonNegative(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
