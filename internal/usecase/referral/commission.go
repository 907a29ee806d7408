package referral

import (
	"context"
	"math"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
	"go.uber.org/zap"
)

// ApplyCommission accrues amount on the (referrer, referred) edge and on the
// referrer's totalEarnings. Nothing is written when the edge does not exist.
func (uc *DefaultReferralUsecase) ApplyCommission(ctx context.Context, input *referraldto.CommissionInput) (*domain.ReferralEdge, error) {
	referrer := domain.NormalizeAddress(input.ReferrerAddress)
	referred := domain.NormalizeAddress(input.ReferredAddress)

	if err := validateCommission(referrer, referred, input.Amount); err != nil {
		uc.metrics.RecordError(opCommission, string(domain.KindOf(err)))
		return nil, err
	}

	edge, err := uc.referralRepo.AddCommission(ctx, referrer, referred, input.Amount)
	if err != nil {
		uc.metrics.RecordError(opCommission, string(domain.KindOf(err)))
		return nil, err
	}

	if err := uc.participantRepo.IncrementParticipantTotals(ctx, referrer, domain.ParticipantTotalsDelta{
		Earnings: input.Amount,
	}); err != nil {
		partial := &domain.PartialWriteError{
			Operation: opCommission,
			Step:      stepIncrementTotalEarnings,
			RecordID:  edge.ID,
			Address:   referrer,
			Err:       err,
		}
		uc.metrics.RecordError(opCommission, string(domain.KindOf(partial)))
		uc.recorder.Record(ctx, opCommission, partial)
		return nil, partial
	}

	uc.metrics.RecordCommission(input.Amount)
	uc.logger.Info("commission applied",
		zap.String("referrer", referrer),
		zap.String("referred", referred),
		zap.Int("level", edge.Level),
		zap.Float64("amount", input.Amount),
	)

	if err := uc.publisher.PublishEvent(ctx, domain.EventCommissionApplied, referrer, publisher.CommissionAppliedEvent{
		ReferrerAddress: referrer,
		ReferredAddress: referred,
		Level:           edge.Level,
		Amount:          input.Amount,
	}); err != nil {
		uc.logger.Warn("failed to publish commission event", zap.String("referrer", referrer), zap.Error(err))
	}

	return edge, nil
}

func validateCommission(referrer, referred string, amount float64) error {
	switch {
	case referrer == "":
		return domain.NewValidationError("referrerAddress", "required")
	case referred == "":
		return domain.NewValidationError("referredAddress", "required")
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return domain.NewValidationError("commission", "must be greater than zero")
	}
	return nil
}
