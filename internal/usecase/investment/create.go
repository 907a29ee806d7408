package investment

import (
	"context"
	"math"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	investmentdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/investment"
	"go.uber.org/zap"
)

// CreateInvestment inserts the record and then raises the owner's
// totalInvestment. A failure of the second write after the insert succeeded is
// reported as a PartialWriteError and recorded for reconciliation.
func (uc *DefaultInvestmentUsecase) CreateInvestment(ctx context.Context, input *investmentdto.CreateInvestmentInput) (*domain.Investment, error) {
	owner := domain.NormalizeAddress(input.OwnerAddress)
	investmentType := input.Type
	if investmentType == "" {
		investmentType = domain.InvestmentPackage
	}
	status := input.Status
	if status == "" {
		status = domain.InvestmentConfirmed
	}

	if err := validateCreate(owner, input.Amount, investmentType, status); err != nil {
		uc.recordError(opCreate, err)
		return nil, err
	}

	if _, err := uc.participantRepo.GetParticipant(ctx, owner); err != nil {
		uc.recordError(opCreate, err)
		return nil, err
	}

	now := uc.now().UTC()
	investment := &domain.Investment{
		ID:               uc.newID(),
		OwnerAddress:     owner,
		Amount:           input.Amount,
		InvestmentDate:   now,
		Type:             investmentType,
		PackageIndex:     input.PackageIndex,
		TransactionHash:  input.TransactionHash,
		Status:           status,
		IsActive:         true,
		RemainingBalance: input.Amount,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := uc.investmentRepo.CreateInvestment(ctx, investment); err != nil {
		uc.recordError(opCreate, err)
		return nil, err
	}

	if err := uc.participantRepo.IncrementParticipantTotals(ctx, owner, domain.ParticipantTotalsDelta{
		Investment: investment.Amount,
	}); err != nil {
		partial := &domain.PartialWriteError{
			Operation: opCreate,
			Step:      stepIncrementTotalInvestment,
			RecordID:  investment.ID,
			Address:   owner,
			Err:       err,
		}
		uc.recordError(opCreate, partial)
		uc.recorder.Record(ctx, opCreate, partial)
		return nil, partial
	}

	uc.metrics.RecordInvestmentCreated(string(investment.Type), investment.Amount)
	uc.logger.Info("investment created",
		zap.String("investment_id", investment.ID),
		zap.String("owner", owner),
		zap.Float64("amount", investment.Amount),
		zap.String("type", string(investment.Type)),
	)

	if err := uc.publisher.PublishEvent(ctx, domain.EventInvestmentCreated, owner, publisher.InvestmentCreatedEvent{
		InvestmentID: investment.ID,
		OwnerAddress: owner,
		Amount:       investment.Amount,
		Type:         string(investment.Type),
	}); err != nil {
		uc.logger.Warn("failed to publish investment event", zap.String("investment_id", investment.ID), zap.Error(err))
	}

	return investment, nil
}

func validateCreate(owner string, amount float64, investmentType domain.InvestmentType, status domain.InvestmentStatus) error {
	switch {
	case owner == "":
		return domain.NewValidationError("userAddress", "required")
	case math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0:
		return domain.NewValidationError("amount", "must be greater than zero")
	case !investmentType.Valid():
		return domain.NewValidationError("investmentType", "must be one of package, stake, direct, other")
	case !status.Valid():
		return domain.NewValidationError("status", "must be one of pending, confirmed, failed")
	}
	return nil
}
