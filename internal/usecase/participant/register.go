package participant

import (
	"context"
	"errors"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	publisher "github.com/brtprivate/blockchain-bull-server/internal/infrastructure/kafka"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
	"go.uber.org/zap"
)

// RegisterParticipant enrols input.Address under input.SponsorAddress and
// credits up to ten ancestors. The participant row, the level-1 edge and the
// sponsor increment commit together; every further level is its own atomic step.
func (uc *DefaultParticipantUsecase) RegisterParticipant(ctx context.Context, input *participantdto.RegisterInput) (*participantdto.RegisterOutput, error) {
	address := domain.NormalizeAddress(input.Address)
	sponsorAddress := domain.NormalizeAddress(input.SponsorAddress)

	if err := validateRegistration(address, sponsorAddress); err != nil {
		uc.recordError(opRegister, err)
		return nil, err
	}

	if _, err := uc.participantRepo.GetParticipant(ctx, address); err == nil {
		uc.recordError(opRegister, domain.ErrDuplicateParticipant)
		return nil, domain.ErrDuplicateParticipant
	} else if !errors.Is(err, domain.ErrNotFound) {
		uc.recordError(opRegister, err)
		return nil, err
	}

	var sponsor *domain.Participant
	if sponsorAddress != domain.RootSentinel {
		found, err := uc.participantRepo.GetParticipant(ctx, sponsorAddress)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = domain.ErrUnknownSponsor
			}
			uc.recordError(opRegister, err)
			return nil, err
		}
		sponsor = found
	}

	now := uc.now().UTC()
	participant := &domain.Participant{
		Address:          address,
		SponsorAddress:   sponsorAddress,
		RegistrationDate: now,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	var firstEdge *domain.ReferralEdge
	if sponsor != nil {
		firstEdge = uc.newEdge(sponsor.Address, address, 1, now)
	}
	if err := uc.participantRepo.RegisterParticipant(ctx, participant, firstEdge); err != nil {
		uc.recordError(opRegister, err)
		return nil, err
	}

	levels := 0
	if sponsor != nil {
		walk, err := uc.walkUpline(ctx, address, sponsor, now)
		if err != nil {
			uc.failPropagation(ctx, opRegister, err)
			return nil, err
		}
		levels = walk.LastCompletedLevel
	}

	uc.metrics.RecordRegistration(levels)
	uc.logger.Info("participant registered",
		zap.String("address", address),
		zap.String("sponsor", sponsorAddress),
		zap.Int("levels_credited", levels),
	)

	if err := uc.publisher.PublishEvent(ctx, domain.EventParticipantRegistered, address, publisher.ParticipantRegisteredEvent{
		Address:        address,
		SponsorAddress: sponsorAddress,
		LevelsCredited: levels,
	}); err != nil {
		uc.logger.Warn("failed to publish registration event", zap.String("address", address), zap.Error(err))
	}

	return &participantdto.RegisterOutput{
		Participant:    participant,
		LevelsCredited: levels,
	}, nil
}

func validateRegistration(address, sponsorAddress string) error {
	switch {
	case address == "":
		return domain.NewValidationError("address", "required")
	case address == domain.RootSentinel:
		return domain.NewValidationError("address", "reserved root sentinel")
	case sponsorAddress == "":
		return domain.NewValidationError("sponsorAddress", "required")
	case sponsorAddress == address:
		return domain.NewValidationError("sponsorAddress", "participant cannot sponsor itself")
	}
	return nil
}
