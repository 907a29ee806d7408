package participant

import (
	"context"
	"errors"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"go.uber.org/zap"
)

// SeedRoot makes sure the top of the referral tree exists. It is a no-op when
// the address is already registered.
func (uc *DefaultParticipantUsecase) SeedRoot(ctx context.Context, address string) (*domain.Participant, error) {
	address = domain.NormalizeAddress(address)
	if address == "" || address == domain.RootSentinel {
		return nil, domain.NewValidationError("rootAddress", "must be a real address")
	}

	existing, err := uc.participantRepo.GetParticipant(ctx, address)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := uc.now().UTC()
	root := &domain.Participant{
		Address:          address,
		SponsorAddress:   domain.RootSentinel,
		RegistrationDate: now,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.participantRepo.RegisterParticipant(ctx, root, nil); err != nil {
		if errors.Is(err, domain.ErrDuplicateParticipant) {
			return uc.participantRepo.GetParticipant(ctx, address)
		}
		return nil, err
	}

	uc.logger.Info("root participant seeded", zap.String("address", address))
	return root, nil
}
