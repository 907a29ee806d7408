package participant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
	"go.uber.org/zap"
)

// walkUpline credits the ancestors above sponsor, starting at level 2. The
// level-1 edge to sponsor must already be committed. Each step is
// CreditAncestor, which skips edges that already exist, so a walk can be
// repeated after a partial failure. A conflicting edge stops the walk.
func (uc *DefaultParticipantUsecase) walkUpline(ctx context.Context, address string, sponsor *domain.Participant, registeredAt time.Time) (*participantdto.PropagationOutput, error) {
	out := &participantdto.PropagationOutput{Address: address, LastCompletedLevel: 1}

	current := sponsor
	for out.LastCompletedLevel < domain.MaxReferralLevels && current.HasUpline() {
		nextAddress := current.SponsorAddress
		if nextAddress == address {
			// malformed chain looping back to the registrant
			break
		}

		if err := ctx.Err(); err != nil {
			return out, uc.propagationError(out, nextAddress, err)
		}

		next, err := uc.participantRepo.GetParticipant(ctx, nextAddress)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				break
			}
			return out, uc.propagationError(out, nextAddress, err)
		}

		level := out.LastCompletedLevel + 1
		created, err := uc.referralRepo.CreditAncestor(ctx, uc.newEdge(next.Address, address, level, registeredAt))
		if err != nil {
			return out, uc.propagationError(out, next.Address, fmt.Errorf("credit level %d: %w", level, err))
		}
		if created {
			out.EdgesCreated++
		}

		out.LastCompletedLevel = level
		current = next
	}

	return out, nil
}

func (uc *DefaultParticipantUsecase) propagationError(progress *participantdto.PropagationOutput, ancestor string, err error) error {
	return &domain.PropagationError{
		Address:            progress.Address,
		LastCompletedLevel: progress.LastCompletedLevel,
		Ancestor:           ancestor,
		Err:                err,
	}
}

func (uc *DefaultParticipantUsecase) failPropagation(ctx context.Context, operation string, err error) {
	uc.recordError(operation, err)

	var propErr *domain.PropagationError
	if errors.As(err, &propErr) {
		uc.metrics.RecordPropagationFailure(strconv.Itoa(propErr.LastCompletedLevel))
	}
	uc.recorder.Record(ctx, operation, err)
}

// ResumePropagation walks the upline of an existing participant again from
// level 1. Levels credited earlier are left untouched, so the call is safe to
// repeat. A failure is returned but not recorded as a new inconsistency event;
// the caller owns the event being retried.
func (uc *DefaultParticipantUsecase) ResumePropagation(ctx context.Context, address string) (*participantdto.PropagationOutput, error) {
	address = domain.NormalizeAddress(address)

	participant, err := uc.participantRepo.GetParticipant(ctx, address)
	if err != nil {
		uc.recordError(opResume, err)
		return nil, err
	}
	if !participant.HasUpline() {
		return &participantdto.PropagationOutput{Address: address}, nil
	}

	sponsor, err := uc.participantRepo.GetParticipant(ctx, participant.SponsorAddress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrUnknownSponsor
		}
		uc.recordError(opResume, err)
		return nil, err
	}

	progress := &participantdto.PropagationOutput{Address: address}
	created, err := uc.referralRepo.CreditAncestor(ctx, uc.newEdge(sponsor.Address, address, 1, participant.RegistrationDate))
	if err != nil {
		err = uc.propagationError(progress, sponsor.Address, fmt.Errorf("credit level 1: %w", err))
		uc.recordError(opResume, err)
		return progress, err
	}

	walk, err := uc.walkUpline(ctx, address, sponsor, participant.RegistrationDate)
	if created {
		walk.EdgesCreated++
	}
	if err != nil {
		uc.recordError(opResume, err)
		return walk, err
	}

	uc.metrics.RecordPropagationResumed()
	uc.logger.Info("propagation resumed",
		zap.String("address", address),
		zap.Int("last_completed_level", walk.LastCompletedLevel),
		zap.Int("edges_created", walk.EdgesCreated),
	)
	return walk, nil
}
