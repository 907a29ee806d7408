package participant

import (
	"context"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	participantdto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/participant"
)

func (uc *DefaultParticipantUsecase) GetParticipant(ctx context.Context, address string) (*domain.Participant, error) {
	address = domain.NormalizeAddress(address)
	if address == "" {
		return nil, domain.NewValidationError("address", "required")
	}
	return uc.participantRepo.GetParticipant(ctx, address)
}

func (uc *DefaultParticipantUsecase) ListParticipants(ctx context.Context, input *participantdto.ListParticipantsInput) (*participantdto.ListParticipantsOutput, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	participants, total, err := uc.participantRepo.ListParticipants(ctx, domain.ParticipantFilter{
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return &participantdto.ListParticipantsOutput{
		Participants: participants,
		Pagination: participantdto.Pagination{
			CurrentPage:  page,
			TotalPages:   totalPages(total, limit),
			TotalItems:   total,
			ItemsPerPage: limit,
		},
	}, nil
}

// GetParticipantReferrals lists the newest edges where address is the referrer.
func (uc *DefaultParticipantUsecase) GetParticipantReferrals(ctx context.Context, input *participantdto.GetReferralsInput) (*participantdto.ReferralsOutput, error) {
	if input.Level != 0 && !domain.ValidLevel(input.Level) {
		return nil, domain.NewValidationError("level", "must be between 1 and 10")
	}

	participant, err := uc.GetParticipant(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	edges, err := uc.referralRepo.ListEdges(ctx, domain.ReferralFilter{
		ReferrerAddress: participant.Address,
		Level:           input.Level,
		Limit:           referralsLimit,
	})
	if err != nil {
		return nil, err
	}

	return &participantdto.ReferralsOutput{
		TotalReferrals:  participant.TotalReferrals,
		Level1Referrals: participant.LevelCount(1),
		Level2Referrals: participant.LevelCount(2),
		Referrals:       edges,
	}, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
