package referral

import (
	"context"
	"errors"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	referraldto "github.com/brtprivate/blockchain-bull-server/internal/usecase/dto/referral"
)

// GetReferralStats reports the ledger view of address. Unknown addresses are
// not an error; UserExists is false and participant totals are zero.
func (uc *DefaultReferralUsecase) GetReferralStats(ctx context.Context, address string) (*referraldto.StatsOutput, error) {
	address = domain.NormalizeAddress(address)
	if address == "" {
		return nil, domain.NewValidationError("address", "required")
	}

	participant, err := uc.lookup(ctx, address)
	if err != nil {
		return nil, err
	}

	out := &referraldto.StatsOutput{Address: address}
	if participant != nil {
		registered := participant.RegistrationDate
		out.UserExists = true
		out.RegistrationDate = &registered
		out.TotalReferrals = participant.TotalReferrals
		out.TotalInvestment = participant.TotalInvestment
		out.TotalEarnings = participant.TotalEarnings
	}

	levels, err := uc.levels(ctx, address, 0)
	if err != nil {
		return nil, err
	}
	copy(out.Levels[:], levels)

	out.TotalCommission, err = uc.referralRepo.SumCommission(ctx, address)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *DefaultReferralUsecase) GetLevelWise(ctx context.Context, input *referraldto.LevelWiseInput) (*referraldto.LevelWiseOutput, error) {
	address := domain.NormalizeAddress(input.Address)
	if address == "" {
		return nil, domain.NewValidationError("address", "required")
	}
	if input.Level != 0 && !domain.ValidLevel(input.Level) {
		return nil, domain.NewValidationError("level", "must be between 1 and 10")
	}

	participant, err := uc.lookup(ctx, address)
	if err != nil {
		return nil, err
	}
	levels, err := uc.levels(ctx, address, input.Level)
	if err != nil {
		return nil, err
	}

	return &referraldto.LevelWiseOutput{
		Address:    address,
		UserExists: participant != nil,
		Levels:     levels,
	}, nil
}

func (uc *DefaultReferralUsecase) TopReferrers(ctx context.Context, limit int) ([]*domain.Participant, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return uc.participantRepo.TopReferrers(ctx, limit)
}

// lookup returns nil without error for an unknown address.
func (uc *DefaultReferralUsecase) lookup(ctx context.Context, address string) (*domain.Participant, error) {
	p, err := uc.participantRepo.GetParticipant(ctx, address)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// levels groups the edges of address by level with one ledger scan. level zero
// returns all ten levels.
func (uc *DefaultReferralUsecase) levels(ctx context.Context, address string, level int) ([]referraldto.LevelOutput, error) {
	edges, err := uc.referralRepo.ListEdges(ctx, domain.ReferralFilter{
		ReferrerAddress: address,
		Level:           level,
	})
	if err != nil {
		return nil, err
	}

	first, last := 1, domain.MaxReferralLevels
	if level != 0 {
		first, last = level, level
	}
	out := make([]referraldto.LevelOutput, 0, last-first+1)
	for l := first; l <= last; l++ {
		out = append(out, referraldto.LevelOutput{Level: l, Referrals: []*domain.ReferralEdge{}})
	}
	for _, edge := range edges {
		idx := edge.Level - first
		if idx < 0 || idx >= len(out) {
			continue
		}
		out[idx].Referrals = append(out[idx].Referrals, edge)
		out[idx].Count++
	}
	return out, nil
}
