package mappers

import (
	"github.com/brtprivate/blockchain-bull-server/internal/domain"
	"github.com/brtprivate/blockchain-bull-server/internal/infrastructure/postgres/models"
)

func ToDomainParticipant(model *models.ParticipantModel) *domain.Participant {
	return &domain.Participant{
		Address:          model.Address,
		SponsorAddress:   model.SponsorAddress,
		RegistrationDate: model.RegistrationDate,
		IsActive:         model.IsActive,
		LevelCounts: [domain.MaxReferralLevels]int64{
			model.Level1Referrals,
			model.Level2Referrals,
			model.Level3Referrals,
			model.Level4Referrals,
			model.Level5Referrals,
			model.Level6Referrals,
			model.Level7Referrals,
			model.Level8Referrals,
			model.Level9Referrals,
			model.Level10Referrals,
		},
		TotalReferrals:  model.TotalReferrals,
		TotalInvestment: model.TotalInvestment,
		TotalEarnings:   model.TotalEarnings,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMParticipant(p *domain.Participant) *models.ParticipantModel {
	c := p.LevelCounts
	return &models.ParticipantModel{
		Address:          p.Address,
		SponsorAddress:   p.SponsorAddress,
		RegistrationDate: p.RegistrationDate,
		IsActive:         p.IsActive,
		TotalReferrals:   p.TotalReferrals,
		Level1Referrals:  c[0],
		Level2Referrals:  c[1],
		Level3Referrals:  c[2],
		Level4Referrals:  c[3],
		Level5Referrals:  c[4],
		Level6Referrals:  c[5],
		Level7Referrals:  c[6],
		Level8Referrals:  c[7],
		Level9Referrals:  c[8],
		Level10Referrals: c[9],
		TotalInvestment:  p.TotalInvestment,
		TotalEarnings:    p.TotalEarnings,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
