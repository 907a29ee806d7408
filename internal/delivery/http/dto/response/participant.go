package response

import (
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

type ParticipantResponse struct {
	Address          string    `json:"address"`
	ReferrerAddress  string    `json:"referrerAddress"`
	RegistrationDate time.Time `json:"registrationDate"`
	IsActive         bool      `json:"isActive"`
	TotalReferrals   int64     `json:"totalReferrals"`
	Level1Referrals  int64     `json:"level1Referrals"`
	Level2Referrals  int64     `json:"level2Referrals"`
	Level3Referrals  int64     `json:"level3Referrals"`
	Level4Referrals  int64     `json:"level4Referrals"`
	Level5Referrals  int64     `json:"level5Referrals"`
	Level6Referrals  int64     `json:"level6Referrals"`
	Level7Referrals  int64     `json:"level7Referrals"`
	Level8Referrals  int64     `json:"level8Referrals"`
	Level9Referrals  int64     `json:"level9Referrals"`
	Level10Referrals int64     `json:"level10Referrals"`
	TotalInvestment  float64   `json:"totalInvestment"`
	TotalEarnings    float64   `json:"totalEarnings"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromParticipant(p *domain.Participant) ParticipantResponse {
	return ParticipantResponse{
		Address:          p.Address,
		ReferrerAddress:  p.SponsorAddress,
		RegistrationDate: p.RegistrationDate,
		IsActive:         p.IsActive,
		TotalReferrals:   p.TotalReferrals,
		Level1Referrals:  p.LevelCounts[0],
		Level2Referrals:  p.LevelCounts[1],
		Level3Referrals:  p.LevelCounts[2],
		Level4Referrals:  p.LevelCounts[3],
		Level5Referrals:  p.LevelCounts[4],
		Level6Referrals:  p.LevelCounts[5],
		Level7Referrals:  p.LevelCounts[6],
		Level8Referrals:  p.LevelCounts[7],
		Level9Referrals:  p.LevelCounts[8],
		Level10Referrals: p.LevelCounts[9],
		TotalInvestment:  p.TotalInvestment,
		TotalEarnings:    p.TotalEarnings,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func FromParticipants(ps []*domain.Participant) []ParticipantResponse {
	out := make([]ParticipantResponse, len(ps))
	for i, p := range ps {
		out[i] = FromParticipant(p)
	}
	return out
}

type ParticipantListResponse struct {
	Users       []ParticipantResponse `json:"users"`
	TotalPages  int                   `json:"totalPages"`
	CurrentPage int                   `json:"currentPage"`
	Total       int64                 `json:"total"`
}

type ReferralEdgeResponse struct {
	ID               string    `json:"id"`
	ReferrerAddress  string    `json:"referrerAddress"`
	ReferredAddress  string    `json:"referredAddress"`
	Level            int       `json:"level"`
	RegistrationDate time.Time `json:"registrationDate"`
	IsActive         bool      `json:"isActive"`
	CommissionEarned float64   `json:"commissionEarned"`
}

func FromEdge(e *domain.ReferralEdge) ReferralEdgeResponse {
	return ReferralEdgeResponse{
		ID:               e.ID,
		ReferrerAddress:  e.ReferrerAddress,
		ReferredAddress:  e.ReferredAddress,
		Level:            e.Level,
		RegistrationDate: e.RegistrationDate,
		IsActive:         e.IsActive,
		CommissionEarned: e.CommissionEarned,
	}
}

func FromEdges(es []*domain.ReferralEdge) []ReferralEdgeResponse {
	out := make([]ReferralEdgeResponse, len(es))
	for i, e := range es {
		out[i] = FromEdge(e)
	}
	return out
}

type ParticipantReferralsResponse struct {
	TotalReferrals  int64                  `json:"totalReferrals"`
	Level1Referrals int64                  `json:"level1Referrals"`
	Level2Referrals int64                  `json:"level2Referrals"`
	Referrals       []ReferralEdgeResponse `json:"referrals"`
}
