package participantdto

import "github.com/brtprivate/blockchain-bull-server/internal/domain"

type RegisterOutput struct {
	Participant    *domain.Participant
	LevelsCredited int
}

type PropagationOutput struct {
	Address            string
	LastCompletedLevel int
	// EdgesCreated counts edges written by this walk; edges already present are skipped
	EdgesCreated int
}

type ListParticipantsOutput struct {
	Participants []*domain.Participant
	Pagination   Pagination
}

type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int64
	ItemsPerPage int
}

type ReferralsOutput struct {
	TotalReferrals  int64
	Level1Referrals int64
	Level2Referrals int64
	Referrals       []*domain.ReferralEdge
}
