package domain

import (
	"context"
	"strings"
	"time"
)

// RootSentinel is the sponsor address of a participant without an upline.
const RootSentinel = "0x0000000000000000000000000000000000000000"

// MaxReferralLevels bounds the depth of the upline credited on registration.
const MaxReferralLevels = 10

type Participant struct {
	Address          string
	SponsorAddress   string
	RegistrationDate time.Time
	IsActive         bool

	// LevelCounts[i] holds the number of downline participants at level i+1
	LevelCounts     [MaxReferralLevels]int64
	TotalReferrals  int64
	TotalInvestment float64
	TotalEarnings   float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LevelCount returns the counter for a 1-based level, zero outside [1, MaxReferralLevels].
func (p *Participant) LevelCount(level int) int64 {
	if !ValidLevel(level) {
		return 0
	}
	return p.LevelCounts[level-1]
}

// HasUpline reports whether the participant's sponsor is a real participant.
func (p *Participant) HasUpline() bool {
	return p.SponsorAddress != RootSentinel && p.SponsorAddress != ""
}

// NormalizeAddress trims and lower-cases an address.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

func ValidLevel(level int) bool {
	return level >= 1 && level <= MaxReferralLevels
}

// ParticipantTotalsDelta is applied to the aggregate fields of a participant.
type ParticipantTotalsDelta struct {
	Investment float64
	Earnings   float64
}

type ParticipantFilter struct {
	Page  int
	Limit int
}

type ParticipantRepository interface {
	// RegisterParticipant inserts the participant and, when firstEdge is not nil,
	// the level-1 edge plus the sponsor's level-1 increment in one transaction.
	// Returns ErrDuplicateParticipant or ErrUnknownSponsor without writing anything.
	RegisterParticipant(ctx context.Context, participant *Participant, firstEdge *ReferralEdge) error
	GetParticipant(ctx context.Context, address string) (*Participant, error)
	IncrementParticipantTotals(ctx context.Context, address string, delta ParticipantTotalsDelta) error
	ListParticipants(ctx context.Context, filter ParticipantFilter) ([]*Participant, int64, error)
	TopReferrers(ctx context.Context, limit int) ([]*Participant, error)
}
