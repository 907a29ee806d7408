package domain

import (
	"context"
	"time"
)

// ReferralEdge records that ReferredAddress sits Level hops below ReferrerAddress.
type ReferralEdge struct {
	ID               string
	ReferrerAddress  string
	ReferredAddress  string
	Level            int
	RegistrationDate time.Time
	IsActive         bool
	CommissionEarned float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ReferralFilter struct {
	ReferrerAddress string
	ReferredAddress string
	// Level zero matches every level
	Level int
	Limit int
}

type ReferralRepository interface {
	// CreditAncestor inserts the edge and increments the referrer's counter for
	// edge.Level in one transaction. It returns false without writing when the
	// same edge already exists, and ErrEdgeConflict when the level is held by
	// another referrer or the pair is already linked at another level.
	CreditAncestor(ctx context.Context, edge *ReferralEdge) (bool, error)
	GetEdge(ctx context.Context, referrer, referred string) (*ReferralEdge, error)
	AddCommission(ctx context.Context, referrer, referred string, amount float64) (*ReferralEdge, error)
	// ListEdges returns matching edges, newest registration first.
	ListEdges(ctx context.Context, filter ReferralFilter) ([]*ReferralEdge, error)
	CountEdgesByLevel(ctx context.Context, referrer string) ([MaxReferralLevels]int64, error)
	SumCommission(ctx context.Context, referrer string) (float64, error)
}
