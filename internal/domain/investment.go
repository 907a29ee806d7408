package domain

import (
	"context"
	"sort"
	"time"
)

type InvestmentType string

const (
	InvestmentPackage InvestmentType = "package"
	InvestmentStake   InvestmentType = "stake"
	InvestmentDirect  InvestmentType = "direct"
	InvestmentOther   InvestmentType = "other"
)

func (t InvestmentType) Valid() bool {
	switch t {
	case InvestmentPackage, InvestmentStake, InvestmentDirect, InvestmentOther:
		return true
	}
	return false
}

type InvestmentStatus string

const (
	InvestmentPending   InvestmentStatus = "pending"
	InvestmentConfirmed InvestmentStatus = "confirmed"
	InvestmentFailed    InvestmentStatus = "failed"
)

func (s InvestmentStatus) Valid() bool {
	switch s {
	case InvestmentPending, InvestmentConfirmed, InvestmentFailed:
		return true
	}
	return false
}

type Investment struct {
	ID               string
	OwnerAddress     string
	Amount           float64
	InvestmentDate   time.Time
	Type             InvestmentType
	PackageIndex     *int
	TransactionHash  *string
	Status           InvestmentStatus
	IsActive         bool
	EarnedReturn     float64
	TotalWithdrawn   float64
	RemainingBalance float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InvestmentUpdate carries only the fields that should change.
type InvestmentUpdate struct {
	EarnedReturn   *float64
	TotalWithdrawn *float64
	Status         *InvestmentStatus
	IsActive       *bool
}

func (u InvestmentUpdate) touchesBalance() bool {
	return u.EarnedReturn != nil || u.TotalWithdrawn != nil
}

// ApplyUpdate merges the supplied fields into the record. RemainingBalance is
// recomputed from the merged return and withdrawal whenever either is supplied.
func (i *Investment) ApplyUpdate(u InvestmentUpdate) {
	if u.EarnedReturn != nil {
		i.EarnedReturn = *u.EarnedReturn
	}
	if u.TotalWithdrawn != nil {
		i.TotalWithdrawn = *u.TotalWithdrawn
	}
	if u.Status != nil {
		i.Status = *u.Status
	}
	if u.IsActive != nil {
		i.IsActive = *u.IsActive
	}
	if u.touchesBalance() {
		i.RemainingBalance = i.Amount + i.EarnedReturn - i.TotalWithdrawn
	}
}

type InvestmentFilter struct {
	OwnerAddress string
	Type         InvestmentType
	Status       InvestmentStatus
	Page         int
	Limit        int
}

type InvestmentTotals struct {
	TotalInvested     float64
	TotalReturnEarned float64
	TotalWithdrawn    float64
	ActiveCount       int64
	InvestmentCount   int64
	Average           float64
	Max               float64
	Min               float64
}

type InvestmentTypeBreakdown struct {
	Type        InvestmentType
	Count       int64
	TotalAmount float64
}

// AggregateInvestments folds a record set into totals. An empty set yields zeros.
func AggregateInvestments(records []*Investment) InvestmentTotals {
	var totals InvestmentTotals
	for i, r := range records {
		totals.TotalInvested += r.Amount
		totals.TotalReturnEarned += r.EarnedReturn
		totals.TotalWithdrawn += r.TotalWithdrawn
		if r.IsActive {
			totals.ActiveCount++
		}
		if i == 0 || r.Amount > totals.Max {
			totals.Max = r.Amount
		}
		if i == 0 || r.Amount < totals.Min {
			totals.Min = r.Amount
		}
	}
	totals.InvestmentCount = int64(len(records))
	if totals.InvestmentCount > 0 {
		totals.Average = totals.TotalInvested / float64(totals.InvestmentCount)
	}
	return totals
}

// BreakdownByType groups a record set by investment type, ordered by type name.
func BreakdownByType(records []*Investment) []InvestmentTypeBreakdown {
	index := make(map[InvestmentType]int)
	var out []InvestmentTypeBreakdown
	for _, r := range records {
		pos, ok := index[r.Type]
		if !ok {
			pos = len(out)
			index[r.Type] = pos
			out = append(out, InvestmentTypeBreakdown{Type: r.Type})
		}
		out[pos].Count++
		out[pos].TotalAmount += r.Amount
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

type InvestmentRepository interface {
	CreateInvestment(ctx context.Context, investment *Investment) error
	GetInvestment(ctx context.Context, id string) (*Investment, error)
	// UpdateInvestment applies the update under a row lock and returns the merged record.
	UpdateInvestment(ctx context.Context, id string, update InvestmentUpdate) (*Investment, error)
	// ListInvestments returns a page ordered by investment date, newest first, and the total match count.
	ListInvestments(ctx context.Context, filter InvestmentFilter) ([]*Investment, int64, error)
	AggregateInvestments(ctx context.Context, owner string) (InvestmentTotals, error)
	AggregateInvestmentsByType(ctx context.Context, owner string) ([]InvestmentTypeBreakdown, error)
}
