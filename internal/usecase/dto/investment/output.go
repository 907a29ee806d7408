package investmentdto

import "github.com/brtprivate/blockchain-bull-server/internal/domain"

type OwnerAggregateOutput struct {
	Totals            domain.InvestmentTotals
	ByType            []domain.InvestmentTypeBreakdown
	RecentInvestments []*domain.Investment
}

type ListInvestmentsOutput struct {
	Investments []*domain.Investment
	Pagination  Pagination
	// Totals is set only for owner listings
	Totals *domain.InvestmentTotals
}

type Pagination struct {
	CurrentPage  int
	TotalPages   int
	TotalItems   int64
	ItemsPerPage int
}
