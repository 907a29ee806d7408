package response

import (
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

type InvestmentResponse struct {
	ID               string    `json:"id"`
	UserAddress      string    `json:"userAddress"`
	InvestmentAmount float64   `json:"investmentAmount"`
	InvestmentDate   time.Time `json:"investmentDate"`
	InvestmentType   string    `json:"investmentType"`
	PackageIndex     *int      `json:"packageIndex"`
	TransactionHash  *string   `json:"transactionHash"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"isActive"`
	RoiEarned        float64   `json:"roiEarned"`
	TotalWithdrawn   float64   `json:"totalWithdrawn"`
	RemainingBalance float64   `json:"remainingBalance"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func FromInvestment(i *domain.Investment) InvestmentResponse {
	return InvestmentResponse{
		ID:               i.ID,
		UserAddress:      i.OwnerAddress,
		InvestmentAmount: i.Amount,
		InvestmentDate:   i.InvestmentDate,
		InvestmentType:   string(i.Type),
		PackageIndex:     i.PackageIndex,
		TransactionHash:  i.TransactionHash,
		Status:           string(i.Status),
		IsActive:         i.IsActive,
		RoiEarned:        i.EarnedReturn,
		TotalWithdrawn:   i.TotalWithdrawn,
		RemainingBalance: i.RemainingBalance,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
}

func FromInvestments(is []*domain.Investment) []InvestmentResponse {
	out := make([]InvestmentResponse, len(is))
	for i, inv := range is {
		out[i] = FromInvestment(inv)
	}
	return out
}

type InvestmentTotalsResponse struct {
	TotalInvested     float64 `json:"totalInvested"`
	TotalRoiEarned    float64 `json:"totalRoiEarned"`
	TotalWithdrawn    float64 `json:"totalWithdrawn"`
	ActiveInvestments int64   `json:"activeInvestments"`
	TotalInvestments  int64   `json:"totalInvestments"`
	AverageInvestment float64 `json:"averageInvestment"`
	MaxInvestment     float64 `json:"maxInvestment"`
	MinInvestment     float64 `json:"minInvestment"`
}

func FromTotals(t domain.InvestmentTotals) InvestmentTotalsResponse {
	return InvestmentTotalsResponse{
		TotalInvested:     t.TotalInvested,
		TotalRoiEarned:    t.TotalReturnEarned,
		TotalWithdrawn:    t.TotalWithdrawn,
		ActiveInvestments: t.ActiveCount,
		TotalInvestments:  t.InvestmentCount,
		AverageInvestment: t.Average,
		MaxInvestment:     t.Max,
		MinInvestment:     t.Min,
	}
}

type TypeBreakdownResponse struct {
	Type        string  `json:"type"`
	Count       int64   `json:"count"`
	TotalAmount float64 `json:"totalAmount"`
}

type InvestmentStatsResponse struct {
	Stats             InvestmentTotalsResponse `json:"stats"`
	ByType            []TypeBreakdownResponse  `json:"byType"`
	RecentInvestments []InvestmentResponse     `json:"recentInvestments"`
}

type InvestmentListResponse struct {
	Investments []InvestmentResponse      `json:"investments"`
	Pagination  Pagination                `json:"pagination"`
	Totals      *InvestmentTotalsResponse `json:"totals,omitempty"`
}
