package investmentdto

import "github.com/brtprivate/blockchain-bull-server/internal/domain"

type CreateInvestmentInput struct {
	OwnerAddress    string
	Amount          float64
	Type            domain.InvestmentType
	PackageIndex    *int
	TransactionHash *string
	Status          domain.InvestmentStatus
}

type UpdateInvestmentInput struct {
	ID             string
	EarnedReturn   *float64
	TotalWithdrawn *float64
	Status         *domain.InvestmentStatus
	IsActive       *bool
}

type ListOwnerInvestmentsInput struct {
	OwnerAddress string
	Type         domain.InvestmentType
	Page         int
	Limit        int
}

type ListInvestmentsInput struct {
	Status domain.InvestmentStatus
	Type   domain.InvestmentType
	Page   int
	Limit  int
}
