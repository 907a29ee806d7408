package request

type CreateInvestmentRequest struct {
	UserAddress      string  `json:"userAddress"`
	InvestmentAmount float64 `json:"investmentAmount"`
	InvestmentType   string  `json:"investmentType"`
	PackageIndex     *int    `json:"packageIndex"`
	TransactionHash  *string `json:"transactionHash"`
	Status           string  `json:"status"`
}

// UpdateInvestmentRequest leaves absent fields nil so they are not touched.
type UpdateInvestmentRequest struct {
	RoiEarned      *float64 `json:"roiEarned"`
	TotalWithdrawn *float64 `json:"totalWithdrawn"`
	Status         *string  `json:"status"`
	IsActive       *bool    `json:"isActive"`
}
