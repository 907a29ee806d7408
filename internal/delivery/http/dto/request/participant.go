package request

type RegisterRequest struct {
	Address         string `json:"address"`
	ReferrerAddress string `json:"referrerAddress"`
}

type CommissionRequest struct {
	ReferrerAddress string  `json:"referrerAddress"`
	ReferredAddress string  `json:"referredAddress"`
	Commission      float64 `json:"commission"`
}
