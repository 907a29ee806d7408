package referraldto

type CommissionInput struct {
	ReferrerAddress string
	ReferredAddress string
	Amount          float64
}

type BuildTreeInput struct {
	Address  string
	MaxDepth int
}

type LevelWiseInput struct {
	Address string
	// Level zero returns all levels
	Level int
}
