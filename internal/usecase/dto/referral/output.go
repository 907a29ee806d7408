package referraldto

import (
	"time"

	"github.com/brtprivate/blockchain-bull-server/internal/domain"
)

type StatsOutput struct {
	Address          string
	UserExists       bool
	RegistrationDate *time.Time
	TotalReferrals   int64
	TotalInvestment  float64
	TotalEarnings    float64
	TotalCommission  float64
	// Levels[i] describes level i+1
	Levels [domain.MaxReferralLevels]LevelOutput
}

type LevelOutput struct {
	Level     int
	Count     int
	Referrals []*domain.ReferralEdge
}

type LevelWiseOutput struct {
	Address    string
	UserExists bool
	Levels     []LevelOutput
}
