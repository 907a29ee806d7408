package models

import "time"

type InvestmentModel struct {
	ID               string    `gorm:"primaryKey;type:uuid"`
	OwnerAddress     string    `gorm:"not null;index:idx_investments_owner_date,priority:1"`
	Amount           float64   `gorm:"not null"`
	InvestmentDate   time.Time `gorm:"not null;index:idx_investments_owner_date,priority:2,sort:desc"`
	InvestmentType   string    `gorm:"not null;default:package;index"`
	PackageIndex     *int
	TransactionHash  *string
	Status           string  `gorm:"not null;default:confirmed;index"`
	IsActive         bool    `gorm:"not null;default:true"`
	EarnedReturn     float64 `gorm:"not null;default:0"`
	TotalWithdrawn   float64 `gorm:"not null;default:0"`
	RemainingBalance float64 `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (InvestmentModel) TableName() string { return "investments" }
