package models

import "time"

type ReferralEdgeModel struct {
	ID               string    `gorm:"primaryKey"`
	ReferrerAddress  string    `gorm:"not null;index:idx_referral_edges_referrer_level,priority:1;uniqueIndex:uq_referral_edges_pair,priority:1"`
	ReferredAddress  string    `gorm:"not null;uniqueIndex:uq_referral_edges_referred_level,priority:1;uniqueIndex:uq_referral_edges_pair,priority:2"`
	Level            int       `gorm:"not null;index:idx_referral_edges_referrer_level,priority:2;uniqueIndex:uq_referral_edges_referred_level,priority:2"`
	RegistrationDate time.Time `gorm:"not null;index:idx_referral_edges_registration_date,sort:desc"`
	IsActive         bool      `gorm:"not null;default:true"`
	CommissionEarned float64   `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ReferralEdgeModel) TableName() string { return "referral_edges" }
