package models

import "time"

type ParticipantModel struct {
	Address          string    `gorm:"primaryKey"`
	SponsorAddress   string    `gorm:"not null;index"`
	RegistrationDate time.Time `gorm:"not null;index:idx_participants_registration_date,sort:desc"`
	IsActive         bool      `gorm:"not null;default:true"`
	TotalReferrals   int64     `gorm:"not null;default:0;index"`
	Level1Referrals  int64     `gorm:"column:level1_referrals;not null;default:0"`
	Level2Referrals  int64     `gorm:"column:level2_referrals;not null;default:0"`
	Level3Referrals  int64     `gorm:"column:level3_referrals;not null;default:0"`
	Level4Referrals  int64     `gorm:"column:level4_referrals;not null;default:0"`
	Level5Referrals  int64     `gorm:"column:level5_referrals;not null;default:0"`
	Level6Referrals  int64     `gorm:"column:level6_referrals;not null;default:0"`
	Level7Referrals  int64     `gorm:"column:level7_referrals;not null;default:0"`
	Level8Referrals  int64     `gorm:"column:level8_referrals;not null;default:0"`
	Level9Referrals  int64     `gorm:"column:level9_referrals;not null;default:0"`
	Level10Referrals int64     `gorm:"column:level10_referrals;not null;default:0"`
	TotalInvestment  float64   `gorm:"not null;default:0"`
	TotalEarnings    float64   `gorm:"not null;default:0"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (ParticipantModel) TableName() string { return "participants" }
