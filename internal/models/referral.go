package models

import (
	"time"
)

// ReferralBinding is a buyer's permanent referrer, set on their first
// qualifying purchase and never overwritten.
type ReferralBinding struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Buyer     string    `gorm:"size:100;uniqueIndex;not null" json:"buyer"`
	Referrer  string    `gorm:"size:100;not null" json:"referrer"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ReferralBinding) TableName() string {
	return "referral_binding"
}

// ReferrerStat counts a referrer's credited purchases.
type ReferrerStat struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Referrer  string    `gorm:"size:100;uniqueIndex;not null" json:"referrer"`
	Count     uint64    `gorm:"default:0" json:"count"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ReferrerStat) TableName() string {
	return "referrer_stat"
}

// ReferrerEarning accumulates a referrer's lifetime reward per payment asset.
type ReferrerEarning struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Referrer  string    `gorm:"size:100;uniqueIndex:idx_referrer_asset;not null" json:"referrer"`
	Asset     string    `gorm:"size:20;uniqueIndex:idx_referrer_asset;not null" json:"asset"`
	Amount    string    `gorm:"size:80;not null;default:'0'" json:"amount"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (ReferrerEarning) TableName() string {
	return "referrer_earning"
}
