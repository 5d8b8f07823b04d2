package models

import (
	"time"
)

// LedgerState is the singleton snapshot row for the engine's scalar state and
// sale parameters. Amounts are decimal strings of 18-decimal base units.
type LedgerState struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	TokenAsset        string    `gorm:"size:20;not null" json:"token_asset"`
	Phase             string    `gorm:"size:20;not null;default:'presale'" json:"phase"`
	TotalSold         string    `gorm:"size:80;not null;default:'0'" json:"total_sold"`
	TotalAvailable    string    `gorm:"size:80;not null;default:'0'" json:"total_available"`
	MinPurchase       string    `gorm:"size:80;not null;default:'0'" json:"min_purchase"`
	MaxPurchase       string    `gorm:"size:80;not null;default:'0'" json:"max_purchase"`
	ReferralBonusBPS  uint64    `gorm:"default:0" json:"referral_bonus_bps"`
	ReferrerRewardBPS uint64    `gorm:"default:0" json:"referrer_reward_bps"`
	EmergencyFeeBPS   uint64    `gorm:"default:0" json:"emergency_fee_bps"`
	RewardsPaid       string    `gorm:"size:80;not null;default:'0'" json:"rewards_paid"`
	Paused            bool      `gorm:"default:false" json:"paused"`
	CreatedAt         time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (LedgerState) TableName() string {
	return "ledger_state"
}

// PhaseLedger holds one selling phase's allocation, price and running total.
type PhaseLedger struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Phase      string    `gorm:"size:20;uniqueIndex;not null" json:"phase"`
	Allocation string    `gorm:"size:80;not null;default:'0'" json:"allocation"`
	Price      string    `gorm:"size:80;not null;default:'0'" json:"price"`
	Sold       string    `gorm:"size:80;not null;default:'0'" json:"sold"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PhaseLedger) TableName() string {
	return "phase_ledger"
}

// PaymentAsset is an accepted payment asset and its 18-decimal rate into
// reference units.
type PaymentAsset struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Symbol    string    `gorm:"size:20;uniqueIndex;not null" json:"symbol"`
	Rate      string    `gorm:"size:80;not null" json:"rate"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (PaymentAsset) TableName() string {
	return "payment_asset"
}

// BuyerTotal tracks one buyer's cumulative purchased tokens.
type BuyerTotal struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Address   string    `gorm:"size:100;uniqueIndex;not null" json:"address"`
	Total     string    `gorm:"size:80;not null;default:'0'" json:"total"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (BuyerTotal) TableName() string {
	return "buyer_total"
}
