package models

import (
	"time"
)

// StakePool is one pool's configuration and running total.
type StakePool struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Pool        string    `gorm:"size:20;uniqueIndex;not null" json:"pool"`
	APYBPS      uint64    `gorm:"column:apy_bps;default:0" json:"apy_bps"`
	MinStake    string    `gorm:"size:80;not null;default:'0'" json:"min_stake"`
	LockSeconds int64     `gorm:"default:0" json:"lock_seconds"`
	BonusBPS    uint64    `gorm:"column:bonus_bps;default:0" json:"bonus_bps"`
	Active      bool      `gorm:"default:true" json:"active"`
	TotalStaked string    `gorm:"size:80;not null;default:'0'" json:"total_staked"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (StakePool) TableName() string {
	return "stake_pool"
}

// StakePosition is one user's stake. PositionIndex is the stable per-user
// creation index; closed positions keep their row with Active=false.
type StakePosition struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	Address            string    `gorm:"size:100;uniqueIndex:idx_address_position;not null" json:"address"`
	PositionIndex      int       `gorm:"uniqueIndex:idx_address_position;not null" json:"position_index"`
	Pool               string    `gorm:"size:20;not null" json:"pool"`
	Amount             string    `gorm:"size:80;not null" json:"amount"`
	StartTime          int64     `gorm:"not null" json:"start_time"`
	LastRewardTime     int64     `gorm:"not null" json:"last_reward_time"`
	AccumulatedRewards string    `gorm:"size:80;not null;default:'0'" json:"accumulated_rewards"`
	LastBonusClaim     int64     `gorm:"default:0" json:"last_bonus_claim"`
	Active             bool      `gorm:"default:true" json:"active"`
	CreatedAt          time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (StakePosition) TableName() string {
	return "stake_position"
}

// StakerTotal tracks one user's total active principal across pools.
type StakerTotal struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Address   string    `gorm:"size:100;uniqueIndex;not null" json:"address"`
	Total     string    `gorm:"size:80;not null;default:'0'" json:"total"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (StakerTotal) TableName() string {
	return "staker_total"
}
