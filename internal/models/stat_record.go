package models

import (
	"time"
)

// PoolStatRecord is a periodic snapshot of one pool, written by the schedule.
type PoolStatRecord struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	Pool            string    `gorm:"size:20;index;not null" json:"pool"`
	APYBPS          uint64    `gorm:"column:apy_bps" json:"apy_bps"`
	TotalStaked     string    `gorm:"size:80;not null;default:'0'" json:"total_staked"`
	ActivePositions int       `gorm:"default:0" json:"active_positions"`
	RecordedAt      time.Time `gorm:"index" json:"recorded_at"`
}

func (PoolStatRecord) TableName() string {
	return "pool_stat_record"
}

// SaleStatRecord is a periodic snapshot of the sale ledger.
type SaleStatRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Phase       string    `gorm:"size:20;not null" json:"phase"`
	TotalSold   string    `gorm:"size:80;not null;default:'0'" json:"total_sold"`
	SoldInPhase string    `gorm:"size:80;not null;default:'0'" json:"sold_in_phase"`
	Buyers      int64     `gorm:"default:0" json:"buyers"`
	RecordedAt  time.Time `gorm:"index" json:"recorded_at"`
}

func (SaleStatRecord) TableName() string {
	return "sale_stat_record"
}

// EventCount aggregates consumed ledger events per kind, maintained by the worker.
type EventCount struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Kind      string    `gorm:"size:30;uniqueIndex;not null" json:"kind"`
	Count     uint64    `gorm:"default:0" json:"count"`
	LastTime  int64     `gorm:"default:0" json:"last_time"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (EventCount) TableName() string {
	return "event_count"
}
