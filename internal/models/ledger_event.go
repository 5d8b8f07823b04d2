package models

import (
	"time"
)

// LedgerEvent is the append-only event log written by the DB sink, one row per
// emitted engine event.
type LedgerEvent struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Kind          string    `gorm:"size:30;index;not null" json:"kind"`
	Time          int64     `gorm:"index;not null" json:"time"`
	Account       string    `gorm:"size:100;index" json:"account"`
	Referrer      string    `gorm:"size:100" json:"referrer"`
	Asset         string    `gorm:"size:20" json:"asset"`
	Amount        string    `gorm:"size:80" json:"amount"`
	Bonus         string    `gorm:"size:80" json:"bonus"`
	Cost          string    `gorm:"size:80" json:"cost"`
	Fee           string    `gorm:"size:80" json:"fee"`
	Phase         string    `gorm:"size:20" json:"phase"`
	Pool          string    `gorm:"size:20" json:"pool"`
	PositionIndex int       `gorm:"default:0" json:"position_index"`
	Detail        string    `gorm:"size:100" json:"detail"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (LedgerEvent) TableName() string {
	return "ledger_event"
}
