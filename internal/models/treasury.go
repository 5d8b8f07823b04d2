package models

import (
	"time"
)

// AccountBalance is one (account, asset) balance in the treasury balance book.
type AccountBalance struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Account   string    `gorm:"size:100;uniqueIndex:idx_account_asset;not null" json:"account"`
	Asset     string    `gorm:"size:20;uniqueIndex:idx_account_asset;not null" json:"asset"`
	Amount    string    `gorm:"size:80;not null;default:'0'" json:"amount"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (AccountBalance) TableName() string {
	return "account_balance"
}

// TransferRecord is an append-only movement log, one row per executed transfer.
type TransferRecord struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Asset       string    `gorm:"size:20;not null" json:"asset"`
	FromAccount string    `gorm:"size:100;not null" json:"from_account"`
	ToAccount   string    `gorm:"size:100;not null" json:"to_account"`
	Amount      string    `gorm:"size:80;not null" json:"amount"`
	Direction   string    `gorm:"size:10;not null" json:"direction"` // "in" or "out" relative to the reserve
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (TransferRecord) TableName() string {
	return "transfer_record"
}
