package treasury

import (
	"errors"
	"fmt"
	"math/big"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"

	"gorm.io/gorm"
)

// ErrInsufficientBalance is returned when the source account cannot cover a
// transfer. Nothing is written when it fires.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Book is a database-backed balance book implementing engine.TransferService.
// Each transfer runs inside one transaction: both balance rows and the movement
// record commit together or not at all.
type Book struct {
	db *gorm.DB
}

func NewBook(db *gorm.DB) *Book {
	return &Book{db: db}
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("malformed amount %q", s)
	}
	return v, nil
}

// TransferIn pulls amount of asset from the given account into the reserve.
func (b *Book) TransferIn(asset, from string, amount *big.Int) error {
	return b.move(asset, from, engine.ReserveAccount, amount, "in")
}

// TransferOut pays amount of asset from the reserve to the given account.
func (b *Book) TransferOut(asset, to string, amount *big.Int) error {
	return b.move(asset, engine.ReserveAccount, to, amount, "out")
}

func (b *Book) move(asset, from, to string, amount *big.Int, direction string) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid transfer amount")
	}
	if amount.Sign() == 0 {
		return nil
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		var src models.AccountBalance
		err := tx.Where("account = ? AND asset = ?", from, asset).First(&src).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s has no %s", ErrInsufficientBalance, from, asset)
		}
		if err != nil {
			return err
		}
		srcAmount, err := parseAmount(src.Amount)
		if err != nil {
			return err
		}
		if srcAmount.Cmp(amount) < 0 {
			return fmt.Errorf("%w: %s holds %s %s, needs %s", ErrInsufficientBalance, from, srcAmount, asset, amount)
		}
		srcAmount.Sub(srcAmount, amount)
		if err := tx.Model(&src).Update("amount", srcAmount.String()).Error; err != nil {
			return err
		}

		if err := creditTx(tx, to, asset, amount); err != nil {
			return err
		}

		return tx.Create(&models.TransferRecord{
			Asset:       asset,
			FromAccount: from,
			ToAccount:   to,
			Amount:      amount.String(),
			Direction:   direction,
		}).Error
	})
}

func creditTx(tx *gorm.DB, account, asset string, amount *big.Int) error {
	var dst models.AccountBalance
	err := tx.Where("account = ? AND asset = ?", account, asset).First(&dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&models.AccountBalance{
			Account: account,
			Asset:   asset,
			Amount:  amount.String(),
		}).Error
	}
	if err != nil {
		return err
	}
	dstAmount, err := parseAmount(dst.Amount)
	if err != nil {
		return err
	}
	dstAmount.Add(dstAmount, amount)
	return tx.Model(&dst).Update("amount", dstAmount.String()).Error
}

// Credit mints amount of asset into an account outside the reserve flow. Used
// by the deposit endpoint and the seed script to fund demo accounts and the
// reserve float.
func (b *Book) Credit(account, asset string, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return fmt.Errorf("invalid credit amount")
	}
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := creditTx(tx, account, asset, amount); err != nil {
			return err
		}
		return tx.Create(&models.TransferRecord{
			Asset:       asset,
			FromAccount: "mint",
			ToAccount:   account,
			Amount:      amount.String(),
			Direction:   "in",
		}).Error
	})
}

// Balance returns the account's balance for one asset.
func (b *Book) Balance(account, asset string) (*big.Int, error) {
	var row models.AccountBalance
	err := b.db.Where("account = ? AND asset = ?", account, asset).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return new(big.Int), nil
	}
	if err != nil {
		return nil, err
	}
	return parseAmount(row.Amount)
}

// Balances returns every asset balance held by the account.
func (b *Book) Balances(account string) ([]models.AccountBalance, error) {
	var rows []models.AccountBalance
	if err := b.db.Where("account = ?", account).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
