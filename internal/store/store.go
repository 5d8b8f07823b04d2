package store

import (
	"errors"
	"fmt"
	"math/big"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/models"

	"gorm.io/gorm"
)

// Store persists engine snapshots. Save writes the whole snapshot in one
// transaction after each committed operation; Load rebuilds it on startup.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
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

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// Load reads the persisted ledger state. It returns (nil, nil) when no state
// has been saved yet, in which case the caller starts from defaults.
func (s *Store) Load() (*engine.Snapshot, error) {
	var state models.LedgerState
	err := s.db.First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &engine.Snapshot{
		Paused:          state.Paused,
		EmergencyFeeBPS: state.EmergencyFeeBPS,
		TokenAsset:      state.TokenAsset,
		SaleParams: &engine.SaleParams{
			ReferralBonusBPS:  state.ReferralBonusBPS,
			ReferrerRewardBPS: state.ReferrerRewardBPS,
			AssetRates:        map[string]*big.Int{},
		},
		Sale: &engine.SaleState{
			PurchasedBy: map[string]*big.Int{},
			ReferrerOf:  map[string]string{},
			Referrers:   map[string]*engine.ReferralStats{},
		},
		Pools:     map[engine.PoolType]*engine.PoolConfig{},
		Positions: map[string][]*engine.StakePosition{},
		StakedBy:  map[string]*big.Int{},
	}

	phase, err := engine.ParsePhase(state.Phase)
	if err != nil {
		return nil, fmt.Errorf("ledger state: %w", err)
	}
	snap.Sale.Phase = phase
	if snap.Sale.TotalSold, err = parseAmount(state.TotalSold); err != nil {
		return nil, err
	}
	if snap.SaleParams.TotalAvailable, err = parseAmount(state.TotalAvailable); err != nil {
		return nil, err
	}
	if snap.SaleParams.MinPurchase, err = parseAmount(state.MinPurchase); err != nil {
		return nil, err
	}
	if snap.SaleParams.MaxPurchase, err = parseAmount(state.MaxPurchase); err != nil {
		return nil, err
	}
	if snap.RewardsPaid, err = parseAmount(state.RewardsPaid); err != nil {
		return nil, err
	}

	var phases []models.PhaseLedger
	if err := s.db.Find(&phases).Error; err != nil {
		return nil, err
	}
	for _, row := range phases {
		p, err := engine.ParsePhase(row.Phase)
		if err != nil {
			return nil, fmt.Errorf("phase ledger: %w", err)
		}
		i := int(p)
		if i >= len(snap.SaleParams.Allocations) {
			return nil, fmt.Errorf("phase ledger: %s carries no allocation", row.Phase)
		}
		if snap.SaleParams.Allocations[i], err = parseAmount(row.Allocation); err != nil {
			return nil, err
		}
		if snap.SaleParams.Prices[i], err = parseAmount(row.Price); err != nil {
			return nil, err
		}
		if snap.Sale.SoldByPhase[i], err = parseAmount(row.Sold); err != nil {
			return nil, err
		}
	}
	for i := range snap.SaleParams.Allocations {
		if snap.SaleParams.Allocations[i] == nil {
			snap.SaleParams.Allocations[i] = new(big.Int)
			snap.SaleParams.Prices[i] = new(big.Int)
			snap.Sale.SoldByPhase[i] = new(big.Int)
		}
	}

	var assets []models.PaymentAsset
	if err := s.db.Find(&assets).Error; err != nil {
		return nil, err
	}
	for _, row := range assets {
		rate, err := parseAmount(row.Rate)
		if err != nil {
			return nil, err
		}
		snap.SaleParams.AssetRates[row.Symbol] = rate
	}

	var buyers []models.BuyerTotal
	if err := s.db.Find(&buyers).Error; err != nil {
		return nil, err
	}
	for _, row := range buyers {
		total, err := parseAmount(row.Total)
		if err != nil {
			return nil, err
		}
		snap.Sale.PurchasedBy[row.Address] = total
	}

	var bindings []models.ReferralBinding
	if err := s.db.Find(&bindings).Error; err != nil {
		return nil, err
	}
	for _, row := range bindings {
		snap.Sale.ReferrerOf[row.Buyer] = row.Referrer
	}

	var stats []models.ReferrerStat
	if err := s.db.Find(&stats).Error; err != nil {
		return nil, err
	}
	for _, row := range stats {
		snap.Sale.Referrers[row.Referrer] = &engine.ReferralStats{
			Count:    row.Count,
			Earnings: map[string]*big.Int{},
		}
	}
	var earnings []models.ReferrerEarning
	if err := s.db.Find(&earnings).Error; err != nil {
		return nil, err
	}
	for _, row := range earnings {
		st, ok := snap.Sale.Referrers[row.Referrer]
		if !ok {
			st = &engine.ReferralStats{Earnings: map[string]*big.Int{}}
			snap.Sale.Referrers[row.Referrer] = st
		}
		amt, err := parseAmount(row.Amount)
		if err != nil {
			return nil, err
		}
		st.Earnings[row.Asset] = amt
	}

	var pools []models.StakePool
	if err := s.db.Find(&pools).Error; err != nil {
		return nil, err
	}
	for _, row := range pools {
		t, err := engine.ParsePoolType(row.Pool)
		if err != nil {
			return nil, fmt.Errorf("stake pool: %w", err)
		}
		cfg := &engine.PoolConfig{
			Type:        t,
			APYBPS:      row.APYBPS,
			LockSeconds: row.LockSeconds,
			BonusBPS:    row.BonusBPS,
			Active:      row.Active,
		}
		if cfg.MinStake, err = parseAmount(row.MinStake); err != nil {
			return nil, err
		}
		if cfg.TotalStaked, err = parseAmount(row.TotalStaked); err != nil {
			return nil, err
		}
		snap.Pools[t] = cfg
	}

	var positions []models.StakePosition
	if err := s.db.Order("address, position_index").Find(&positions).Error; err != nil {
		return nil, err
	}
	for _, row := range positions {
		t, err := engine.ParsePoolType(row.Pool)
		if err != nil {
			return nil, fmt.Errorf("stake position: %w", err)
		}
		if got := len(snap.Positions[row.Address]); got != row.PositionIndex {
			return nil, fmt.Errorf("stake position gap for %s: have %d rows, next index %d", row.Address, got, row.PositionIndex)
		}
		pos := &engine.StakePosition{
			Pool:           t,
			StartTime:      row.StartTime,
			LastRewardTime: row.LastRewardTime,
			LastBonusClaim: row.LastBonusClaim,
			Active:         row.Active,
		}
		if pos.Amount, err = parseAmount(row.Amount); err != nil {
			return nil, err
		}
		if pos.AccumulatedRewards, err = parseAmount(row.AccumulatedRewards); err != nil {
			return nil, err
		}
		snap.Positions[row.Address] = append(snap.Positions[row.Address], pos)
	}

	var stakers []models.StakerTotal
	if err := s.db.Find(&stakers).Error; err != nil {
		return nil, err
	}
	for _, row := range stakers {
		total, err := parseAmount(row.Total)
		if err != nil {
			return nil, err
		}
		snap.StakedBy[row.Address] = total
	}

	return snap, nil
}

// Save rewrites the persisted state from the snapshot in one transaction. The
// ledger's write path is serialized above this layer, so a full rewrite per
// committed operation keeps the mapping simple without racing itself.
func (s *Store) Save(snap *engine.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("nil snapshot")
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []interface{}{
			&models.PhaseLedger{}, &models.PaymentAsset{}, &models.BuyerTotal{},
			&models.ReferralBinding{}, &models.ReferrerStat{}, &models.ReferrerEarning{},
			&models.StakePool{}, &models.StakePosition{}, &models.StakerTotal{},
		} {
			if err := tx.Where("1 = 1").Delete(table).Error; err != nil {
				return err
			}
		}

		state := models.LedgerState{
			ID:                1,
			TokenAsset:        snap.TokenAsset,
			Phase:             snap.Sale.Phase.String(),
			TotalSold:         amountString(snap.Sale.TotalSold),
			TotalAvailable:    amountString(snap.SaleParams.TotalAvailable),
			MinPurchase:       amountString(snap.SaleParams.MinPurchase),
			MaxPurchase:       amountString(snap.SaleParams.MaxPurchase),
			ReferralBonusBPS:  snap.SaleParams.ReferralBonusBPS,
			ReferrerRewardBPS: snap.SaleParams.ReferrerRewardBPS,
			EmergencyFeeBPS:   snap.EmergencyFeeBPS,
			RewardsPaid:       amountString(snap.RewardsPaid),
			Paused:            snap.Paused,
		}
		if err := tx.Save(&state).Error; err != nil {
			return err
		}

		for i := range snap.SaleParams.Allocations {
			row := models.PhaseLedger{
				Phase:      engine.Phase(i).String(),
				Allocation: amountString(snap.SaleParams.Allocations[i]),
				Price:      amountString(snap.SaleParams.Prices[i]),
				Sold:       amountString(snap.Sale.SoldByPhase[i]),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for symbol, rate := range snap.SaleParams.AssetRates {
			if err := tx.Create(&models.PaymentAsset{Symbol: symbol, Rate: amountString(rate)}).Error; err != nil {
				return err
			}
		}

		for addr, total := range snap.Sale.PurchasedBy {
			if err := tx.Create(&models.BuyerTotal{Address: addr, Total: amountString(total)}).Error; err != nil {
				return err
			}
		}

		for buyer, referrer := range snap.Sale.ReferrerOf {
			if err := tx.Create(&models.ReferralBinding{Buyer: buyer, Referrer: referrer}).Error; err != nil {
				return err
			}
		}

		for referrer, stats := range snap.Sale.Referrers {
			if err := tx.Create(&models.ReferrerStat{Referrer: referrer, Count: stats.Count}).Error; err != nil {
				return err
			}
			for asset, amount := range stats.Earnings {
				row := models.ReferrerEarning{Referrer: referrer, Asset: asset, Amount: amountString(amount)}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		for t, cfg := range snap.Pools {
			row := models.StakePool{
				Pool:        t.String(),
				APYBPS:      cfg.APYBPS,
				MinStake:    amountString(cfg.MinStake),
				LockSeconds: cfg.LockSeconds,
				BonusBPS:    cfg.BonusBPS,
				Active:      cfg.Active,
				TotalStaked: amountString(cfg.TotalStaked),
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for addr, list := range snap.Positions {
			for i, pos := range list {
				row := models.StakePosition{
					Address:            addr,
					PositionIndex:      i,
					Pool:               pos.Pool.String(),
					Amount:             amountString(pos.Amount),
					StartTime:          pos.StartTime,
					LastRewardTime:     pos.LastRewardTime,
					AccumulatedRewards: amountString(pos.AccumulatedRewards),
					LastBonusClaim:     pos.LastBonusClaim,
					Active:             pos.Active,
				}
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			}
		}

		for addr, total := range snap.StakedBy {
			if err := tx.Create(&models.StakerTotal{Address: addr, Total: amountString(total)}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
