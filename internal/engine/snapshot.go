package engine

import "math/big"

// Snapshot is a deep copy of the complete ledger state, used by the persistence
// layer to save after each committed operation and to rebuild on startup.
type Snapshot struct {
	Paused          bool
	EmergencyFeeBPS uint64
	TokenAsset      string

	SaleParams *SaleParams
	Sale       *SaleState

	Pools       map[PoolType]*PoolConfig
	Positions   map[string][]*StakePosition
	StakedBy    map[string]*big.Int
	RewardsPaid *big.Int
}

func copyBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(v)
}

// Snapshot deep-copies the ledger state.
func (l *Ledger) Snapshot() *Snapshot {
	s := &Snapshot{
		Paused:          l.paused,
		EmergencyFeeBPS: l.emergencyFeeBPS,
		TokenAsset:      l.tokenAsset,
		SaleParams: &SaleParams{
			TotalAvailable:    copyBig(l.saleParams.TotalAvailable),
			MinPurchase:       copyBig(l.saleParams.MinPurchase),
			MaxPurchase:       copyBig(l.saleParams.MaxPurchase),
			ReferralBonusBPS:  l.saleParams.ReferralBonusBPS,
			ReferrerRewardBPS: l.saleParams.ReferrerRewardBPS,
			AssetRates:        make(map[string]*big.Int, len(l.saleParams.AssetRates)),
		},
		Sale: &SaleState{
			Phase:       l.sale.Phase,
			TotalSold:   copyBig(l.sale.TotalSold),
			PurchasedBy: make(map[string]*big.Int, len(l.sale.PurchasedBy)),
			ReferrerOf:  make(map[string]string, len(l.sale.ReferrerOf)),
			Referrers:   make(map[string]*ReferralStats, len(l.sale.Referrers)),
		},
		Pools:       make(map[PoolType]*PoolConfig, len(l.pools)),
		Positions:   make(map[string][]*StakePosition, len(l.positions)),
		StakedBy:    make(map[string]*big.Int, len(l.stakedBy)),
		RewardsPaid: copyBig(l.rewardsPaid),
	}
	for i := 0; i < sellingPhases; i++ {
		s.SaleParams.Allocations[i] = copyBig(l.saleParams.Allocations[i])
		s.SaleParams.Prices[i] = copyBig(l.saleParams.Prices[i])
		s.Sale.SoldByPhase[i] = copyBig(l.sale.SoldByPhase[i])
	}
	for asset, rate := range l.saleParams.AssetRates {
		s.SaleParams.AssetRates[asset] = copyBig(rate)
	}
	for buyer, amt := range l.sale.PurchasedBy {
		s.Sale.PurchasedBy[buyer] = copyBig(amt)
	}
	for buyer, ref := range l.sale.ReferrerOf {
		s.Sale.ReferrerOf[buyer] = ref
	}
	for ref, stats := range l.sale.Referrers {
		cp := &ReferralStats{Count: stats.Count, Earnings: make(map[string]*big.Int, len(stats.Earnings))}
		for asset, amt := range stats.Earnings {
			cp.Earnings[asset] = copyBig(amt)
		}
		s.Sale.Referrers[ref] = cp
	}
	for t, cfg := range l.pools {
		cp := *cfg
		cp.MinStake = copyBig(cfg.MinStake)
		cp.TotalStaked = copyBig(cfg.TotalStaked)
		s.Pools[t] = &cp
	}
	for user, list := range l.positions {
		out := make([]*StakePosition, len(list))
		for i, pos := range list {
			cp := *pos
			cp.Amount = copyBig(pos.Amount)
			cp.AccumulatedRewards = copyBig(pos.AccumulatedRewards)
			out[i] = &cp
		}
		s.Positions[user] = out
	}
	for user, amt := range l.stakedBy {
		s.StakedBy[user] = copyBig(amt)
	}
	return s
}

// Restore replaces the ledger state with the snapshot's. The snapshot is taken
// over as-is; callers pass a freshly loaded copy they do not reuse.
func (l *Ledger) Restore(s *Snapshot) {
	if s == nil {
		return
	}
	l.paused = s.Paused
	l.emergencyFeeBPS = s.EmergencyFeeBPS
	if s.TokenAsset != "" {
		l.tokenAsset = s.TokenAsset
	}
	if s.SaleParams != nil {
		l.saleParams = s.SaleParams
	}
	if s.Sale != nil {
		l.sale = s.Sale
	}
	if s.Pools != nil {
		l.pools = s.Pools
	}
	if s.Positions != nil {
		l.positions = s.Positions
	}
	if s.StakedBy != nil {
		l.stakedBy = s.StakedBy
	}
	if s.RewardsPaid != nil {
		l.rewardsPaid = s.RewardsPaid
	}
}
