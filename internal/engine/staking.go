package engine

import (
	"fmt"
	"math/big"
)

// Stake opens a new position for user in the given pool. Returns the position's
// index, which stays valid for the life of the ledger.
func (l *Ledger) Stake(user string, amount *big.Int, pool PoolType) (int, error) {
	if err := l.begin(); err != nil {
		return 0, err
	}
	defer l.end()
	if err := l.requireNotPaused(); err != nil {
		return 0, err
	}

	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrZeroAmount
	}
	cfg, ok := l.pools[pool]
	if !ok {
		return 0, ErrUnknownPool
	}
	if !cfg.Active {
		return 0, ErrPoolInactive
	}
	if cfg.MinStake != nil && amount.Cmp(cfg.MinStake) < 0 {
		return 0, ErrBelowMinStake
	}

	if err := l.transfers.TransferIn(l.tokenAsset, user, amount); err != nil {
		return 0, fmt.Errorf("stake transfer: %w", err)
	}

	now := l.clock.Now()
	pos := &StakePosition{
		Pool:               pool,
		Amount:             new(big.Int).Set(amount),
		StartTime:          now,
		LastRewardTime:     now,
		AccumulatedRewards: new(big.Int),
		LastBonusClaim:     now,
		Active:             true,
	}
	l.positions[user] = append(l.positions[user], pos)
	index := len(l.positions[user]) - 1

	cfg.TotalStaked.Add(cfg.TotalStaked, amount)
	staked := l.stakedBy[user]
	if staked == nil {
		staked = new(big.Int)
		l.stakedBy[user] = staked
	}
	staked.Add(staked, amount)

	l.sink.Emit(Event{
		Kind:    EventStake,
		Time:    now,
		Account: user,
		Asset:   l.tokenAsset,
		Amount:  amount.String(),
		Pool:    pool.String(),
		Index:   index,
	})
	return index, nil
}

// pendingAt computes the claimable reward for pos at the given instant: the
// carried-over accumulation plus interest since the last checkpoint, with the
// fixed-term bonus multiplier applied to the whole base reward. Rate changes are
// not segmented historically; the pool's current APY prices the entire open
// window.
func (l *Ledger) pendingAt(pos *StakePosition, now int64) *big.Int {
	cfg := l.pools[pos.Pool]
	if cfg == nil {
		return new(big.Int)
	}
	base := new(big.Int).Set(pos.AccumulatedRewards)
	base.Add(base, accruedReward(pos.Amount, cfg.APYBPS, now-pos.LastRewardTime))
	if pos.Pool != PoolFlexible && cfg.BonusBPS > 0 {
		base.Add(base, bpsShare(base, cfg.BonusBPS))
	}
	return base
}

// PendingRewards returns the claimable reward for user's position at index.
// A defensive read: out-of-range indices and inactive positions yield zero,
// never an error.
func (l *Ledger) PendingRewards(user string, index int) *big.Int {
	list := l.positions[user]
	if index < 0 || index >= len(list) || !list[index].Active {
		return new(big.Int)
	}
	return l.pendingAt(list[index], l.clock.Now())
}

// position validates an index and returns the active position behind it.
func (l *Ledger) position(user string, index int) (*StakePosition, error) {
	list := l.positions[user]
	if index < 0 || index >= len(list) {
		return nil, ErrInvalidIndex
	}
	pos := list[index]
	if !pos.Active {
		return nil, ErrInactiveStake
	}
	return pos, nil
}

// ClaimRewards pays out the pending reward and resets the position's checkpoint.
// The position stays active. Available under pause.
func (l *Ledger) ClaimRewards(user string, index int) (*big.Int, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	pos, err := l.position(user, index)
	if err != nil {
		return nil, err
	}
	now := l.clock.Now()
	pending := l.pendingAt(pos, now)
	if pending.Sign() == 0 {
		return nil, ErrNoRewards
	}

	if err := l.transfers.TransferOut(l.tokenAsset, user, pending); err != nil {
		return nil, fmt.Errorf("reward transfer: %w", err)
	}

	pos.LastRewardTime = now
	pos.AccumulatedRewards = new(big.Int)
	l.rewardsPaid.Add(l.rewardsPaid, pending)

	l.sink.Emit(Event{
		Kind:    EventClaim,
		Time:    now,
		Account: user,
		Asset:   l.tokenAsset,
		Amount:  pending.String(),
		Pool:    pos.Pool.String(),
		Index:   index,
	})
	return pending, nil
}

// ClaimFlexibleBonus pays the flat principal bonus for a flexible position. The
// bonus runs on its own 24h track and never touches the base-reward checkpoint.
func (l *Ledger) ClaimFlexibleBonus(user string, index int) (*big.Int, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	pos, err := l.position(user, index)
	if err != nil {
		return nil, err
	}
	if pos.Pool != PoolFlexible {
		return nil, ErrNotFlexible
	}
	now := l.clock.Now()
	if now-pos.LastBonusClaim < 24*3600 {
		return nil, ErrBonusNotReady
	}
	cfg := l.pools[pos.Pool]
	bonus := bpsShare(pos.Amount, cfg.BonusBPS)
	if bonus.Sign() == 0 {
		return nil, ErrNoRewards
	}

	if err := l.transfers.TransferOut(l.tokenAsset, user, bonus); err != nil {
		return nil, fmt.Errorf("bonus transfer: %w", err)
	}

	pos.LastBonusClaim = now
	l.rewardsPaid.Add(l.rewardsPaid, bonus)

	l.sink.Emit(Event{
		Kind:    EventBonusClaim,
		Time:    now,
		Account: user,
		Asset:   l.tokenAsset,
		Amount:  bonus.String(),
		Pool:    pos.Pool.String(),
		Index:   index,
	})
	return bonus, nil
}

// Unstake closes a position once its lock (if any) has elapsed and settles
// principal plus final reward in one payout. This is the only full-value exit
// for locked pools and the normal exit for flexible ones. Available under pause.
func (l *Ledger) Unstake(user string, index int) (*big.Int, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	pos, err := l.position(user, index)
	if err != nil {
		return nil, err
	}
	cfg := l.pools[pos.Pool]
	now := l.clock.Now()
	if cfg.LockSeconds > 0 && now < pos.StartTime+cfg.LockSeconds {
		return nil, ErrStillLocked
	}

	reward := l.pendingAt(pos, now)
	payout := new(big.Int).Add(pos.Amount, reward)

	if err := l.transfers.TransferOut(l.tokenAsset, user, payout); err != nil {
		return nil, fmt.Errorf("unstake transfer: %w", err)
	}

	if err := l.closePosition(user, pos); err != nil {
		return nil, err
	}
	pos.AccumulatedRewards = new(big.Int)
	l.rewardsPaid.Add(l.rewardsPaid, reward)

	l.sink.Emit(Event{
		Kind:    EventUnstake,
		Time:    now,
		Account: user,
		Asset:   l.tokenAsset,
		Amount:  payout.String(),
		Bonus:   reward.String(),
		Pool:    pos.Pool.String(),
		Index:   index,
	})
	return payout, nil
}

// EmergencyUnstake exits a locked position before the lock elapses. The caller
// pays the emergency fee on principal and forfeits every accrued reward.
// Available under pause.
func (l *Ledger) EmergencyUnstake(user string, index int) (*big.Int, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()

	pos, err := l.position(user, index)
	if err != nil {
		return nil, err
	}
	cfg := l.pools[pos.Pool]
	now := l.clock.Now()
	if cfg.LockSeconds == 0 || now >= pos.StartTime+cfg.LockSeconds {
		return nil, ErrNotLocked
	}

	fee := bpsShare(pos.Amount, l.emergencyFeeBPS)
	payout := new(big.Int).Sub(pos.Amount, fee)
	if err := checkNonNegative("emergency payout", payout); err != nil {
		return nil, err
	}

	if err := l.transfers.TransferOut(l.tokenAsset, user, payout); err != nil {
		return nil, fmt.Errorf("emergency transfer: %w", err)
	}

	if err := l.closePosition(user, pos); err != nil {
		return nil, err
	}
	pos.AccumulatedRewards = new(big.Int)

	l.sink.Emit(Event{
		Kind:    EventEmergencyWithdraw,
		Time:    now,
		Account: user,
		Asset:   l.tokenAsset,
		Amount:  payout.String(),
		Fee:     fee.String(),
		Pool:    pos.Pool.String(),
		Index:   index,
	})
	return payout, nil
}

// closePosition marks pos inactive and walks back the pool and user aggregates.
func (l *Ledger) closePosition(user string, pos *StakePosition) error {
	cfg := l.pools[pos.Pool]
	cfg.TotalStaked.Sub(cfg.TotalStaked, pos.Amount)
	if err := checkNonNegative("pool total staked", cfg.TotalStaked); err != nil {
		return err
	}
	staked := l.stakedBy[user]
	if staked != nil {
		staked.Sub(staked, pos.Amount)
		if err := checkNonNegative("user total staked", staked); err != nil {
			return err
		}
	}
	pos.Active = false
	return nil
}

// --- views ---

// Positions returns copies of all of user's positions, active and closed, in
// creation order.
func (l *Ledger) Positions(user string) []StakePosition {
	list := l.positions[user]
	out := make([]StakePosition, len(list))
	for i, pos := range list {
		out[i] = *pos
		out[i].Amount = new(big.Int).Set(pos.Amount)
		out[i].AccumulatedRewards = new(big.Int).Set(pos.AccumulatedRewards)
	}
	return out
}

// Pool returns a copy of the pool configuration.
func (l *Ledger) Pool(pool PoolType) (PoolConfig, error) {
	cfg, ok := l.pools[pool]
	if !ok {
		return PoolConfig{}, ErrUnknownPool
	}
	out := *cfg
	out.MinStake = new(big.Int).Set(cfg.MinStake)
	out.TotalStaked = new(big.Int).Set(cfg.TotalStaked)
	return out, nil
}

// Pools returns copies of every pool configuration keyed by type.
func (l *Ledger) Pools() map[PoolType]PoolConfig {
	out := make(map[PoolType]PoolConfig, len(l.pools))
	for t := range l.pools {
		cfg, _ := l.Pool(t)
		out[t] = cfg
	}
	return out
}

// StakedBy returns user's total active principal.
func (l *Ledger) StakedBy(user string) *big.Int {
	if staked := l.stakedBy[user]; staked != nil {
		return new(big.Int).Set(staked)
	}
	return new(big.Int)
}

// RewardsPaid returns the global distributed-rewards counter.
func (l *Ledger) RewardsPaid() *big.Int { return new(big.Int).Set(l.rewardsPaid) }

// EmergencyFeeBPS returns the current emergency-withdraw fee.
func (l *Ledger) EmergencyFeeBPS() uint64 { return l.emergencyFeeBPS }

// --- admin operations (owner-gated, available under pause) ---

// SetPoolRates updates a pool's APY and minimum stake. Takes effect immediately
// for all future accrual; open windows are not segmented by rate history.
func (l *Ledger) SetPoolRates(caller string, pool PoolType, apyBPS uint64, minStake *big.Int) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	cfg, ok := l.pools[pool]
	if !ok {
		return ErrUnknownPool
	}
	cfg.APYBPS = apyBPS
	if minStake != nil {
		cfg.MinStake = new(big.Int).Set(minStake)
	}
	l.emitAdmin("pool_rates:" + pool.String())
	return nil
}

// SetPoolActive toggles whether a pool accepts new stakes. Existing positions
// are unaffected.
func (l *Ledger) SetPoolActive(caller string, pool PoolType, active bool) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	cfg, ok := l.pools[pool]
	if !ok {
		return ErrUnknownPool
	}
	cfg.Active = active
	l.emitAdmin("pool_active:" + pool.String())
	return nil
}

// SetEmergencyFee updates the early-exit fee, capped at 10%.
func (l *Ledger) SetEmergencyFee(caller string, bps uint64) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if bps > MaxFeeBPS {
		return ErrRateTooHigh
	}
	l.emergencyFeeBPS = bps
	l.emitAdmin("emergency_fee")
	return nil
}

// SweepRewards pays surplus reward-asset balance out of the reserve.
func (l *Ledger) SweepRewards(caller, to string, amount *big.Int) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if err := l.begin(); err != nil {
		return err
	}
	defer l.end()
	if amount == nil || amount.Sign() <= 0 {
		return ErrZeroAmount
	}
	if err := l.transfers.TransferOut(l.tokenAsset, to, amount); err != nil {
		return fmt.Errorf("sweep transfer: %w", err)
	}
	l.emitAdmin("sweep_rewards")
	return nil
}
