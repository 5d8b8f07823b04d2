package engine

import (
	"fmt"
	"math/big"
)

// Quote computes the token amount a payment would buy at the current phase
// price, plus the referral bonus the buyer would receive if they have (or bind)
// a referrer. Pure with respect to ledger state.
func (l *Ledger) Quote(paymentAmount *big.Int, paymentAsset string) (tokenAmount, bonusTokens *big.Int, err error) {
	if l.sale.Phase == PhaseEnded {
		return nil, nil, ErrSaleEnded
	}
	if paymentAmount == nil || paymentAmount.Sign() <= 0 {
		return nil, nil, ErrZeroPayment
	}
	base, err := l.tokensFor(paymentAmount, paymentAsset)
	if err != nil {
		return nil, nil, err
	}
	return base, bpsShare(base, l.saleParams.ReferralBonusBPS), nil
}

// tokensFor converts a payment into token base units at the current phase price:
// payment * assetRate / price, truncating. Rates are 18-decimal multipliers into
// reference units and prices are reference units per token, so the scale cancels.
func (l *Ledger) tokensFor(paymentAmount *big.Int, paymentAsset string) (*big.Int, error) {
	rate, ok := l.saleParams.AssetRates[paymentAsset]
	if !ok {
		return nil, ErrUnsupportedAsset
	}
	price := l.saleParams.Prices[l.sale.Phase]
	if price == nil || price.Sign() <= 0 {
		return nil, fmt.Errorf("phase %s has no price configured", l.sale.Phase)
	}
	return mulDiv(paymentAmount, rate, price), nil
}

// Purchase executes a token purchase for buyer. Checks run in contract order and
// the first failure is returned with no state mutated. referrerHint binds the
// buyer's referrer on their first qualifying purchase; once bound it is permanent
// and later hints are ignored.
func (l *Ledger) Purchase(buyer string, paymentAmount *big.Int, paymentAsset, referrerHint string) (*PurchaseReceipt, error) {
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()
	if err := l.requireNotPaused(); err != nil {
		return nil, err
	}

	if l.sale.Phase == PhaseEnded {
		return nil, ErrSaleEnded
	}
	if paymentAmount == nil || paymentAmount.Sign() <= 0 {
		return nil, ErrZeroPayment
	}

	base, err := l.tokensFor(paymentAmount, paymentAsset)
	if err != nil {
		return nil, err
	}

	p := l.saleParams
	if p.MinPurchase != nil && base.Cmp(p.MinPurchase) < 0 {
		return nil, ErrBelowMinimum
	}
	if p.MaxPurchase != nil && p.MaxPurchase.Sign() > 0 && base.Cmp(p.MaxPurchase) > 0 {
		return nil, ErrAboveMaximum
	}
	if new(big.Int).Add(l.sale.TotalSold, base).Cmp(p.TotalAvailable) > 0 {
		return nil, ErrSupplyExhausted
	}
	phase := l.sale.Phase
	if new(big.Int).Add(l.sale.SoldByPhase[phase], base).Cmp(p.Allocations[phase]) > 0 {
		return nil, ErrPhaseExhausted
	}

	// Resolve the referrer: an existing binding wins; otherwise a valid hint
	// becomes the permanent binding once this purchase commits.
	referrer := l.sale.ReferrerOf[buyer]
	bind := false
	if referrer == "" && referrerHint != "" && referrerHint != buyer {
		referrer = referrerHint
		bind = true
	}

	bonus := new(big.Int)
	reward := new(big.Int)
	if referrer != "" {
		bonus = bpsShare(base, p.ReferralBonusBPS)
		reward = bpsShare(paymentAmount, p.ReferrerRewardBPS)
	}
	total := new(big.Int).Add(base, bonus)

	// Value movement, ledger commit only after every transfer succeeds.
	if err := l.transfers.TransferIn(paymentAsset, buyer, paymentAmount); err != nil {
		return nil, fmt.Errorf("payment transfer: %w", err)
	}
	if reward.Sign() > 0 {
		if err := l.transfers.TransferOut(paymentAsset, referrer, reward); err != nil {
			// Unwind the payment, best effort.
			l.transfers.TransferOut(paymentAsset, buyer, paymentAmount)
			return nil, fmt.Errorf("referrer reward transfer: %w", err)
		}
	}
	if err := l.transfers.TransferOut(l.tokenAsset, buyer, total); err != nil {
		if reward.Sign() > 0 {
			l.transfers.TransferIn(paymentAsset, referrer, reward)
		}
		l.transfers.TransferOut(paymentAsset, buyer, paymentAmount)
		return nil, fmt.Errorf("token transfer: %w", err)
	}

	// Commit. The ledger counts what the buyer actually received (base + bonus).
	now := l.clock.Now()
	l.sale.TotalSold.Add(l.sale.TotalSold, total)
	l.sale.SoldByPhase[phase].Add(l.sale.SoldByPhase[phase], total)
	cur := l.sale.PurchasedBy[buyer]
	if cur == nil {
		cur = new(big.Int)
		l.sale.PurchasedBy[buyer] = cur
	}
	cur.Add(cur, total)

	if bind {
		l.sale.ReferrerOf[buyer] = referrer
	}
	if referrer != "" {
		stats := l.sale.Referrers[referrer]
		if stats == nil {
			stats = &ReferralStats{Earnings: make(map[string]*big.Int)}
			l.sale.Referrers[referrer] = stats
		}
		stats.Count++
		earned := stats.Earnings[paymentAsset]
		if earned == nil {
			earned = new(big.Int)
			stats.Earnings[paymentAsset] = earned
		}
		earned.Add(earned, reward)
	}

	// Auto-advance one phase when this purchase exhausts the allocation. Never
	// cascades across phases in a single call.
	if l.sale.SoldByPhase[phase].Cmp(p.Allocations[phase]) >= 0 {
		l.advance(now)
	}

	l.sink.Emit(Event{
		Kind:     EventPurchase,
		Time:     now,
		Account:  buyer,
		Referrer: referrer,
		Asset:    paymentAsset,
		Amount:   total.String(),
		Bonus:    bonus.String(),
		Cost:     paymentAmount.String(),
		Phase:    phase.String(),
	})

	return &PurchaseReceipt{
		Buyer:       buyer,
		Referrer:    referrer,
		TokenAmount: base,
		BonusTokens: bonus,
		TotalTokens: total,
		Cost:        paymentAmount,
		Asset:       paymentAsset,
		Phase:       phase,
	}, nil
}

// advance moves the sale forward exactly one phase and emits a phase-change event.
func (l *Ledger) advance(now int64) {
	if l.sale.Phase >= PhaseEnded {
		return
	}
	l.sale.Phase++
	l.sink.Emit(Event{
		Kind:  EventPhaseChange,
		Time:  now,
		Phase: l.sale.Phase.String(),
	})
}

// --- views ---

// Phase returns the current sale phase.
func (l *Ledger) Phase() Phase { return l.sale.Phase }

// TotalSold returns a copy of the cumulative tokens sold.
func (l *Ledger) TotalSold() *big.Int { return new(big.Int).Set(l.sale.TotalSold) }

// SoldInPhase returns a copy of the tokens sold in the given phase.
func (l *Ledger) SoldInPhase(p Phase) *big.Int {
	if int(p) >= sellingPhases {
		return new(big.Int)
	}
	return new(big.Int).Set(l.sale.SoldByPhase[p])
}

// PurchasedBy returns buyer's cumulative token total.
func (l *Ledger) PurchasedBy(buyer string) *big.Int {
	if cur := l.sale.PurchasedBy[buyer]; cur != nil {
		return new(big.Int).Set(cur)
	}
	return new(big.Int)
}

// ReferrerOf returns the buyer's bound referrer, or "" when none is bound.
func (l *Ledger) ReferrerOf(buyer string) string { return l.sale.ReferrerOf[buyer] }

// ReferralStatsOf returns a copy of the referrer's stats, or zero stats.
func (l *Ledger) ReferralStatsOf(referrer string) ReferralStats {
	out := ReferralStats{Earnings: make(map[string]*big.Int)}
	if stats := l.sale.Referrers[referrer]; stats != nil {
		out.Count = stats.Count
		for asset, amt := range stats.Earnings {
			out.Earnings[asset] = new(big.Int).Set(amt)
		}
	}
	return out
}

// SaleParamsView returns a copy of the current sale parameters.
func (l *Ledger) SaleParamsView() SaleParams {
	p := *l.saleParams
	p.AssetRates = make(map[string]*big.Int, len(l.saleParams.AssetRates))
	for asset, rate := range l.saleParams.AssetRates {
		p.AssetRates[asset] = new(big.Int).Set(rate)
	}
	return p
}

// --- admin operations (owner-gated, available under pause) ---

// SetAssetRate adds or updates an accepted payment asset.
func (l *Ledger) SetAssetRate(caller, asset string, rate *big.Int) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if asset == "" || rate == nil || rate.Sign() <= 0 {
		return ErrUnsupportedAsset
	}
	l.saleParams.AssetRates[asset] = new(big.Int).Set(rate)
	l.emitAdmin("asset_rate:" + asset)
	return nil
}

// RemoveAsset stops accepting a payment asset.
func (l *Ledger) RemoveAsset(caller, asset string) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if _, ok := l.saleParams.AssetRates[asset]; !ok {
		return ErrUnsupportedAsset
	}
	delete(l.saleParams.AssetRates, asset)
	l.emitAdmin("asset_removed:" + asset)
	return nil
}

// SetReferralRates updates the buyer bonus and referrer reward rates. Each is
// capped at 10%.
func (l *Ledger) SetReferralRates(caller string, bonusBPS, rewardBPS uint64) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if bonusBPS > MaxFeeBPS || rewardBPS > MaxFeeBPS {
		return ErrRateTooHigh
	}
	l.saleParams.ReferralBonusBPS = bonusBPS
	l.saleParams.ReferrerRewardBPS = rewardBPS
	l.emitAdmin("referral_rates")
	return nil
}

// SetPhasePrice updates a selling phase's unit price.
func (l *Ledger) SetPhasePrice(caller string, phase Phase, price *big.Int) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if int(phase) >= sellingPhases {
		return ErrUnknownPhase
	}
	if price == nil || price.Sign() <= 0 {
		return ErrZeroAmount
	}
	l.saleParams.Prices[phase] = new(big.Int).Set(price)
	l.emitAdmin("phase_price:" + phase.String())
	return nil
}

// ForceAdvancePhase advances the sale one phase regardless of allocation.
func (l *Ledger) ForceAdvancePhase(caller string) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if l.sale.Phase == PhaseEnded {
		return ErrSaleEnded
	}
	l.advance(l.clock.Now())
	return nil
}

// WithdrawFunds pays collected payment-asset funds out of the reserve.
func (l *Ledger) WithdrawFunds(caller, asset, to string, amount *big.Int) error {
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
	if err := l.transfers.TransferOut(asset, to, amount); err != nil {
		return fmt.Errorf("withdraw transfer: %w", err)
	}
	l.emitAdmin("withdraw:" + asset)
	return nil
}

// WithdrawUnsoldTokens pays the unsold remainder to the owner's target account.
// Only valid once the sale has ended.
func (l *Ledger) WithdrawUnsoldTokens(caller, to string) (*big.Int, error) {
	if err := l.requireOwner(caller); err != nil {
		return nil, err
	}
	if err := l.begin(); err != nil {
		return nil, err
	}
	defer l.end()
	if l.sale.Phase != PhaseEnded {
		return nil, ErrSaleNotEnded
	}
	unsold := new(big.Int).Sub(l.saleParams.TotalAvailable, l.sale.TotalSold)
	if err := checkNonNegative("unsold supply", unsold); err != nil {
		return nil, err
	}
	if unsold.Sign() == 0 {
		return unsold, nil
	}
	if err := l.transfers.TransferOut(l.tokenAsset, to, unsold); err != nil {
		return nil, fmt.Errorf("unsold token transfer: %w", err)
	}
	l.emitAdmin("withdraw_unsold")
	return unsold, nil
}
