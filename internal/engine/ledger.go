package engine

import (
	"fmt"
	"math/big"
)

// ReserveAccount is the ledger-owned account that collects payments and holds
// the token/reward float inside the transfer service.
const ReserveAccount = "ledger:reserve"

// Config wires a Ledger to its external collaborators and initial parameters.
type Config struct {
	Access    AccessControl
	Clock     Clock
	Transfers TransferService
	Sink      Sink

	// TokenAsset is the asset sold to buyers and staked in the pools.
	TokenAsset string

	Sale  *SaleParams
	Pools map[PoolType]*PoolConfig

	EmergencyFeeBPS uint64
}

// Ledger is the deterministic accounting core: the sale engine, the staking
// engine and their shared guard substrate.
//
// A Ledger is not safe for concurrent use. Callers must serialize every
// operation (the HTTP layer holds one mutex around all calls); the engine's own
// guard only rejects reentrant invocations from inside a transfer callback.
type Ledger struct {
	access    AccessControl
	clock     Clock
	transfers TransferService
	sink      Sink

	tokenAsset string

	paused  bool
	entered bool

	saleParams *SaleParams
	sale       *SaleState

	pools           map[PoolType]*PoolConfig
	positions       map[string][]*StakePosition
	stakedBy        map[string]*big.Int
	rewardsPaid     *big.Int
	emergencyFeeBPS uint64
}

// NewLedger builds a Ledger from cfg, filling unset collaborators and parameters
// with defaults.
func NewLedger(cfg Config) *Ledger {
	l := &Ledger{
		access:          cfg.Access,
		clock:           cfg.Clock,
		transfers:       cfg.Transfers,
		sink:            cfg.Sink,
		tokenAsset:      cfg.TokenAsset,
		saleParams:      cfg.Sale,
		pools:           cfg.Pools,
		positions:       make(map[string][]*StakePosition),
		stakedBy:        make(map[string]*big.Int),
		rewardsPaid:     new(big.Int),
		emergencyFeeBPS: cfg.EmergencyFeeBPS,
	}
	if l.clock == nil {
		l.clock = SystemClock{}
	}
	if l.sink == nil {
		l.sink = NopSink{}
	}
	if l.tokenAsset == "" {
		l.tokenAsset = "LNCH"
	}
	if l.saleParams == nil {
		l.saleParams = DefaultSaleParams()
	}
	if l.pools == nil {
		l.pools = DefaultPools()
	}
	l.sale = newSaleState()
	return l
}

func newSaleState() *SaleState {
	s := &SaleState{
		Phase:       PhasePresale,
		TotalSold:   new(big.Int),
		PurchasedBy: make(map[string]*big.Int),
		ReferrerOf:  make(map[string]string),
		Referrers:   make(map[string]*ReferralStats),
	}
	for i := range s.SoldByPhase {
		s.SoldByPhase[i] = new(big.Int)
	}
	return s
}

// tokens converts whole tokens to 18-decimal base units.
func tokens(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), TokenScale)
}

// DefaultSaleParams mirrors the launch configuration: 10M tokens total, 30%
// presale allocation, 2% buyer bonus, 3% referrer reward.
func DefaultSaleParams() *SaleParams {
	p := &SaleParams{
		TotalAvailable:    tokens(10_000_000),
		MinPurchase:       tokens(10),
		MaxPurchase:       tokens(100_000),
		ReferralBonusBPS:  200,
		ReferrerRewardBPS: 300,
		AssetRates:        map[string]*big.Int{"USDT": new(big.Int).Set(TokenScale)},
	}
	p.Allocations[PhasePresale] = tokens(3_000_000)
	p.Allocations[PhasePublic] = tokens(7_000_000)
	// Reference units per token: 0.05 presale, 0.08 public.
	p.Prices[PhasePresale] = new(big.Int).Mul(big.NewInt(5), new(big.Int).Div(TokenScale, big.NewInt(100)))
	p.Prices[PhasePublic] = new(big.Int).Mul(big.NewInt(8), new(big.Int).Div(TokenScale, big.NewInt(100)))
	return p
}

// DefaultPools mirrors the launch pool set: one flexible pool with a 0.5% flat
// 24h bonus and three fixed-term pools whose bonus scales accrued interest.
func DefaultPools() map[PoolType]*PoolConfig {
	return map[PoolType]*PoolConfig{
		PoolFlexible: {
			Type: PoolFlexible, APYBPS: 850, MinStake: tokens(100),
			LockSeconds: 0, BonusBPS: 50, Active: true, TotalStaked: new(big.Int),
		},
		PoolFixed3Months: {
			Type: PoolFixed3Months, APYBPS: 1200, MinStake: tokens(500),
			LockSeconds: 90 * 24 * 3600, BonusBPS: 500, Active: true, TotalStaked: new(big.Int),
		},
		PoolFixed6Months: {
			Type: PoolFixed6Months, APYBPS: 1800, MinStake: tokens(1_000),
			LockSeconds: 180 * 24 * 3600, BonusBPS: 1_000, Active: true, TotalStaked: new(big.Int),
		},
		PoolFixed12Months: {
			Type: PoolFixed12Months, APYBPS: 2500, MinStake: tokens(2_500),
			LockSeconds: 365 * 24 * 3600, BonusBPS: 2_000, Active: true, TotalStaked: new(big.Int),
		},
	}
}

// --- guard substrate ---

// begin rejects nested invocations of state-changing entry points. A transfer
// implementation that calls back into the ledger mid-operation would observe
// partially committed state, so the nested call fails instead.
func (l *Ledger) begin() error {
	if l.entered {
		return ErrReentrantCall
	}
	l.entered = true
	return nil
}

func (l *Ledger) end() { l.entered = false }

func (l *Ledger) requireOwner(caller string) error {
	if l.access == nil || !l.access.IsOwner(caller) {
		return ErrNotOwner
	}
	return nil
}

func (l *Ledger) requireNotPaused() error {
	if l.paused {
		return ErrPaused
	}
	return nil
}

// --- shared admin operations ---

// Pause stops new purchases and stakes. Claims and every exit path stay
// available so users can always leave.
func (l *Ledger) Pause(caller string) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	l.paused = true
	l.emitAdmin("pause")
	return nil
}

// Unpause re-enables purchases and stakes.
func (l *Ledger) Unpause(caller string) error {
	if err := l.requireOwner(caller); err != nil {
		return err
	}
	l.paused = false
	l.emitAdmin("unpause")
	return nil
}

// Paused reports the pause flag.
func (l *Ledger) Paused() bool { return l.paused }

// TokenAsset returns the asset sold and staked by this ledger.
func (l *Ledger) TokenAsset() string { return l.tokenAsset }

func (l *Ledger) emitAdmin(detail string) {
	l.sink.Emit(Event{
		Kind:   EventAdminUpdate,
		Time:   l.clock.Now(),
		Detail: detail,
	})
}

// checkNonNegative guards ledger aggregates after subtraction. A negative
// aggregate means corrupted accounting and aborts the operation.
func checkNonNegative(name string, v *big.Int) error {
	if v.Sign() < 0 {
		return fmt.Errorf("ledger invariant violated: %s is negative", name)
	}
	return nil
}
