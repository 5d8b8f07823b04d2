package engine

import "errors"

// Input validation errors. No state is mutated when these are returned.
var (
	ErrZeroPayment      = errors.New("payment amount must be positive")
	ErrZeroAmount       = errors.New("stake amount must be positive")
	ErrUnsupportedAsset = errors.New("payment asset is not accepted")
	ErrBelowMinimum     = errors.New("purchase below minimum size")
	ErrAboveMaximum     = errors.New("purchase above maximum size")
	ErrBelowMinStake    = errors.New("stake below pool minimum")
	ErrInvalidIndex     = errors.New("no position at that index")
	ErrUnknownPool      = errors.New("unknown pool type")
	ErrUnknownPhase     = errors.New("unknown sale phase")
)

// State-conflict errors. Caller must retry with different parameters or wait.
var (
	ErrSaleEnded     = errors.New("sale has ended")
	ErrSaleNotEnded  = errors.New("sale has not ended yet")
	ErrPoolInactive  = errors.New("pool is not accepting stakes")
	ErrInactiveStake = errors.New("position is no longer active")
	ErrStillLocked   = errors.New("lock period has not elapsed")
	ErrNotLocked     = errors.New("position is not locked, use regular unstake")
	ErrNoRewards     = errors.New("no rewards to claim")
	ErrNotFlexible   = errors.New("bonus claim only valid for flexible pools")
	ErrBonusNotReady = errors.New("bonus claim window has not elapsed")
)

// Resource-exhaustion errors. Permanent for the current phase or sale.
var (
	ErrSupplyExhausted = errors.New("total token supply exhausted")
	ErrPhaseExhausted  = errors.New("phase allocation exhausted")
)

// Guard errors from the access/safety substrate.
var (
	ErrNotOwner      = errors.New("caller is not the owner")
	ErrPaused        = errors.New("operation is paused")
	ErrReentrantCall = errors.New("reentrant call rejected")
	ErrRateTooHigh   = errors.New("rate exceeds maximum")
)
