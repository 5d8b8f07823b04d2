package handlers

// PurchaseRequest is the request body for buying tokens. Amounts are decimal
// strings of 18-decimal base units.
type PurchaseRequest struct {
	Buyer    string `json:"buyer" binding:"required"`
	Amount   string `json:"amount" binding:"required"`
	Asset    string `json:"asset" binding:"required"`
	Referrer string `json:"referrer"`
}

// StakeRequest is the request body for opening a stake position.
type StakeRequest struct {
	Address string `json:"address" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
	Pool    string `json:"pool" binding:"required"`
}

// PositionRequest addresses one existing stake position.
type PositionRequest struct {
	Address string `json:"address" binding:"required"`
	Index   *int   `json:"index" binding:"required"`
}

// DepositRequest is the request body for crediting a demo account.
type DepositRequest struct {
	Account string `json:"account" binding:"required"`
	Asset   string `json:"asset" binding:"required"`
	Amount  string `json:"amount" binding:"required"`
}

// AssetRateRequest sets a payment asset's 18-decimal rate into reference units.
type AssetRateRequest struct {
	Asset string `json:"asset" binding:"required"`
	Rate  string `json:"rate" binding:"required"`
}

// ReferralRatesRequest sets the referral bonus and referrer reward rates.
type ReferralRatesRequest struct {
	BonusBPS  *uint64 `json:"bonus_bps" binding:"required"`
	RewardBPS *uint64 `json:"reward_bps" binding:"required"`
}

// PhasePriceRequest reprices one selling phase.
type PhasePriceRequest struct {
	Phase string `json:"phase" binding:"required"`
	Price string `json:"price" binding:"required"`
}

// WithdrawFundsRequest withdraws collected payment assets from the reserve.
type WithdrawFundsRequest struct {
	Asset  string `json:"asset" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// WithdrawUnsoldRequest withdraws the unsold token remainder after the sale ends.
type WithdrawUnsoldRequest struct {
	To string `json:"to" binding:"required"`
}

// PoolRatesRequest updates one pool's APY and minimum stake.
type PoolRatesRequest struct {
	Pool     string  `json:"pool" binding:"required"`
	APYBPS   *uint64 `json:"apy_bps" binding:"required"`
	MinStake string  `json:"min_stake" binding:"required"`
}

// PoolActiveRequest opens or closes a pool for new stakes.
type PoolActiveRequest struct {
	Pool   string `json:"pool" binding:"required"`
	Active *bool  `json:"active" binding:"required"`
}

// EmergencyFeeRequest sets the early-exit penalty rate.
type EmergencyFeeRequest struct {
	BPS *uint64 `json:"bps" binding:"required"`
}

// SweepRequest moves surplus reward budget out of the reserve.
type SweepRequest struct {
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}
