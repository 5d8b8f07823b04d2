package engine

import "math/big"

// Phase is a sequential stage of the token sale. Phases only ever advance;
// PhaseEnded is terminal.
type Phase uint8

const (
	PhasePresale Phase = iota
	PhasePublic
	PhaseEnded

	// sellingPhases counts the phases that carry an allocation and a price.
	sellingPhases = int(PhaseEnded)
)

func (p Phase) String() string {
	switch p {
	case PhasePresale:
		return "presale"
	case PhasePublic:
		return "public"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// ParsePhase maps a phase name back to its Phase value.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "presale":
		return PhasePresale, nil
	case "public":
		return PhasePublic, nil
	case "ended":
		return PhaseEnded, nil
	}
	return 0, ErrUnknownPhase
}

// PoolType is the closed enumeration of staking pool configurations.
type PoolType uint8

const (
	PoolFlexible PoolType = iota
	PoolFixed3Months
	PoolFixed6Months
	PoolFixed12Months

	poolCount = int(PoolFixed12Months) + 1
)

func (p PoolType) String() string {
	switch p {
	case PoolFlexible:
		return "flexible"
	case PoolFixed3Months:
		return "fixed_3m"
	case PoolFixed6Months:
		return "fixed_6m"
	case PoolFixed12Months:
		return "fixed_12m"
	}
	return "unknown"
}

// ParsePoolType maps a pool name back to its PoolType value.
func ParsePoolType(s string) (PoolType, error) {
	switch s {
	case "flexible":
		return PoolFlexible, nil
	case "fixed_3m":
		return PoolFixed3Months, nil
	case "fixed_6m":
		return PoolFixed6Months, nil
	case "fixed_12m":
		return PoolFixed12Months, nil
	}
	return 0, ErrUnknownPool
}

// PoolConfig holds one pool's parameters. APYBPS, MinStake and Active are
// owner-mutable; TotalStaked is maintained by the ledger.
type PoolConfig struct {
	Type        PoolType
	APYBPS      uint64
	MinStake    *big.Int
	LockSeconds int64
	BonusBPS    uint64
	Active      bool
	TotalStaked *big.Int
}

// StakePosition is one user's stake in one pool. Positions are appended per user
// and referenced by index; an unstaked position is marked inactive, never removed,
// so previously issued indices stay valid.
type StakePosition struct {
	Pool               PoolType
	Amount             *big.Int
	StartTime          int64
	LastRewardTime     int64
	AccumulatedRewards *big.Int
	LastBonusClaim     int64
	Active             bool
}

// SaleParams are the owner-configured sale parameters.
type SaleParams struct {
	TotalAvailable    *big.Int
	Allocations       [sellingPhases]*big.Int
	Prices            [sellingPhases]*big.Int
	MinPurchase       *big.Int
	MaxPurchase       *big.Int
	ReferralBonusBPS  uint64
	ReferrerRewardBPS uint64
	// AssetRates maps an accepted payment asset to its 18-decimal rate into
	// reference units. Assets absent from the map are rejected.
	AssetRates map[string]*big.Int
}

// ReferralStats accumulates a referrer's lifetime earnings per payment asset.
type ReferralStats struct {
	Count    uint64
	Earnings map[string]*big.Int
}

// SaleState is the mutable sale ledger.
type SaleState struct {
	Phase       Phase
	TotalSold   *big.Int
	SoldByPhase [sellingPhases]*big.Int
	// PurchasedBy tracks each buyer's cumulative token total.
	PurchasedBy map[string]*big.Int
	// ReferrerOf binds a buyer to their referrer. Set once, never overwritten.
	ReferrerOf map[string]string
	Referrers  map[string]*ReferralStats
}

// PurchaseReceipt summarizes one executed purchase.
type PurchaseReceipt struct {
	Buyer       string
	Referrer    string
	TokenAmount *big.Int
	BonusTokens *big.Int
	TotalTokens *big.Int
	Cost        *big.Int
	Asset       string
	Phase       Phase
}
