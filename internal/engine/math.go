package engine

import "math/big"

const (
	// BPSDenominator is the basis-point scale: 10000 bps = 100%.
	BPSDenominator = 10_000

	// MaxFeeBPS caps referral and emergency-withdraw rates at 10%.
	MaxFeeBPS = 1_000

	// SecondsPerYear is the accrual year used for APY math (365 days).
	SecondsPerYear = 365 * 24 * 3600
)

// TokenScale is the fixed-point scale for token and payment amounts (18 decimals).
var TokenScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

var (
	bpsDenom  = big.NewInt(BPSDenominator)
	yearSecs  = big.NewInt(SecondsPerYear)
	yearDenom = new(big.Int).Mul(bpsDenom, yearSecs)
)

// mulDiv returns a*b/den with truncation toward zero. den must be non-zero.
func mulDiv(a, b, den *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)
	return out.Div(out, den)
}

// bpsShare returns amount * bps / 10000, truncating. Residual dust from the
// integer division is not tracked.
func bpsShare(amount *big.Int, bps uint64) *big.Int {
	return mulDiv(amount, new(big.Int).SetUint64(bps), bpsDenom)
}

// accruedReward computes simple (non-compounding) interest over elapsed seconds:
// principal * apyBPS / 10000 * elapsed / secondsPerYear, with a single truncating
// division at the end to avoid compounding rounding loss.
func accruedReward(principal *big.Int, apyBPS uint64, elapsed int64) *big.Int {
	if elapsed <= 0 || principal.Sign() <= 0 || apyBPS == 0 {
		return new(big.Int)
	}
	out := new(big.Int).SetUint64(apyBPS)
	out.Mul(out, principal)
	out.Mul(out, big.NewInt(elapsed))
	return out.Div(out, yearDenom)
}
