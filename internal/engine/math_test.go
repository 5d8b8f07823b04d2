package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBpsShare(t *testing.T) {
	assert.Equal(t, tokens(50), bpsShare(tokens(1_000), 500))
	assert.Equal(t, tokens(1_000), bpsShare(tokens(1_000), BPSDenominator))
	assert.Equal(t, int64(0), bpsShare(tokens(1_000), 0).Int64())

	// Truncation toward zero: 0.035% of 1000 base units is 0.35, kept as 0.
	assert.Equal(t, int64(0), bpsShare(big.NewInt(1_000), 3).Int64()) // 0.3 truncates
	assert.Equal(t, int64(3), bpsShare(big.NewInt(10_000), 3).Int64())
}

func TestAccruedReward(t *testing.T) {
	principal := tokens(1_000)

	t.Run("Full Year", func(t *testing.T) {
		assert.Equal(t, tokens(85), accruedReward(principal, 850, SecondsPerYear))
	})

	t.Run("Proportional To Elapsed", func(t *testing.T) {
		half := accruedReward(principal, 850, SecondsPerYear/2)
		full := accruedReward(principal, 850, SecondsPerYear)
		assert.Equal(t, full, new(big.Int).Mul(half, big.NewInt(2)))
	})

	t.Run("Degenerate Inputs", func(t *testing.T) {
		assert.Equal(t, int64(0), accruedReward(principal, 850, 0).Int64())
		assert.Equal(t, int64(0), accruedReward(principal, 850, -5).Int64())
		assert.Equal(t, int64(0), accruedReward(principal, 0, SecondsPerYear).Int64())
		assert.Equal(t, int64(0), accruedReward(new(big.Int), 850, SecondsPerYear).Int64())
	})

	t.Run("Single Truncation", func(t *testing.T) {
		// One second of 8.5% on 1000 tokens: 850*1000e18/(10000*31536000),
		// exact integer division checked against the closed form.
		want := new(big.Int).Mul(big.NewInt(850), tokens(1_000))
		want.Div(want, new(big.Int).Mul(big.NewInt(BPSDenominator), big.NewInt(SecondsPerYear)))
		assert.Equal(t, want, accruedReward(tokens(1_000), 850, 1))
	})
}

func TestMulDiv(t *testing.T) {
	// 7 * 3 / 2 truncates to 10.
	assert.Equal(t, int64(10), mulDiv(big.NewInt(7), big.NewInt(3), big.NewInt(2)).Int64())
}
