package integration

import (
	"fmt"
	"math/big"
	"net/http"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenAsset() string {
	if v := os.Getenv("LEDGER_TOKEN_ASSET"); v != "" {
		return v
	}
	return "LNCH"
}

func TestStakingAPI(t *testing.T) {
	requireServer(t)

	staker := uniqueAddress("it-staker")

	// Test Case 1: Pools are served
	t.Run("List Pools", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/staking/pools")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var pools []struct {
			Pool   string `json:"pool"`
			APYBPS uint64 `json:"apy_bps"`
		}
		decodeBody(t, resp, &pools)
		require.NotEmpty(t, pools)
		assert.Equal(t, "flexible", pools[0].Pool)
	})

	// Test Case 2: Fund, stake into the flexible pool
	t.Run("Stake", func(t *testing.T) {
		resp := postJSON(t, "/treasury/deposit", map[string]string{
			"account": staker,
			"asset":   tokenAsset(),
			"amount":  usdt("1000"),
		}, false)
		decodeBody(t, resp, &struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = postJSON(t, "/staking/stake", map[string]string{
			"address": staker,
			"amount":  usdt("1000"),
			"pool":    "flexible",
		}, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var created struct {
			Index int    `json:"index"`
			Pool  string `json:"pool"`
		}
		decodeBody(t, resp, &created)
		assert.Equal(t, 0, created.Index)
		assert.Equal(t, "flexible", created.Pool)
	})

	// Test Case 3: Position shows up with zero pending rewards
	t.Run("List Positions", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/staking/positions/" + staker)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view struct {
			TotalStaked string `json:"total_staked"`
			Positions   []struct {
				Pool   string `json:"pool"`
				Active bool   `json:"active"`
			} `json:"positions"`
		}
		decodeBody(t, resp, &view)
		assert.Equal(t, usdt("1000"), view.TotalStaked)
		require.Len(t, view.Positions, 1)
		assert.True(t, view.Positions[0].Active)
	})

	// Test Case 4: Claiming an unknown position is rejected
	t.Run("Claim Invalid Index", func(t *testing.T) {
		resp := postJSON(t, "/staking/claim", map[string]interface{}{
			"address": staker,
			"index":   99,
		}, false)
		decodeBody(t, resp, &struct{}{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	// Test Case 5: Flexible positions exit without a lock. Wall-clock seconds
	// may have accrued a sliver of reward, so the payout is at least the
	// principal.
	t.Run("Unstake", func(t *testing.T) {
		principal, ok := new(big.Int).SetString(usdt("1000"), 10)
		require.True(t, ok)

		resp := postJSON(t, "/staking/unstake", map[string]interface{}{
			"address": staker,
			"index":   0,
		}, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result struct {
			Payout string `json:"payout"`
		}
		decodeBody(t, resp, &result)
		payout, ok := new(big.Int).SetString(result.Payout, 10)
		require.True(t, ok)
		assert.True(t, payout.Cmp(principal) >= 0, "payout %s below principal", result.Payout)

		balResp, err := http.Get(fmt.Sprintf("%s/treasury/balances/%s", BaseURL, staker))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, balResp.StatusCode)

		var balances struct {
			Balances []struct {
				Asset  string `json:"asset"`
				Amount string `json:"amount"`
			} `json:"balances"`
		}
		decodeBody(t, balResp, &balances)
		require.NotEmpty(t, balances.Balances)
		assert.Equal(t, result.Payout, balances.Balances[0].Amount)
	})

	// Test Case 6: Closed positions cannot exit again
	t.Run("Double Unstake", func(t *testing.T) {
		resp := postJSON(t, "/staking/unstake", map[string]interface{}{
			"address": staker,
			"index":   0,
		}, false)
		decodeBody(t, resp, &struct{}{})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})
}
