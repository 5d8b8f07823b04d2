package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type purchaseResponse struct {
	Buyer       string `json:"buyer"`
	Referrer    string `json:"referrer"`
	TokenAmount string `json:"token_amount"`
	BonusTokens string `json:"bonus_tokens"`
	TotalTokens string `json:"total_tokens"`
	Cost        string `json:"cost"`
	Asset       string `json:"asset"`
	Phase       string `json:"phase"`
}

// usdt converts whole USDT to an 18-decimal base unit string.
func usdt(n string) string {
	return n + "000000000000000000"
}

func TestSaleAPI(t *testing.T) {
	requireServer(t)

	buyer := uniqueAddress("it-buyer")

	// Test Case 1: Sale state is served
	t.Run("Get Sale State", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/sale")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var state struct {
			Phase      string            `json:"phase"`
			AssetRates map[string]string `json:"asset_rates"`
		}
		decodeBody(t, resp, &state)
		assert.NotEmpty(t, state.Phase)
		assert.Contains(t, state.AssetRates, "USDT")
	})

	// Test Case 2: Quote without executing
	t.Run("Quote", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/sale/quote?amount=" + usdt("100") + "&asset=USDT")
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var quote struct {
			TokenAmount string `json:"token_amount"`
		}
		decodeBody(t, resp, &quote)
		assert.NotEqual(t, "0", quote.TokenAmount)
	})

	// Test Case 3: Deposit then purchase
	t.Run("Purchase", func(t *testing.T) {
		resp := postJSON(t, "/treasury/deposit", map[string]string{
			"account": buyer,
			"asset":   "USDT",
			"amount":  usdt("1000"),
		}, false)
		decodeBody(t, resp, &struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp = postJSON(t, "/sale/purchase", map[string]string{
			"buyer":  buyer,
			"amount": usdt("100"),
			"asset":  "USDT",
		}, false)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var receipt purchaseResponse
		decodeBody(t, resp, &receipt)
		assert.Equal(t, buyer, receipt.Buyer)
		assert.Equal(t, usdt("100"), receipt.Cost)
		assert.NotEqual(t, "0", receipt.TokenAmount)
	})

	// Test Case 4: Buyer total reflects the purchase
	t.Run("Get Buyer", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/sale/buyers/" + buyer)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view struct {
			Purchased string `json:"purchased"`
		}
		decodeBody(t, resp, &view)
		assert.NotEqual(t, "0", view.Purchased)
	})

	// Test Case 5: Purchasing without funds is rejected without state change
	t.Run("Purchase Without Funds", func(t *testing.T) {
		broke := uniqueAddress("it-broke")
		resp := postJSON(t, "/sale/purchase", map[string]string{
			"buyer":  broke,
			"amount": usdt("100"),
			"asset":  "USDT",
		}, false)
		decodeBody(t, resp, &struct{}{})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	// Test Case 6: Events were recorded
	t.Run("List Events", func(t *testing.T) {
		resp, err := http.Get(BaseURL + "/events?kind=purchase&account=" + buyer)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var rows []struct {
			Kind    string `json:"kind"`
			Account string `json:"account"`
		}
		decodeBody(t, resp, &rows)
		require.NotEmpty(t, rows)
		assert.Equal(t, "purchase", rows[0].Kind)
		assert.Equal(t, buyer, rows[0].Account)
	})
}

func TestAdminAPI(t *testing.T) {
	requireServer(t)

	// Test Case 1: Admin requests need a caller
	t.Run("Missing Caller", func(t *testing.T) {
		resp := postJSON(t, "/admin/pause", nil, false)
		decodeBody(t, resp, &struct{}{})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	// Test Case 2: Pause and unpause round trip
	t.Run("Pause And Unpause", func(t *testing.T) {
		resp := postJSON(t, "/admin/pause", nil, true)
		decodeBody(t, resp, &struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		stateResp, err := http.Get(BaseURL + "/sale")
		require.NoError(t, err)
		var state struct {
			Paused bool `json:"paused"`
		}
		decodeBody(t, stateResp, &state)
		assert.True(t, state.Paused)

		resp = postJSON(t, "/admin/unpause", nil, true)
		decodeBody(t, resp, &struct{}{})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})

	// Test Case 3: Non-owner caller is rejected by the ledger
	t.Run("Non-Owner Rejected", func(t *testing.T) {
		req := postNonOwner(t, "/admin/pause")
		assert.Equal(t, http.StatusForbidden, req.StatusCode)
	})
}

func postNonOwner(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, BaseURL+path, nil)
	require.NoError(t, err)
	req.Header.Set("X-Owner-Address", "definitely-not-the-owner")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}
