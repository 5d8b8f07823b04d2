package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/engine"
)

// GetSaleState returns the sale phase, totals and current parameters.
func GetSaleState(c *gin.Context) {
	var resp gin.H
	withRead(func() {
		params := ledger.SaleParamsView()

		phases := make([]gin.H, 0, int(engine.PhaseEnded))
		for p := engine.PhasePresale; p < engine.PhaseEnded; p++ {
			phases = append(phases, gin.H{
				"phase":      p.String(),
				"allocation": amountString(params.Allocations[p]),
				"price":      amountString(params.Prices[p]),
				"sold":       amountString(ledger.SoldInPhase(p)),
			})
		}

		rates := make(map[string]string, len(params.AssetRates))
		for asset, rate := range params.AssetRates {
			rates[asset] = amountString(rate)
		}

		resp = gin.H{
			"token_asset":         ledger.TokenAsset(),
			"phase":               ledger.Phase().String(),
			"paused":              ledger.Paused(),
			"total_available":     amountString(params.TotalAvailable),
			"total_sold":          amountString(ledger.TotalSold()),
			"min_purchase":        amountString(params.MinPurchase),
			"max_purchase":        amountString(params.MaxPurchase),
			"referral_bonus_bps":  params.ReferralBonusBPS,
			"referrer_reward_bps": params.ReferrerRewardBPS,
			"asset_rates":         rates,
			"phases":              phases,
		}
	})
	c.JSON(http.StatusOK, resp)
}

// QuoteTokens prices a prospective purchase without executing it.
func QuoteTokens(c *gin.Context) {
	amountStr := c.Query("amount")
	asset := c.Query("asset")
	if amountStr == "" || asset == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount and asset query parameters are required"})
		return
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var resp gin.H
	var quoteErr error
	withRead(func() {
		tokens, bonus, err := ledger.Quote(amount, asset)
		if err != nil {
			quoteErr = err
			return
		}
		resp = gin.H{
			"asset":        asset,
			"payment":      amountString(amount),
			"token_amount": amountString(tokens),
			"bonus_tokens": amountString(bonus),
		}
	})
	if quoteErr != nil {
		c.JSON(statusFor(quoteErr), gin.H{"error": quoteErr.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PurchaseTokens executes a purchase: payment in, tokens out, referral
// settlement and phase advance included.
func PurchaseTokens(c *gin.Context) {
	var request PurchaseRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var receipt *engine.PurchaseReceipt
	err = withWrite(func() error {
		var opErr error
		receipt, opErr = ledger.Purchase(request.Buyer, amount, request.Asset, request.Referrer)
		return opErr
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"buyer":        receipt.Buyer,
		"referrer":     receipt.Referrer,
		"token_amount": amountString(receipt.TokenAmount),
		"bonus_tokens": amountString(receipt.BonusTokens),
		"total_tokens": amountString(receipt.TotalTokens),
		"cost":         amountString(receipt.Cost),
		"asset":        receipt.Asset,
		"phase":        receipt.Phase.String(),
	})
}

// GetBuyer returns one buyer's cumulative total and referrer binding.
func GetBuyer(c *gin.Context) {
	address := c.Param("address")

	var resp gin.H
	withRead(func() {
		resp = gin.H{
			"address":   address,
			"purchased": amountString(ledger.PurchasedBy(address)),
			"referrer":  ledger.ReferrerOf(address),
		}
	})
	c.JSON(http.StatusOK, resp)
}

// GetReferralStats returns a referrer's credited count and per-asset earnings.
func GetReferralStats(c *gin.Context) {
	address := c.Param("address")

	var resp gin.H
	withRead(func() {
		stats := ledger.ReferralStatsOf(address)
		earnings := make(map[string]string, len(stats.Earnings))
		for asset, amount := range stats.Earnings {
			earnings[asset] = amountString(amount)
		}
		resp = gin.H{
			"referrer": address,
			"count":    stats.Count,
			"earnings": earnings,
		}
	})
	c.JSON(http.StatusOK, resp)
}
