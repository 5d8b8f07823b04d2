package handlers

import (
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"

	"launchcontrol/internal/engine"
	"launchcontrol/internal/middleware"
)

// runAdmin executes an owner operation. The caller address comes from the
// auth middleware; the engine itself decides whether it is the owner.
func runAdmin(c *gin.Context, op func(caller string) error) {
	caller := middleware.CallerAddress(c)
	if err := withWrite(func() error { return op(caller) }); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// PauseLedger halts purchases and new stakes. Exits and claims stay open.
func PauseLedger(c *gin.Context) {
	runAdmin(c, func(caller string) error { return ledger.Pause(caller) })
}

// UnpauseLedger reopens purchases and new stakes.
func UnpauseLedger(c *gin.Context) {
	runAdmin(c, func(caller string) error { return ledger.Unpause(caller) })
}

// SetAssetRate adds or reprices a payment asset.
func SetAssetRate(c *gin.Context) {
	var request AssetRateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rate, err := parseAmount(request.Rate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetAssetRate(caller, request.Asset, rate)
	})
}

// RemoveAsset stops accepting a payment asset for new purchases.
func RemoveAsset(c *gin.Context) {
	asset := c.Param("asset")
	runAdmin(c, func(caller string) error {
		return ledger.RemoveAsset(caller, asset)
	})
}

// SetReferralRates updates the referral bonus and referrer reward rates.
func SetReferralRates(c *gin.Context) {
	var request ReferralRatesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetReferralRates(caller, *request.BonusBPS, *request.RewardBPS)
	})
}

// SetPhasePrice reprices a selling phase.
func SetPhasePrice(c *gin.Context) {
	var request PhasePriceRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	phase, err := engine.ParsePhase(request.Phase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := parseAmount(request.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetPhasePrice(caller, phase, price)
	})
}

// ForceAdvancePhase moves the sale to the next phase regardless of allocation.
func ForceAdvancePhase(c *gin.Context) {
	runAdmin(c, func(caller string) error { return ledger.ForceAdvancePhase(caller) })
}

// WithdrawFunds pays collected payment assets out of the reserve.
func WithdrawFunds(c *gin.Context) {
	var request WithdrawFundsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.WithdrawFunds(caller, request.Asset, request.To, amount)
	})
}

// WithdrawUnsoldTokens pays out the unsold remainder once the sale has ended.
func WithdrawUnsoldTokens(c *gin.Context) {
	var request WithdrawUnsoldRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := middleware.CallerAddress(c)
	var unsold *big.Int
	err := withWrite(func() error {
		var opErr error
		unsold, opErr = ledger.WithdrawUnsoldTokens(caller, request.To)
		return opErr
	})
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"to": request.To, "amount": amountString(unsold)})
}

// SetPoolRates updates one pool's APY and minimum stake.
func SetPoolRates(c *gin.Context) {
	var request PoolRatesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pool, err := engine.ParsePoolType(request.Pool)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	minStake, err := parseAmount(request.MinStake)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetPoolRates(caller, pool, *request.APYBPS, minStake)
	})
}

// SetPoolActive opens or closes a pool for new stakes.
func SetPoolActive(c *gin.Context) {
	var request PoolActiveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pool, err := engine.ParsePoolType(request.Pool)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetPoolActive(caller, pool, *request.Active)
	})
}

// SetEmergencyFee sets the early-exit penalty rate.
func SetEmergencyFee(c *gin.Context) {
	var request EmergencyFeeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SetEmergencyFee(caller, *request.BPS)
	})
}

// SweepRewards moves surplus reward budget out of the reserve.
func SweepRewards(c *gin.Context) {
	var request SweepRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, err := parseAmount(request.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	runAdmin(c, func(caller string) error {
		return ledger.SweepRewards(caller, request.To, amount)
	})
}
