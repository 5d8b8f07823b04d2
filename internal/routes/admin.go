package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
	"launchcontrol/internal/middleware"
)

// SetupAdminRoutes sets up all owner-gated routes. The middleware only
// requires a declared caller; the ledger enforces ownership.
func SetupAdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware())
	{
		admin.POST("/pause", handlers.PauseLedger)
		admin.POST("/unpause", handlers.UnpauseLedger)

		admin.POST("/sale/asset-rate", handlers.SetAssetRate)
		admin.DELETE("/sale/assets/:asset", handlers.RemoveAsset)
		admin.POST("/sale/referral-rates", handlers.SetReferralRates)
		admin.POST("/sale/phase-price", handlers.SetPhasePrice)
		admin.POST("/sale/advance-phase", handlers.ForceAdvancePhase)
		admin.POST("/sale/withdraw-funds", handlers.WithdrawFunds)
		admin.POST("/sale/withdraw-unsold", handlers.WithdrawUnsoldTokens)

		admin.POST("/staking/pool-rates", handlers.SetPoolRates)
		admin.POST("/staking/pool-active", handlers.SetPoolActive)
		admin.POST("/staking/emergency-fee", handlers.SetEmergencyFee)
		admin.POST("/staking/sweep-rewards", handlers.SweepRewards)
	}
}
