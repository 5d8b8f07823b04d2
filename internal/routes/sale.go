package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
	"launchcontrol/internal/middleware"
)

// SetupSaleRoutes sets up all routes related to the token sale
func SetupSaleRoutes(r *gin.Engine) {
	sale := r.Group("/sale")
	{
		sale.GET("", handlers.GetSaleState)
		sale.GET("/quote", handlers.QuoteTokens)
		sale.GET("/buyers/:address", handlers.GetBuyer)
		sale.GET("/referrals/:address", handlers.GetReferralStats)
	}

	// Purchases mutate the ledger; keep a ceiling on how fast one client can
	// push them.
	purchase := r.Group("/sale")
	purchase.Use(middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}))
	purchase.POST("/purchase", handlers.PurchaseTokens)
}
