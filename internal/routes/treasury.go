package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
)

// SetupTreasuryRoutes sets up all routes related to the balance book
func SetupTreasuryRoutes(r *gin.Engine) {
	treasury := r.Group("/treasury")
	{
		treasury.GET("/balances/:account", handlers.GetBalances)
		treasury.GET("/transfers", handlers.ListTransfers)
		treasury.POST("/deposit", handlers.Deposit)
	}
}
