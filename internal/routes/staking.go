package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
)

// SetupStakingRoutes sets up all routes related to staking pools and positions
func SetupStakingRoutes(r *gin.Engine) {
	staking := r.Group("/staking")
	{
		staking.GET("/pools", handlers.ListPools)
		staking.GET("/pools/:pool", handlers.GetPool)
		staking.GET("/positions/:address", handlers.ListPositions)
		staking.GET("/positions/:address/:index/rewards", handlers.GetPendingRewards)
		staking.GET("/summary", handlers.GetStakingSummary)
		staking.POST("/stake", handlers.CreateStake)
		staking.POST("/unstake", handlers.UnstakePosition)
		staking.POST("/claim", handlers.ClaimRewards)
		staking.POST("/claim-bonus", handlers.ClaimFlexibleBonus)
		staking.POST("/emergency-unstake", handlers.EmergencyUnstakePosition)
	}
}
