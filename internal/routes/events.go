package routes

import (
	"github.com/gin-gonic/gin"

	"launchcontrol/internal/handlers"
)

// SetupEventRoutes sets up the event log and live stream routes
func SetupEventRoutes(r *gin.Engine) {
	events := r.Group("/events")
	{
		events.GET("", handlers.ListEvents)
		events.GET("/ws", handlers.StreamEvents)
	}
}
