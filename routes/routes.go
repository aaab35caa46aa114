package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"sonrisa/config"
	"sonrisa/handlers"
	"sonrisa/middleware"
)

// HandlerBundle groups the handlers the router mounts. WS is nil when the
// process runs as a relay; the websocket endpoint then only exists on the
// remote hub.
type HandlerBundle struct {
	Messages     *handlers.MessageHandler
	Appointments *handlers.AppointmentHandler
	Health       *handlers.HealthHandler
	WS           *handlers.WSHandler
}

// RegisterRoutes wires middleware and endpoints onto the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.FrontendURL},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	r.GET("/health", hb.Health.Status)

	if hb.WS != nil {
		r.GET("/ws", hb.WS.Serve)
	}

	api := r.Group("/api")
	{
		api.POST("/messages", hb.Messages.Inbound)
		api.GET("/appointments", hb.Appointments.List)
		api.POST("/appointments/:id/confirm", hb.Appointments.Confirm)
	}
}
