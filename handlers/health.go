package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sonrisa/config"
	"sonrisa/database"
	syncbridge "sonrisa/services/sync"
)

// HealthHandler reports process health: operating mode, persistence state
// and sync connectivity.
type HealthHandler struct {
	Bridge syncbridge.Bridge
}

func NewHealthHandler(bridge syncbridge.Bridge) *HealthHandler {
	return &HealthHandler{Bridge: bridge}
}

// Status handles GET /health.
func (h *HealthHandler) Status(c *gin.Context) {
	dbState := "connected"
	if database.Pool == nil {
		dbState = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"mode":          config.AppConfig.SyncMode,
		"database":      dbState,
		"syncConnected": h.Bridge.Connected(),
	})
}
