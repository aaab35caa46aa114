package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	syncbridge "sonrisa/services/sync"
	"sonrisa/utils"
)

// The dashboard origin is already enforced by the CORS layer; the upgrader
// accepts whatever reaches it.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSHandler upgrades dashboard connections and attaches them to the hub.
type WSHandler struct {
	Hub *syncbridge.Hub
}

func NewWSHandler(hub *syncbridge.Hub) *WSHandler {
	return &WSHandler{Hub: hub}
}

// Serve handles GET /ws.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.GetLogger().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.Hub.Attach(conn)
}
