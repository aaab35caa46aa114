package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sonrisa/services/conversation"
	"sonrisa/utils"
)

// MessageHandler is the inbound edge for the messaging transport: the
// external dispatch engine posts each customer message here and relays the
// returned text back to the customer.
type MessageHandler struct {
	Engine conversation.ConversationEngine
}

func NewMessageHandler(engine conversation.ConversationEngine) *MessageHandler {
	return &MessageHandler{Engine: engine}
}

// Inbound handles POST /api/messages.
func (h *MessageHandler) Inbound(c *gin.Context) {
	var input struct {
		From string `json:"from" binding:"required"`
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid message payload", err.Error())
		return
	}

	reply := h.Engine.HandleMessage(c.Request.Context(), input.From, input.Body)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
