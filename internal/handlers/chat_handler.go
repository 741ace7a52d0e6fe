package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerbot/internal/dialog"
	"ledgerbot/internal/models"
)

// Dispatcher turns one chat event into replies.
type Dispatcher interface {
	Dispatch(ev dialog.Event) []dialog.Reply
}

// ChatHandler exposes the chat router over HTTP for transports other than Telegram.
type ChatHandler struct {
	router Dispatcher
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(router Dispatcher) *ChatHandler {
	return &ChatHandler{router: router}
}

// ChatEventRequest is one inbound chat event.
type ChatEventRequest struct {
	ExternalID     string           `json:"external_id" binding:"required,max=64"`
	ConversationID string           `json:"conversation_id" binding:"required,max=64"`
	Profile        models.Profile   `json:"profile"`
	Type           dialog.EventType `json:"type" binding:"required,event_type"`
	Text           string           `json:"text" binding:"max=4096"`
	Option         string           `json:"option" binding:"max=64"`
}

// ChatEventResponse carries the replies in delivery order.
type ChatEventResponse struct {
	Replies []dialog.Reply `json:"replies"`
}

// HandleEvent handles POST /chat/events.
func (h *ChatHandler) HandleEvent(c *gin.Context) {
	var req ChatEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, invalidInput(err))
		return
	}

	replies := h.router.Dispatch(dialog.Event{
		ExternalID:     req.ExternalID,
		ConversationID: req.ConversationID,
		Profile:        req.Profile,
		Type:           req.Type,
		Text:           req.Text,
		Option:         req.Option,
	})
	if replies == nil {
		replies = []dialog.Reply{}
	}
	c.JSON(http.StatusOK, ChatEventResponse{Replies: replies})
}
