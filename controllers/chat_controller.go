package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"glowfeed-api/models"
	"glowfeed-api/services"
	"glowfeed-api/utils"
)

type ChatController struct {
	db          *gorm.DB
	chatService *services.ChatService
}

func NewChatController(db *gorm.DB, chatService *services.ChatService) *ChatController {
	return &ChatController{
		db:          db,
		chatService: chatService,
	}
}

// GetMessages returns the user's conversation, oldest first.
func (cc *ChatController) GetMessages(c *gin.Context) {
	userID := c.GetString("user_id")

	messages, err := cc.chatService.Messages(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage runs one chat turn and relays the assistant reply as a
// server-sent-event stream: one "delta" event per text fragment in arrival
// order, then a single terminal "message" (or "error") event. Pre-stream
// rejections (busy, empty content) are plain JSON responses.
func (cc *ChatController) SendMessage(c *gin.Context) {
	userID := c.GetString("user_id")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	var user models.User
	if err := cc.db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	streaming := false
	startStream := func() {
		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Status(http.StatusOK)
		streaming = true
	}

	onDelta := func(delta string) {
		if !streaming {
			startStream()
		}
		writeEvent(c, flusher, gin.H{"delta": delta})
	}

	saved, err := cc.chatService.Send(c.Request.Context(), &user, req.Content, onDelta)

	if err != nil && !streaming {
		switch {
		case errors.Is(err, services.ErrChatBusy):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrEmptyMessage):
			utils.SendValidationError(c, err.Error())
		case errors.Is(err, services.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		default:
			// Transport failed before the first delta. The coordinator has
			// already recorded the apology message; surface it as the
			// terminal event of a (short) stream for a uniform client path.
			startStream()
			writeEvent(c, flusher, gin.H{"error": "completion failed", "message": saved})
		}
		return
	}

	if err != nil {
		writeEvent(c, flusher, gin.H{"error": "completion failed", "message": saved})
		return
	}

	if !streaming {
		startStream()
	}
	writeEvent(c, flusher, gin.H{"done": true, "message": saved})
}

// writeEvent emits one data-only SSE frame. No event name: the mobile
// client's parser keys on the data payload alone.
func writeEvent(c *gin.Context, flusher http.Flusher, payload gin.H) {
	if err := sse.Encode(c.Writer, sse.Event{Data: payload}); err != nil {
		return
	}
	flusher.Flush()
}
