package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chatrelay/internal/app"
	"chatrelay/internal/transport/http/middleware"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" binding:"required"`
	Content        string `json:"content" binding:"required"`
}

type UpdateTitleRequest struct {
	Title string `json:"title" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) CreateConversation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}

	conversationID, err := h.chatService.CreateConversation(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Conversation created",
		"conversation_id": conversationID,
	})
}

// ListConversations serves the visible conversations of a user. The path
// still carries the user id, but it must match the token subject.
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}
	if c.Param("user_id") != userID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Forbidden"})
		return
	}

	conversations, err := h.chatService.ListConversations(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}

	messages, err := h.chatService.ListMessages(c.Request.Context(), userID, c.Param("conv_id"))
	if err != nil {
		if errors.Is(err, app.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	result, err := h.chatService.SendMessage(c.Request.Context(), req.ConversationID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Conversation not found"})
		case errors.Is(err, app.ErrMessageEmpty):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "message content is empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Message sent",
		"user_message": result.UserMessage,
		"ai_response":  result.AIResponse,
	})
}

func (h *ChatHandler) DeleteConversation(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}

	if err := h.chatService.DeleteConversation(c.Request.Context(), userID, c.Param("conversation_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation and all messages deleted"})
}

func (h *ChatHandler) UpdateTitle(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid authentication token"})
		return
	}

	var req UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request payload"})
		return
	}

	if err := h.chatService.UpdateTitle(c.Request.Context(), userID, c.Param("conversation_id"), req.Title); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to update conversation title"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Conversation title updated"})
}
