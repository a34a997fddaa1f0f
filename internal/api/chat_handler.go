package api

import (
	"net/http"

	"fitmarket/internal/domain"
	"fitmarket/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// GET /conversations
func (h *Handler) ListConversations(c *gin.Context) {
	convs := h.db.GetConversations(c.Request.Context(), currentUserID(c))
	response.Success(c, http.StatusOK, gin.H{"conversations": convs})
}

// GET /conversations/:userId/messages
func (h *Handler) ListMessages(c *gin.Context) {
	msgs := h.db.GetMessages(c.Request.Context(), currentUserID(c), c.Param("userId"))
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

// POST /messages
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	msg, err := h.db.SendMessage(c.Request.Context(), domain.ChatMessage{
		SenderID:   currentUserID(c),
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		Attachment: req.Attachment,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"message": msg})
}

// POST /conversations/:userId/read
func (h *Handler) MarkConversationRead(c *gin.Context) {
	n, err := h.db.MarkMessagesAsRead(c.Request.Context(), currentUserID(c), c.Param("userId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": n})
}

// GET /favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"favorites": h.db.GetFavorites(c.Request.Context(), currentUserID(c))})
}

// POST /favorites/:professionalId
func (h *Handler) ToggleFavorite(c *gin.Context) {
	added, err := h.db.ToggleFavorite(c.Request.Context(), currentUserID(c), c.Param("professionalId"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"favorite": added})
}

// GET /notifications
func (h *Handler) ListNotifications(c *gin.Context) {
	notes := h.db.GetNotifications(c.Request.Context(), currentUserID(c))
	response.Success(c, http.StatusOK, gin.H{"notifications": notes})
}

// POST /notifications/read
func (h *Handler) MarkNotificationsRead(c *gin.Context) {
	n, err := h.db.MarkNotificationsRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"marked": n})
}
