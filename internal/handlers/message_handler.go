package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Messenger/internal/services"
)

type MessageHandler struct {
	MessageService  *services.MessageService
	StatusService   *services.StatusService
	ReactionService *services.ReactionService
}

func NewMessageHandler(
	messageService *services.MessageService,
	statusService *services.StatusService,
	reactionService *services.ReactionService,
) *MessageHandler {
	return &MessageHandler{
		MessageService:  messageService,
		StatusService:   statusService,
		ReactionService: reactionService,
	}
}

func (h *MessageHandler) SendMessage(c *gin.Context) {
	senderID, ok := currentUserID(c)
	if !ok {
		return
	}
	req := services.CreateMessageRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	message, err := h.MessageService.CreateMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	messageID, ok := int64Param(c, "message_id")
	if !ok {
		return
	}
	message, err := h.MessageService.GetMessage(c.Request.Context(), messageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) GetOutgoing(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	messages, total, err := h.MessageService.OutgoingMessages(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

func (h *MessageHandler) GetDrafts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	messages, total, err := h.MessageService.DraftMessages(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

func (h *MessageHandler) GetIncoming(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	messages, total, err := h.MessageService.IncomingMessages(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

func (h *MessageHandler) GetNew(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	messages, total, err := h.MessageService.NewMessages(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}

func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	count, err := h.StatusService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// AckMessage 确认消息已读
func (h *MessageHandler) AckMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := int64Param(c, "message_id")
	if !ok {
		return
	}
	if err := h.StatusService.MarkRead(c.Request.Context(), messageID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addReactionRequest struct {
	Value string `json:"value" binding:"required"`
}

func (h *MessageHandler) AddReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := int64Param(c, "message_id")
	if !ok {
		return
	}
	req := addReactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	reaction, err := h.ReactionService.AddReaction(c.Request.Context(), messageID, userID, req.Value)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reaction)
}

func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := int64Param(c, "message_id")
	if !ok {
		return
	}
	value := c.Param("value")
	if err := h.ReactionService.RemoveReaction(c.Request.Context(), messageID, userID, value); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) ListReactions(c *gin.Context) {
	messageID, ok := int64Param(c, "message_id")
	if !ok {
		return
	}
	reactions, err := h.ReactionService.ListReactions(c.Request.Context(), messageID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": reactions})
}

// ResolveUser proxies the identity lookup so clients can render sender
// profiles without talking to the identity service directly.
func (h *MessageHandler) ResolveUser(c *gin.Context) {
	userID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}
	profile, err := h.MessageService.ResolveUser(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
