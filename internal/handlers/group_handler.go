package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Messenger/internal/models"
	"github.com/Gopher0727/Messenger/internal/services"
)

type GroupHandler struct {
	GroupService *services.GroupService
}

func NewGroupHandler(groupService *services.GroupService) *GroupHandler {
	return &GroupHandler{
		GroupService: groupService,
	}
}

type createGroupRequest struct {
	Type models.GroupType `json:"type" binding:"required"`
	Name *string          `json:"name"`
}

func (h *GroupHandler) CreateGroup(c *gin.Context) {
	req := createGroupRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	group, err := h.GroupService.CreateGroup(c.Request.Context(), req.Type, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	if err := h.GroupService.DeleteGroup(c.Request.Context(), groupID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) DeactivateGroup(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	if err := h.GroupService.DeactivateGroup(c.Request.Context(), groupID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addMemberRequest struct {
	UserID          uint  `json:"user_id" binding:"required"`
	NotifyByMessage *bool `json:"notify_by_message"`
	NotifyByEmail   *bool `json:"notify_by_email"`
}

func (h *GroupHandler) AddMember(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	req := addMemberRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	notifyByMessage := true
	if req.NotifyByMessage != nil {
		notifyByMessage = *req.NotifyByMessage
	}
	notifyByEmail := false
	if req.NotifyByEmail != nil {
		notifyByEmail = *req.NotifyByEmail
	}

	member, err := h.GroupService.AddMember(c.Request.Context(), groupID, req.UserID, notifyByMessage, notifyByEmail)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	userID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.GroupService.RemoveMember(c.Request.Context(), groupID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	var userID *uint
	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return
		}
		id := uint(parsed)
		userID = &id
	}

	members, total, err := h.GroupService.ListMemberships(c.Request.Context(), groupID, userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "total": total})
}

func (h *GroupHandler) ListMessages(c *gin.Context) {
	groupID, ok := uintParam(c, "group_id")
	if !ok {
		return
	}
	page, pageSize := pageParams(c)

	var senderID *uint
	if raw := c.Query("sender_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sender_id"})
			return
		}
		id := uint(parsed)
		senderID = &id
	}

	messages, total, err := h.GroupService.ListMessages(c.Request.Context(), groupID, senderID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages, "total": total})
}
