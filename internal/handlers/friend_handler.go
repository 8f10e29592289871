package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Messenger/internal/services"
)

type FriendHandler struct {
	FriendService *services.FriendService
}

func NewFriendHandler(friendService *services.FriendService) *FriendHandler {
	return &FriendHandler{
		FriendService: friendService,
	}
}

func (h *FriendHandler) GetFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	page, pageSize := pageParams(c)
	friends, err := h.FriendService.GetFriends(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	if friends == nil {
		friends = []uint{}
	}
	c.JSON(http.StatusOK, gin.H{"friends": friends})
}

type makeFriendsRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

func (h *FriendHandler) MakeFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	req := makeFriendsRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	group, err := h.FriendService.MakeFriends(c.Request.Context(), userID, req.UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

func (h *FriendHandler) RemoveFriends(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	friendID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}
	if err := h.FriendService.RemoveFriends(c.Request.Context(), userID, friendID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
