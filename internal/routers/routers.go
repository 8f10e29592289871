package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Messenger/internal/handlers"
	"github.com/Gopher0727/Messenger/internal/middlewares"
	"github.com/Gopher0727/Messenger/middleware/jwt"
)

// SetupRoutes 设置所有路由
func SetupRoutes(r *gin.Engine, tokens *jwt.TokenManager,
	groupHandler *handlers.GroupHandler,
	messageHandler *handlers.MessageHandler,
	friendHandler *handlers.FriendHandler,
) {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Trace-ID"}
	r.Use(cors.New(config))
	r.Use(middlewares.TraceMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	RegisterGroupRoutes(r, tokens, groupHandler)
	RegisterMessageRoutes(r, tokens, messageHandler)
	RegisterFriendRoutes(r, tokens, friendHandler)
}

// GroupHandler 接口定义
func RegisterGroupRoutes(r *gin.Engine, tokens *jwt.TokenManager, groupHandler *handlers.GroupHandler) {
	groupGroup := r.Group("/api/v1/groups")
	groupGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		groupGroup.POST("", groupHandler.CreateGroup)                          // 创建会话
		groupGroup.DELETE("/:group_id", groupHandler.DeleteGroup)              // 删除会话 (级联)
		groupGroup.POST("/:group_id/deactivate", groupHandler.DeactivateGroup) // 停用会话

		// 成员管理
		groupGroup.POST("/:group_id/members", groupHandler.AddMember)
		groupGroup.DELETE("/:group_id/members/:user_id", groupHandler.RemoveMember)
		groupGroup.GET("/:group_id/members", groupHandler.ListMembers)

		// 消息列表
		groupGroup.GET("/:group_id/messages", groupHandler.ListMessages)
	}
}

// MessageHandler 接口定义
func RegisterMessageRoutes(r *gin.Engine, tokens *jwt.TokenManager, messageHandler *handlers.MessageHandler) {
	messageGroup := r.Group("/api/v1/messages")
	messageGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		messageGroup.POST("", messageHandler.SendMessage) // 发送消息 (draft 可选)

		// 收发件箱
		messageGroup.GET("/outgoing", messageHandler.GetOutgoing)
		messageGroup.GET("/drafts", messageHandler.GetDrafts)
		messageGroup.GET("/incoming", messageHandler.GetIncoming)
		messageGroup.GET("/new", messageHandler.GetNew)
		messageGroup.GET("/unread-count", messageHandler.GetUnreadCount)

		messageGroup.GET("/:message_id", messageHandler.GetMessage)
		messageGroup.POST("/:message_id/ack", messageHandler.AckMessage) // 确认消息已读

		// 回应
		messageGroup.POST("/:message_id/reactions", messageHandler.AddReaction)
		messageGroup.DELETE("/:message_id/reactions/:value", messageHandler.RemoveReaction)
		messageGroup.GET("/:message_id/reactions", messageHandler.ListReactions)
	}

	userGroup := r.Group("/api/v1/users")
	userGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		userGroup.GET("/:user_id", messageHandler.ResolveUser) // 用户信息代理
	}
}

// FriendHandler 接口定义
func RegisterFriendRoutes(r *gin.Engine, tokens *jwt.TokenManager, friendHandler *handlers.FriendHandler) {
	friendGroup := r.Group("/api/v1/friends")
	friendGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		friendGroup.GET("", friendHandler.GetFriends)
		friendGroup.POST("", friendHandler.MakeFriends)
		friendGroup.DELETE("/:user_id", friendHandler.RemoveFriends)
	}
}
