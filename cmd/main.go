package main

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Gopher0727/Messenger/config"
	"github.com/Gopher0727/Messenger/internal/events"
	"github.com/Gopher0727/Messenger/internal/handlers"
	"github.com/Gopher0727/Messenger/internal/identity"
	"github.com/Gopher0727/Messenger/internal/repositories"
	"github.com/Gopher0727/Messenger/internal/routers"
	"github.com/Gopher0727/Messenger/internal/services"
	"github.com/Gopher0727/Messenger/internal/storage"
	"github.com/Gopher0727/Messenger/middleware/jwt"
	logger "github.com/Gopher0727/Messenger/middleware/log"
	"github.com/Gopher0727/Messenger/utils/snowflake"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	appLogger, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer appLogger.Close()

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis
	redisClient, err := storage.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("redis 初始化失败: %v", err)
	}

	// 初始化仓储层
	groupRepo := repositories.NewGroupRepository(postgres)
	messageRepo := repositories.NewMessageRepository(postgres)
	statusRepo := repositories.NewStatusRepository(postgres)
	reactionRepo := repositories.NewReactionRepository(postgres)
	friendRepo := repositories.NewFriendRepository(postgres)

	// 消息 ID 生成器
	idGen, err := snowflake.NewGenerator(1)
	if err != nil {
		log.Fatalf("snowflake 初始化失败: %v", err)
	}

	// 用户信息解析器 (identity 服务 + Redis 缓存)
	httpResolver := identity.NewHTTPResolver(cfg.Identity.BaseURL, &http.Client{
		Timeout: cfg.Identity.Timeout(),
	})
	resolver := identity.NewCachedResolver(httpResolver, redisClient, cfg.Identity.CacheTTL(), appLogger)

	// 初始化 Kafka Producer (不可达时降级，事件不再发出)
	producer, err := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		appLogger.Warn("kafka producer unavailable, running degraded: " + err.Error())
		producer = nil
	} else {
		defer producer.Close()
	}

	// 初始化服务层
	groupService := services.NewGroupService(groupRepo, appLogger)
	messageService := services.NewMessageService(messageRepo, groupRepo, idGen, resolver, producer, appLogger)
	statusService := services.NewStatusService(statusRepo, appLogger)
	reactionService := services.NewReactionService(reactionRepo, messageRepo, appLogger)
	friendService := services.NewFriendService(friendRepo, appLogger)

	// 初始化处理器
	groupHandler := handlers.NewGroupHandler(groupService)
	messageHandler := handlers.NewMessageHandler(messageService, statusService, reactionService)
	friendHandler := handlers.NewFriendHandler(friendService)

	tokens := jwt.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	routers.SetupRoutes(r, tokens,
		groupHandler,
		messageHandler,
		friendHandler,
	)

	// 启动服务器
	log.Printf("正在启动服务器，监听端口 :%d\n", cfg.Server.Port)
	if err := r.Run(":" + strconv.FormatInt(int64(cfg.Server.Port), 10)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
