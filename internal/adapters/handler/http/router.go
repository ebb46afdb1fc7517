package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/comitanigiacomo/kanso-mindful-engine/docs"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
)

type RouterDependencies struct {
	EntryHandler     *EntryHandler
	SessionHandler   *SessionHandler
	StatsHandler     *StatsHandler
	ProfileHandler   *ProfileHandler
	CommunityHandler *CommunityHandler
	Store            domain.BlobStore
	Redis            *redis.Client
	RateLimit        int
	Logger           *zap.Logger
	StartTime        time.Time
}

// @title MindfulMe API
// @version 2.0
// @description Local wellness journal: moods, journaling, breathing, meditation, sleep and insights.
// @BasePath /api/v1
func NewRouter(deps RouterDependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	if deps.Redis != nil && deps.RateLimit > 0 {
		router.Use(middleware.RateLimiterMiddleware(deps.Redis, deps.RateLimit, 1*time.Minute, logger))
	}

	router.GET("/health", func(c *gin.Context) {
		storageStatus := "connected"
		if err := deps.Store.Ping(c.Request.Context()); err != nil {
			storageStatus = "unreachable"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(c.Request.Context()).Err() != nil {
				redisStatus = "unreachable"
			}
		}

		statusCode := http.StatusOK
		if storageStatus == "unreachable" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, gin.H{
			"status":  "ok",
			"storage": storageStatus,
			"redis":   redisStatus,
			"uptime":  time.Since(deps.StartTime).String(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := router.Group("/api/v1")

	deps.EntryHandler.RegisterRoutes(apiV1)
	deps.SessionHandler.RegisterRoutes(apiV1)
	deps.StatsHandler.RegisterRoutes(apiV1)
	deps.ProfileHandler.RegisterRoutes(apiV1)
	deps.CommunityHandler.RegisterRoutes(apiV1)

	return router
}
