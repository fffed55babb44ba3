package api

import (
	"context"
	"net/http"
	"time"

	favoriteHandler "recipefy/internal/api/handlers/favorite"
	"recipefy/internal/api/handlers/health"
	recipeHandler "recipefy/internal/api/handlers/recipe"
	"recipefy/internal/api/middleware"
	"recipefy/internal/core/ai/cache"
	aiService "recipefy/internal/core/ai/service"
	"recipefy/internal/core/catalog"
	recipeCore "recipefy/internal/core/recipe"
	"recipefy/internal/core/store"
	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (1MB)，這個服務沒有檔案上傳
	maxBodySize = 1 << 20
)

// Services 路由所需的外部服務
type Services struct {
	Catalog  *catalog.Client
	Users    *store.UserStore
	AI       *aiService.AIService
	Cache    *cache.CacheManager
	Verifier middleware.TokenVerifier
}

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, svc *Services) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID))) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 驗證中間件：有 token 就解出使用者，沒有照常放行
	router.Use(middleware.Auth(svc.Verifier))

	// 請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
			})
			c.Abort()
		}
	})

	// 初始化服務
	generator := recipeCore.NewGeneratorService(svc.AI)
	favorites := recipeCore.NewFavoritesService(svc.Users, svc.Catalog)

	healthHandlerInstance := health.NewHandler(cfg, svc.Cache)
	recipeHandlerInstance := recipeHandler.NewHandler(svc.Catalog, svc.Users, generator)
	favoriteHandlerInstance := favoriteHandler.NewHandler(favorites, svc.Users)

	// 健康檢查路由
	router.GET("/health", healthHandlerInstance.HealthCheck)
	router.GET("/ready", healthHandlerInstance.ReadinessCheck)
	router.GET("/live", healthHandlerInstance.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		recipeGroup := api.Group("/recipes")
		{
			recipeGroup.GET("/search", recipeHandlerInstance.HandleSearch)
			recipeGroup.GET("/popular", recipeHandlerInstance.HandlePopular)
			recipeGroup.GET("/:id", recipeHandlerInstance.HandleGetByID)

			// 生成端點另外掛限流與去重，擋住連點與濫用
			generateGroup := recipeGroup.Group("")
			if cfg.RateLimit.Enabled {
				generateGroup.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
			}
			generateGroup.Use(middleware.Deduplication(cfg))
			generateGroup.POST("/generate", recipeHandlerInstance.HandleGenerate)
		}

		// 收藏路由一律要求登入
		favoriteGroup := api.Group("/favorites")
		favoriteGroup.Use(middleware.RequireUser())
		{
			favoriteGroup.GET("", favoriteHandlerInstance.HandleList)
			favoriteGroup.POST("/toggle", favoriteHandlerInstance.HandleToggle)
			favoriteGroup.POST("/generated", favoriteHandlerInstance.HandleSaveGenerated)
			favoriteGroup.DELETE("/generated/:id", favoriteHandlerInstance.HandleRemoveGenerated)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
