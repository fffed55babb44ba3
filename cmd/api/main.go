package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recipefy/internal/api"
	"recipefy/internal/api/middleware"
	"recipefy/internal/core/ai/cache"
	aiService "recipefy/internal/core/ai/service"
	"recipefy/internal/core/catalog"
	"recipefy/internal/core/store"
	"recipefy/internal/infrastructure/config"
	"recipefy/internal/pkg/common"

	firebase "firebase.google.com/go/v4"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("spoonacular_api_key", config.MaskAPIKey(cfg.Spoonacular.APIKey)),
		zap.String("gemini_api_key", config.MaskAPIKey(cfg.Gemini.APIKey)),
		zap.String("gemini_model", cfg.Gemini.Model),
		zap.String("firebase_project", cfg.Firebase.ProjectID),
	)

	ctx := context.Background()

	// 初始化 Firebase（驗證與文件儲存共用同一個 app）
	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		common.LogFatal("Failed to create firebase app", zap.Error(err))
	}

	fbAuth, err := fbApp.Auth(ctx)
	if err != nil {
		common.LogFatal("Failed to create firebase auth client", zap.Error(err))
	}

	firestoreClient, err := fbApp.Firestore(ctx)
	if err != nil {
		common.LogFatal("Failed to create firestore client", zap.Error(err))
	}
	defer firestoreClient.Close()

	// 初始化 AI 回應快取
	cacheManager := cache.NewManager(cfg)
	if cfg.Cache.Enabled && cacheManager == nil {
		common.LogFatal("Failed to initialize cache manager")
	}
	defer cacheManager.Close()

	// 初始化目錄快取與客戶端
	catalogCache, err := catalog.NewResponseCache(&cfg.CatalogCache)
	if err != nil {
		common.LogFatal("Failed to initialize catalog cache", zap.Error(err))
	}
	defer catalogCache.Close()

	services := &api.Services{
		Catalog:  catalog.NewClient(cfg, catalogCache),
		Users:    store.NewUserStore(firestoreClient),
		AI:       aiService.NewAIService(cfg, cacheManager),
		Cache:    cacheManager,
		Verifier: middleware.NewFirebaseVerifier(fbAuth),
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, services)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
