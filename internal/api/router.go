package api

import (
	"context"
	"fmt"
	"time"

	cocktailHandler "mixwise-api/internal/api/handlers/cocktail"
	"mixwise-api/internal/api/handlers/health"
	"mixwise-api/internal/api/middleware"
	"mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/infrastructure/config"
	"mixwise-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	// 預設請求超時
	defaultTimeout = 15 * time.Second
	// 預設請求體大小限制 (1MB)
	defaultMaxBodySize = 1 << 20
	// 限流與去重的清理間隔
	cleanupInterval = 10 * time.Minute
)

// SetupRouter 設置路由，ctx 結束時停止背景清理
func SetupRouter(ctx context.Context, cfg *config.Config, svc *cocktail.Service) (*gin.Engine, error) {
	if cfg == nil || svc == nil {
		return nil, fmt.Errorf("router requires config and service")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBodySize := cfg.Server.MaxBodyBytes
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}

	// 創建路由引擎
	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Location"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))
	router.Use(middleware.Timeout(timeout))

	// 注入設定與服務
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		c.Set(health.ServiceKey, svc)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		common.WriteErrorResponse(c.Writer, common.ErrNotFound, c.Request.URL.Path)
	})
	router.NoMethod(func(c *gin.Context) {
		common.WriteErrorResponse(c.Writer, common.ErrMethodNotAllowed, c.Request.Method+" "+c.Request.URL.Path)
	})

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limiter.StartCleanup(cleanupInterval)
		go func() {
			<-ctx.Done()
			limiter.Stop()
		}()
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}

	h := cocktailHandler.NewHandler(svc, cfg.App.Debug)
	{
		api.POST("/readiness", h.HandleReadiness)
		api.POST("/suggestions", h.HandleSuggestions)

		catalogGroup := api.Group("/catalog")
		{
			catalogGroup.GET("", h.HandleCatalog)
			catalogGroup.POST("/reload", h.HandleCatalogReload)
		}

		cabinetGroup := api.Group("/cabinets")
		if cfg.DedupWindow > 0 {
			dedup := middleware.NewDeduplicator(cfg.DedupWindow)
			dedup.StartCleanup(cleanupInterval)
			go func() {
				<-ctx.Done()
				dedup.Stop()
			}()
			cabinetGroup.Use(middleware.Deduplication(dedup))
		}
		{
			cabinetGroup.POST("", h.HandleCreateCabinet)
			cabinetGroup.GET("/:id", h.HandleGetCabinet)
			cabinetGroup.PUT("/:id", h.HandleReplaceCabinet)
			cabinetGroup.DELETE("/:id", h.HandleDeleteCabinet)
			cabinetGroup.POST("/:id/ingredients", h.HandleAddIngredients)
			cabinetGroup.DELETE("/:id/ingredients/:ingredient_id", h.HandleRemoveIngredient)
			cabinetGroup.GET("/:id/readiness", h.HandleCabinetReadiness)
			cabinetGroup.GET("/:id/suggestions", h.HandleCabinetSuggestions)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", timeout),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
