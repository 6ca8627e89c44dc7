package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixwise-api/internal/api"
	"mixwise-api/internal/core/cabinet"
	"mixwise-api/internal/core/cache"
	"mixwise-api/internal/core/catalog"
	"mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/infrastructure/config"
	"mixwise-api/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel, cfg.LogDir); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("catalog_source", cfg.Catalog.Source),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.String("catalog_url", cfg.Catalog.URL),
		zap.String("catalog_api_key", config.MaskAPIKey(cfg.Catalog.APIKey)),
		zap.String("cabinet_backend", cfg.Cabinet.Backend),
		zap.Int("max_missing", cfg.Matching.MaxMissing),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 載入酒譜目錄，啟動時失敗視為致命錯誤
	holder := catalog.NewHolder(newCatalogSource(cfg), catalog.BuildOptions{
		Aliases: cfg.Catalog.Aliases,
		Brands:  append(append([]string{}, catalog.DefaultBrands...), cfg.Catalog.Brands...),
	})
	if _, err := holder.Reload(ctx); err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}

	// 酒櫃儲存
	store, closeStore, err := newCabinetStore(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cabinet store", zap.Error(err))
	}
	defer closeStore()

	// 初始化快取
	cacheManager := cache.NewManager(cfg.Cache)
	defer cacheManager.Close()

	svc, err := cocktail.NewService(holder, store, cacheManager, cfg.Matching.Options(), cfg.Matching.Staples)
	if err != nil {
		common.LogFatal("Failed to initialize service", zap.Error(err))
	}

	if cfg.Catalog.ReloadInterval > 0 {
		go reloadLoop(ctx, svc, cfg.Catalog.ReloadInterval)
	}

	// 設置路由
	router, err := api.SetupRouter(ctx, cfg, svc)
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
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			stop()
		}
	}()

	// 等待中斷信號
	<-ctx.Done()

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
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

// newCatalogSource 依設定選擇目錄來源
func newCatalogSource(cfg *config.Config) catalog.Source {
	if cfg.Catalog.Source == "http" {
		return catalog.NewRemoteSource(cfg.Catalog.URL, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
	}
	return catalog.NewFileSource(cfg.Catalog.Path)
}

// newCabinetStore 依設定選擇酒櫃儲存，回傳的關閉函式總是可呼叫
func newCabinetStore(ctx context.Context, cfg *config.Config) (cabinet.Store, func(), error) {
	if cfg.Cabinet.Backend != "redis" {
		return cabinet.NewMemoryStore(), func() {}, nil
	}

	store, err := cabinet.NewRedisStore(ctx, cabinet.RedisOptions{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
		TTL:       cfg.Cabinet.TTL,
	})
	if err != nil {
		return nil, nil, err
	}
	common.LogInfo("Redis 酒櫃儲存已連線", zap.String("addr", cfg.Redis.Addr))
	return store, func() {
		if err := store.Close(); err != nil {
			common.LogWarn("Failed to close redis", zap.Error(err))
		}
	}, nil
}

// reloadLoop 定期重新載入目錄，失敗時保留舊目錄
func reloadLoop(ctx context.Context, svc *cocktail.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.ReloadCatalog(ctx); err != nil {
				common.LogWarn("Scheduled catalog reload failed", zap.Error(err))
			}
		}
	}
}
