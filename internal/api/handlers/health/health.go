package health

import (
	"net/http"
	"runtime"
	"time"

	"mixwise-api/internal/core/cache"
	"mixwise-api/internal/core/cocktail"
	"mixwise-api/internal/infrastructure/config"
	"mixwise-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ConfigKey 設定在 gin context 中的鍵
	ConfigKey = "config"
	// ServiceKey 就緒服務在 gin context 中的鍵
	ServiceKey = "cocktail_service"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   *CatalogStatus         `json:"catalog,omitempty"`
	Cabinets  string                 `json:"cabinet_backend,omitempty"`
	Cache     *cache.Stats           `json:"cache,omitempty"`
}

// CatalogStatus 目錄狀態
type CatalogStatus struct {
	Version  string    `json:"version"`
	Source   string    `json:"source"`
	Recipes  int       `json:"recipes"`
	LoadedAt time.Time `json:"loaded_at"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	// 獲取配置
	v, exists := c.Get(ConfigKey)
	cfg, ok := v.(*config.Config)
	if !exists || !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}

	svc, ok := serviceFrom(c)
	if !ok {
		return
	}

	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Cabinets: svc.CabinetBackend(),
	}

	// 目錄未載入時仍回報存活，狀態標記為 degraded
	if summary, err := svc.CatalogSummary(c.Request.Context()); err == nil {
		response.Catalog = &CatalogStatus{
			Version:  summary.Version,
			Source:   summary.Source,
			Recipes:  summary.Recipes,
			LoadedAt: summary.LoadedAt,
		}
	} else {
		response.Status = "degraded"
	}

	if stats, ok := svc.CacheStats(); ok {
		response.Cache = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器，目錄需已載入且酒櫃儲存可用
func ReadinessCheck(c *gin.Context) {
	svc, ok := serviceFrom(c)
	if !ok {
		return
	}

	if err := svc.Ready(c.Request.Context()); err != nil {
		common.LogWarn("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func serviceFrom(c *gin.Context) (*cocktail.Service, bool) {
	v, exists := c.Get(ServiceKey)
	if !exists {
		common.LogError("Cocktail service not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Service not found",
		})
		return nil, false
	}
	svc, ok := v.(*cocktail.Service)
	if !ok || svc == nil {
		common.LogError("Invalid service type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid service type",
		})
		return nil, false
	}
	return svc, true
}
