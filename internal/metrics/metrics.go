// Package metrics 匯出服務的 Prometheus 指標。
//
// 指標分類：
//   - 酒譜目錄：載入次數、耗時、目前酒譜數
//   - 就緒分析：分類耗時、各分級酒譜數、建議數
//   - 結果快取：命中、未命中、淘汰
//   - 酒櫃儲存：操作次數與失敗
//   - HTTP：請求數與耗時
//
// 用法：
//
//	metrics.RecordCatalogLoad("file:catalog.yaml", true, 120*time.Millisecond, 250)
//	metrics.RecordReadiness(3, 12, 40, 5, 2*time.Millisecond)
//	metrics.RecordCacheHit()
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 酒譜目錄

	// CatalogLoadsTotal 目錄載入次數
	CatalogLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mixwise_catalog_loads_total",
			Help: "Total number of catalog load attempts",
		},
		[]string{"source", "result"},
	)

	// CatalogLoadDuration 目錄載入耗時
	CatalogLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mixwise_catalog_load_duration_seconds",
			Help:    "Duration of catalog loads in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source"},
	)

	// CatalogRecipes 目前快照中的酒譜數
	CatalogRecipes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mixwise_catalog_recipes",
			Help: "Number of recipes in the active catalog snapshot",
		},
	)

	// CatalogValidationIssues 最近一次載入的驗證問題數
	CatalogValidationIssues = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mixwise_catalog_validation_issues",
			Help: "Validation issues found in the last catalog load",
		},
		[]string{"severity"},
	)

	// 就緒分析

	// ReadinessDuration 分類加建議的計算耗時
	ReadinessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mixwise_readiness_duration_seconds",
			Help:    "Duration of readiness computations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	// ReadinessRecipes 每次計算各分級的酒譜數
	ReadinessRecipes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mixwise_readiness_recipes",
			Help:    "Number of recipes per readiness tier",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"tier"},
	)

	// SuggestionsReturned 每次回傳的建議數
	SuggestionsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mixwise_suggestions_returned",
			Help:    "Number of ingredient suggestions returned",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	// 結果快取

	// CacheHitsTotal 快取命中
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mixwise_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	// CacheMissesTotal 快取未命中
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mixwise_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	// CacheEvictionsTotal 快取淘汰
	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mixwise_cache_evictions_total",
			Help: "Total number of result cache evictions",
		},
		[]string{"reason"},
	)

	// 酒櫃

	// CabinetOperationsTotal 酒櫃儲存操作
	CabinetOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mixwise_cabinet_operations_total",
			Help: "Total number of cabinet store operations",
		},
		[]string{"backend", "operation", "result"},
	)

	// HTTP

	// HTTPRequestsTotal HTTP 請求數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mixwise_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration HTTP 請求耗時
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mixwise_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// RateLimitedTotal 被限流的請求
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mixwise_rate_limited_total",
			Help: "Total number of requests rejected by rate limiting or deduplication",
		},
		[]string{"reason"},
	)
)

// RecordCatalogLoad 記錄目錄載入
func RecordCatalogLoad(source string, ok bool, duration time.Duration, recipes int) {
	result := "success"
	if !ok {
		result = "failure"
	}
	CatalogLoadsTotal.WithLabelValues(source, result).Inc()
	CatalogLoadDuration.WithLabelValues(source).Observe(duration.Seconds())
	if ok {
		CatalogRecipes.Set(float64(recipes))
	}
}

// RecordValidationIssues 記錄驗證問題數
func RecordValidationIssues(errors, warnings int) {
	CatalogValidationIssues.WithLabelValues("error").Set(float64(errors))
	CatalogValidationIssues.WithLabelValues("warning").Set(float64(warnings))
}

// RecordReadiness 記錄一次就緒分析
func RecordReadiness(ready, almostThere, far, suggestions int, duration time.Duration) {
	ReadinessDuration.Observe(duration.Seconds())
	ReadinessRecipes.WithLabelValues("ready").Observe(float64(ready))
	ReadinessRecipes.WithLabelValues("almost_there").Observe(float64(almostThere))
	ReadinessRecipes.WithLabelValues("far").Observe(float64(far))
	SuggestionsReturned.Observe(float64(suggestions))
}

// RecordCacheHit 記錄快取命中
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss 記錄快取未命中
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheEviction 記錄快取淘汰，reason 為 expired 或 capacity
func RecordCacheEviction(reason string, count int) {
	CacheEvictionsTotal.WithLabelValues(reason).Add(float64(count))
}

// RecordCabinetOperation 記錄酒櫃儲存操作
func RecordCabinetOperation(backend, operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	CabinetOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// RecordHTTPRequest 記錄 HTTP 請求
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimited 記錄被拒絕的請求
func RecordRateLimited(reason string) {
	RateLimitedTotal.WithLabelValues(reason).Inc()
}
