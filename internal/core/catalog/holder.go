package catalog

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"mixwise-api/internal/metrics"
	"mixwise-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Holder 保存目前使用中的目錄快照，重新載入時整份替換
type Holder struct {
	source  Source
	options BuildOptions

	current    atomic.Pointer[Catalog]
	lastReport atomic.Pointer[Report]
	loadedAt   atomic.Int64

	reloadMu sync.Mutex
}

// NewHolder 創建目錄持有者
func NewHolder(source Source, opts BuildOptions) *Holder {
	return &Holder{
		source:  source,
		options: opts,
	}
}

// NewStaticHolder 以已建立的目錄創建持有者，不支援重新載入
func NewStaticHolder(c *Catalog) *Holder {
	h := &Holder{}
	h.current.Store(c)
	h.loadedAt.Store(time.Now().Unix())
	return h
}

// Current 取得目前的目錄快照
func (h *Holder) Current() (*Catalog, error) {
	c := h.current.Load()
	if c == nil {
		return nil, ErrNotLoaded
	}
	return c, nil
}

// LastReport 最近一次載入的驗證結果
func (h *Holder) LastReport() (Report, bool) {
	r := h.lastReport.Load()
	if r == nil {
		return Report{}, false
	}
	return *r, true
}

// LoadedAt 最近一次成功載入的時間
func (h *Holder) LoadedAt() time.Time {
	ts := h.loadedAt.Load()
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0)
}

// Source 目錄來源描述
func (h *Holder) Source() string {
	if h.source == nil {
		return "static"
	}
	return h.source.String()
}

// Reload 從來源重新載入目錄，失敗時保留舊快照
func (h *Holder) Reload(ctx context.Context) (*Catalog, error) {
	if h.source == nil {
		return h.Current()
	}

	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := time.Now()
	name := h.source.String()

	doc, err := h.source.Fetch(ctx)
	if err != nil {
		duration := time.Since(start)
		common.LogCatalogLoad(name, 0, 0, duration, err)
		metrics.RecordCatalogLoad(name, false, duration, 0)
		return nil, fmt.Errorf("failed to load catalog from %s: %w", name, err)
	}

	report := Validate(doc)
	c := Build(doc, h.options)
	duration := time.Since(start)

	h.current.Store(c)
	h.lastReport.Store(&report)
	h.loadedAt.Store(time.Now().Unix())

	common.LogCatalogLoad(name, len(c.Recipes), len(c.Ingredients), duration, nil)
	metrics.RecordCatalogLoad(name, true, duration, len(c.Recipes))
	metrics.RecordValidationIssues(report.Errors(), report.Warnings())
	if !report.OK() || report.Warnings() > 0 {
		common.LogWarn("酒譜目錄驗證有問題",
			zap.String("source", name),
			zap.String("version", c.Version),
			zap.Int("errors", report.Errors()),
			zap.Int("warnings", report.Warnings()),
		)
	}

	return c, nil
}
