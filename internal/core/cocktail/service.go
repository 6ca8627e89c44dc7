// Package cocktail 串接目錄、酒櫃、快取與比對核心，提供就緒分析與購買建議。
package cocktail

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"mixwise-api/internal/core/cabinet"
	"mixwise-api/internal/core/cache"
	"mixwise-api/internal/core/catalog"
	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/metrics"
	"mixwise-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Suggestion 附上顯示名稱的建議食材
type Suggestion struct {
	matching.Candidate `yaml:",inline"`
	Name               string `json:"name" yaml:"name"`
}

// Report 就緒分析結果
type Report struct {
	CatalogVersion string                  `json:"catalog_version" yaml:"catalog_version"`
	Owned          []matching.IngredientID `json:"owned" yaml:"owned"`
	MaxMissing     int                     `json:"max_missing" yaml:"max_missing"`
	Ready          []matching.MatchResult  `json:"ready" yaml:"ready"`
	AlmostThere    []matching.MatchResult  `json:"almost_there" yaml:"almost_there"`
	Far            []matching.MatchResult  `json:"far" yaml:"far"`
	Suggestions    []Suggestion            `json:"suggestions" yaml:"suggestions"`
	Cached         bool                    `json:"cached" yaml:"cached"`
}

// CatalogSummary 目錄摘要
type CatalogSummary struct {
	Version     string          `json:"version" yaml:"version"`
	Source      string          `json:"source" yaml:"source"`
	Recipes     int             `json:"recipes" yaml:"recipes"`
	Ingredients int             `json:"ingredients" yaml:"ingredients"`
	LoadedAt    time.Time       `json:"loaded_at" yaml:"loaded_at"`
	Errors      int             `json:"validation_errors" yaml:"validation_errors"`
	Warnings    int             `json:"validation_warnings" yaml:"validation_warnings"`
	Issues      []catalog.Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Service 酒譜就緒服務
type Service struct {
	catalog  *catalog.Holder
	cabinets cabinet.Store
	cache    *cache.CacheManager
	options  matching.Options
	staples  []string
	newID    func() string
}

// NewService 創建新的就緒服務，cacheManager 可為 nil
func NewService(holder *catalog.Holder, store cabinet.Store, cacheManager *cache.CacheManager, opts matching.Options, staples []string) (*Service, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Service{
		catalog:  holder,
		cabinets: store,
		cache:    cacheManager,
		options:  opts,
		staples:  staples,
		newID:    common.GenerateUUID,
	}, nil
}

// Options 預設的比對設定
func (s *Service) Options() matching.Options {
	return s.options
}

func (s *Service) current() (*catalog.Catalog, error) {
	c, err := s.catalog.Current()
	if err != nil {
		return nil, common.ErrCatalogNotLoaded.Wrap(err)
	}
	return c, nil
}

// Readiness 依持有食材分級所有酒譜並附上建議
func (s *Service) Readiness(ctx context.Context, owned []string, opts matching.Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	return s.readiness(ctx, c, matching.NewIDSet(c.ResolveOwned(owned)...), opts)
}

// CabinetReadiness 以酒櫃內容做就緒分析
func (s *Service) CabinetReadiness(ctx context.Context, cabinetID string, opts matching.Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	cab, err := s.GetCabinet(ctx, cabinetID)
	if err != nil {
		return nil, err
	}
	return s.readiness(ctx, c, cab.Owned(), opts)
}

// Suggestions 只回傳建議食材
func (s *Service) Suggestions(ctx context.Context, owned []string, limit int) ([]Suggestion, error) {
	opts := s.options
	opts.Limit = limit
	report, err := s.Readiness(ctx, owned, opts)
	if err != nil {
		return nil, err
	}
	return report.Suggestions, nil
}

// CabinetSuggestions 以酒櫃內容回傳建議食材
func (s *Service) CabinetSuggestions(ctx context.Context, cabinetID string, limit int) ([]Suggestion, error) {
	opts := s.options
	opts.Limit = limit
	report, err := s.CabinetReadiness(ctx, cabinetID, opts)
	if err != nil {
		return nil, err
	}
	return report.Suggestions, nil
}

func (s *Service) readiness(ctx context.Context, c *catalog.Catalog, owned matching.IDSet, opts matching.Options) (*Report, error) {
	key := cacheKey(c.Version, owned, opts)
	if cached, ok := s.lookup(ctx, key); ok {
		return cached, nil
	}

	start := time.Now()
	staples := matching.NewIDSet(c.ResolveOwned(s.staples)...)

	groups, err := matching.Classify(c.Recipes, owned, staples, opts.MaxMissing)
	if err != nil {
		return nil, err
	}
	candidates, err := matching.SuggestNextIngredients(c.Recipes, owned, staples, opts.MaxMissing, opts.Limit)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, len(candidates))
	for i, cand := range candidates {
		suggestions[i] = Suggestion{Candidate: cand, Name: c.Name(cand.IngredientID)}
	}

	report := &Report{
		CatalogVersion: c.Version,
		Owned:          owned.Sorted(),
		MaxMissing:     opts.MaxMissing,
		Ready:          groups.Ready,
		AlmostThere:    groups.AlmostThere,
		Far:            groups.Far,
		Suggestions:    suggestions,
	}

	duration := time.Since(start)
	metrics.RecordReadiness(len(groups.Ready), len(groups.AlmostThere), len(groups.Far), len(suggestions), duration)
	common.LogDebug("就緒分析完成",
		zap.String("catalog_version", c.Version),
		zap.Int("owned", owned.Len()),
		zap.Int("ready", len(groups.Ready)),
		zap.Int("almost_there", len(groups.AlmostThere)),
		zap.Int("far", len(groups.Far)),
		zap.Duration("耗時", duration),
	)

	s.store(ctx, key, report)
	return report, nil
}

func (s *Service) lookup(ctx context.Context, key string) (*Report, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var report Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		common.LogWarn("快取內容無法解析", zap.Error(err))
		return nil, false
	}
	report.Cached = true
	return &report, true
}

func (s *Service) store(ctx context.Context, key string, report *Report) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		common.LogWarn("快取內容無法序列化", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(data)); err != nil && !errors.Is(err, common.ErrCacheFull) {
		common.LogWarn("快取寫入失敗", zap.Error(err))
	}
}

// cacheKey 目錄版本、排序後的持有集合與設定共同決定結果
func cacheKey(version string, owned matching.IDSet, opts matching.Options) string {
	ids := owned.Sorted()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return cache.Key(
		version,
		strings.Join(parts, ","),
		strconv.Itoa(opts.MaxMissing),
		strconv.Itoa(opts.Limit),
	)
}

// CatalogSummary 目前目錄的摘要
func (s *Service) CatalogSummary(ctx context.Context) (*CatalogSummary, error) {
	c, err := s.current()
	if err != nil {
		return nil, err
	}
	summary := &CatalogSummary{
		Version:     c.Version,
		Source:      s.catalog.Source(),
		Recipes:     len(c.Recipes),
		Ingredients: len(c.Ingredients),
		LoadedAt:    s.catalog.LoadedAt(),
	}
	if report, ok := s.catalog.LastReport(); ok {
		summary.Errors = report.Errors()
		summary.Warnings = report.Warnings()
		summary.Issues = report.Issues
	}
	return summary, nil
}

// ReloadCatalog 重新載入目錄並清空結果快取
func (s *Service) ReloadCatalog(ctx context.Context) (*CatalogSummary, error) {
	if _, err := s.catalog.Reload(ctx); err != nil {
		return nil, common.ErrCatalogLoadFailed.Wrap(err)
	}
	if n := s.cache.Purge(); n > 0 {
		common.LogInfo("目錄更新，已清空快取", zap.Int("entries", n))
	}
	return s.CatalogSummary(ctx)
}

// Ready 檢查目錄已載入且酒櫃儲存可用
func (s *Service) Ready(ctx context.Context) error {
	if _, err := s.current(); err != nil {
		return err
	}
	if err := s.cabinets.Ping(ctx); err != nil {
		return common.ErrCabinetStore.Wrap(err)
	}
	return nil
}

// CacheStats 結果快取統計，未啟用快取時 ok 為 false
func (s *Service) CacheStats() (stats cache.Stats, ok bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.GetStats(), true
}

// CabinetBackend 酒櫃儲存後端名稱
func (s *Service) CabinetBackend() string {
	return s.cabinets.Backend()
}
