package cocktail

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"mixwise-api/internal/core/cabinet"
	"mixwise-api/internal/core/cache"
	"mixwise-api/internal/core/catalog"
	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/infrastructure/config"
	"mixwise-api/internal/pkg/common"

	"github.com/google/go-cmp/cmp"
)

func testDocument() *catalog.Document {
	return &catalog.Document{
		Ingredients: []matching.Ingredient{
			{ID: "gin", Name: "Gin"},
			{ID: "vermouth", Name: "Sweet Vermouth"},
			{ID: "campari", Name: "Campari"},
			{ID: "ice", Name: "Ice"},
		},
		Recipes: []catalog.RecipeRecord{
			{ID: "martini", Name: "Martini", Lines: []catalog.LineRecord{
				{IngredientID: "gin"}, {IngredientID: "vermouth"}, {IngredientID: "ice"},
			}},
			{ID: "negroni", Name: "Negroni", Lines: []catalog.LineRecord{
				{IngredientID: "gin"}, {IngredientID: "campari"}, {IngredientID: "vermouth"},
			}},
		},
	}
}

func newTestService(t *testing.T, withCache bool) *Service {
	t.Helper()
	holder := catalog.NewStaticHolder(catalog.Build(testDocument(), catalog.BuildOptions{Brands: catalog.DefaultBrands}))

	var cm *cache.CacheManager
	if withCache {
		cm = cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 100, TTL: time.Minute, CleanupInterval: time.Hour})
		t.Cleanup(func() { _ = cm.Close() })
	}

	svc, err := NewService(holder, cabinet.NewMemoryStore(), cm, matching.DefaultOptions(), []string{"ice", "water"})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ids := []string{"cab-1", "cab-2", "cab-3"}
	svc.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}
	return svc
}

func TestService_Readiness(t *testing.T) {
	svc := newTestService(t, false)

	report, err := svc.Readiness(context.Background(), []string{"Tanqueray Gin"}, svc.Options())
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}

	if diff := cmp.Diff([]matching.IngredientID{"gin"}, report.Owned); diff != "" {
		t.Errorf("Owned mismatch (-want +got):\n%s", diff)
	}
	if len(report.Ready) != 0 || len(report.AlmostThere) != 2 || len(report.Far) != 0 {
		t.Fatalf("unexpected tiers: ready=%d almost=%d far=%d", len(report.Ready), len(report.AlmostThere), len(report.Far))
	}
	// ice 是常備食材，martini 只缺 vermouth
	if report.AlmostThere[0].Recipe.Name != "Martini" || report.AlmostThere[0].RequiredTotal != 2 {
		t.Errorf("unexpected first almost-there %+v", report.AlmostThere[0])
	}

	want := []Suggestion{
		{Candidate: matching.Candidate{IngredientID: "vermouth", UnlockScore: 4, UnlocksAtMissing1: 1, UnlocksAtMissing2: 1}, Name: "Sweet Vermouth"},
		{Candidate: matching.Candidate{IngredientID: "campari", UnlockScore: 1, UnlocksAtMissing2: 1}, Name: "Campari"},
	}
	if diff := cmp.Diff(want, report.Suggestions); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
	if report.Cached {
		t.Error("first call should not be cached")
	}
}

func TestService_ReadinessCached(t *testing.T) {
	svc := newTestService(t, true)
	ctx := context.Background()

	first, err := svc.Readiness(ctx, []string{"gin", "vermouth"}, svc.Options())
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	second, err := svc.Readiness(ctx, []string{"vermouth", "Gin"}, svc.Options())
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	if !second.Cached {
		t.Error("expected second call with the same owned set to hit the cache")
	}
	second.Cached = false
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached report differs (-first +second):\n%s", diff)
	}

	other, err := svc.Readiness(ctx, []string{"gin", "vermouth"}, matching.Options{MaxMissing: 0, Limit: 10})
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	if other.Cached {
		t.Error("different options must not share a cache entry")
	}
}

func TestService_Suggestions(t *testing.T) {
	svc := newTestService(t, false)

	got, err := svc.Suggestions(context.Background(), []string{"gin"}, 1)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(got) != 1 || got[0].IngredientID != "vermouth" {
		t.Errorf("unexpected suggestions %+v", got)
	}

	none, err := svc.Suggestions(context.Background(), nil, 5)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no suggestions for empty cabinet, got %+v", none)
	}
}

func TestService_InvalidOptions(t *testing.T) {
	svc := newTestService(t, false)

	_, err := svc.Readiness(context.Background(), []string{"gin"}, matching.Options{MaxMissing: -1})
	if !common.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.Suggestions(context.Background(), []string{"gin"}, -1); !common.IsValidationError(err) {
		t.Errorf("expected validation error for negative limit, got %v", err)
	}
	if _, err := NewService(nil, nil, nil, matching.Options{Limit: -1}, nil); !common.IsValidationError(err) {
		t.Errorf("expected NewService to reject options, got %v", err)
	}
}

func TestService_CatalogNotLoaded(t *testing.T) {
	holder := catalog.NewHolder(nil, catalog.BuildOptions{})
	svc, err := NewService(holder, cabinet.NewMemoryStore(), nil, matching.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	_, err = svc.Readiness(context.Background(), []string{"gin"}, svc.Options())
	ce, ok := common.AsCustomError(err)
	if !ok || ce.Status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 custom error, got %v", err)
	}
	if !errors.Is(err, catalog.ErrNotLoaded) {
		t.Errorf("expected wrapped ErrNotLoaded, got %v", err)
	}
	if err := svc.Ready(context.Background()); err == nil {
		t.Error("expected Ready to fail without catalog")
	}
}

func TestService_CabinetFlow(t *testing.T) {
	svc := newTestService(t, false)
	ctx := context.Background()

	cab, err := svc.CreateCabinet(ctx, []string{"Tanqueray Gin", "Ice"})
	if err != nil {
		t.Fatalf("CreateCabinet: %v", err)
	}
	if cab.ID != "cab-1" {
		t.Errorf("ID = %q, want cab-1", cab.ID)
	}
	if diff := cmp.Diff([]matching.IngredientID{"gin", "ice"}, cab.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}

	if _, err := svc.AddIngredients(ctx, cab.ID, []string{"Sweet Vermouth"}); err != nil {
		t.Fatalf("AddIngredients: %v", err)
	}
	report, err := svc.CabinetReadiness(ctx, cab.ID, svc.Options())
	if err != nil {
		t.Fatalf("CabinetReadiness: %v", err)
	}
	if len(report.Ready) != 1 || report.Ready[0].Recipe.ID != "martini" {
		t.Errorf("expected martini ready, got %+v", report.Ready)
	}

	suggestions, err := svc.CabinetSuggestions(ctx, cab.ID, 5)
	if err != nil {
		t.Fatalf("CabinetSuggestions: %v", err)
	}
	if len(suggestions) != 1 || suggestions[0].IngredientID != "campari" || suggestions[0].UnlockScore != 3 {
		t.Errorf("unexpected suggestions %+v", suggestions)
	}

	cab, err = svc.RemoveIngredients(ctx, cab.ID, []string{"gin"})
	if err != nil {
		t.Fatalf("RemoveIngredients: %v", err)
	}
	if diff := cmp.Diff([]matching.IngredientID{"ice", "vermouth"}, cab.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}

	cab, err = svc.ReplaceCabinet(ctx, cab.ID, []string{"campari"})
	if err != nil {
		t.Fatalf("ReplaceCabinet: %v", err)
	}
	if diff := cmp.Diff([]matching.IngredientID{"campari"}, cab.Ingredients); diff != "" {
		t.Errorf("ingredients mismatch (-want +got):\n%s", diff)
	}

	if err := svc.DeleteCabinet(ctx, cab.ID); err != nil {
		t.Fatalf("DeleteCabinet: %v", err)
	}
	_, err = svc.GetCabinet(ctx, cab.ID)
	ce, ok := common.AsCustomError(err)
	if !ok || ce.Code != "CABINET_NOT_FOUND" || ce.Status != http.StatusNotFound {
		t.Errorf("expected CABINET_NOT_FOUND, got %v", err)
	}
	if !errors.Is(err, cabinet.ErrNotFound) {
		t.Errorf("expected wrapped cabinet.ErrNotFound, got %v", err)
	}
}

func TestService_UnknownCabinet(t *testing.T) {
	svc := newTestService(t, false)
	ctx := context.Background()

	for name, call := range map[string]func() error{
		"readiness": func() error { _, err := svc.CabinetReadiness(ctx, "nope", svc.Options()); return err },
		"replace":   func() error { _, err := svc.ReplaceCabinet(ctx, "nope", []string{"gin"}); return err },
		"add":       func() error { _, err := svc.AddIngredients(ctx, "nope", []string{"gin"}); return err },
		"remove":    func() error { _, err := svc.RemoveIngredients(ctx, "nope", []string{"gin"}); return err },
		"delete":    func() error { return svc.DeleteCabinet(ctx, "nope") },
	} {
		t.Run(name, func(t *testing.T) {
			if err := call(); !errors.Is(err, cabinet.ErrNotFound) {
				t.Errorf("expected not found, got %v", err)
			}
		})
	}
}

type swapSource struct {
	doc *catalog.Document
}

func (s *swapSource) Fetch(ctx context.Context) (*catalog.Document, error) {
	return s.doc, nil
}

func (s *swapSource) String() string {
	return "swap"
}

func TestService_ReloadCatalogPurgesCache(t *testing.T) {
	src := &swapSource{doc: testDocument()}
	holder := catalog.NewHolder(src, catalog.BuildOptions{})
	if _, err := holder.Reload(context.Background()); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	cm := cache.NewManager(config.CacheConfig{Enabled: true, MaxSize: 10, TTL: time.Minute, CleanupInterval: time.Hour})
	defer cm.Close()

	svc, err := NewService(holder, cabinet.NewMemoryStore(), cm, matching.DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	if _, err := svc.Readiness(ctx, []string{"gin"}, svc.Options()); err != nil {
		t.Fatalf("Readiness: %v", err)
	}

	next := testDocument()
	next.Recipes = next.Recipes[:1]
	src.doc = next

	summary, err := svc.ReloadCatalog(ctx)
	if err != nil {
		t.Fatalf("ReloadCatalog: %v", err)
	}
	if summary.Recipes != 1 || summary.Source != "swap" {
		t.Errorf("unexpected summary %+v", summary)
	}
	if cm.GetStats().Size != 0 {
		t.Error("expected cache to be purged after reload")
	}

	report, err := svc.Readiness(ctx, []string{"gin"}, svc.Options())
	if err != nil {
		t.Fatalf("Readiness: %v", err)
	}
	if report.Cached || report.CatalogVersion != summary.Version {
		t.Errorf("expected fresh report for new catalog version, got cached=%v version=%q", report.Cached, report.CatalogVersion)
	}
}

func TestService_CatalogSummary(t *testing.T) {
	svc := newTestService(t, false)
	summary, err := svc.CatalogSummary(context.Background())
	if err != nil {
		t.Fatalf("CatalogSummary: %v", err)
	}
	if summary.Recipes != 2 || summary.Ingredients != 4 || summary.Source != "static" || summary.Version == "" {
		t.Errorf("unexpected summary %+v", summary)
	}
}
