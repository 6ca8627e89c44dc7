package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"mixwise-api/internal/infrastructure/config"
	"mixwise-api/internal/pkg/common"
)

func newTestManager(t *testing.T, maxSize int, ttl time.Duration) (*CacheManager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             ttl,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { _ = m.Close() })

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManager_SetGet(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 10, time.Minute)

	if _, err := m.Get(ctx, "missing"); !errors.Is(err, common.ErrCacheMiss) {
		t.Fatalf("expected ErrCacheMiss, got %v", err)
	}
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "v" {
		t.Errorf("Get = %q, want v", got)
	}

	stats := m.GetStats()
	if stats.Hits != 1 || stats.Misses != 1 || stats.Size != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.HitRatio != 0.5 {
		t.Errorf("HitRatio = %v, want 0.5", stats.HitRatio)
	}
}

func TestManager_Expiry(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(t, 10, time.Minute)

	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	*now = now.Add(2 * time.Minute)

	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("expected expired entry to miss, got %v", err)
	}
	if stats := m.GetStats(); stats.Size != 0 || stats.Evictions != 1 {
		t.Errorf("unexpected stats after expiry %+v", stats)
	}
}

func TestManager_EvictsLeastUsed(t *testing.T) {
	ctx := context.Background()
	m, now := newTestManager(t, 2, time.Hour)

	_ = m.Set(ctx, "a", "1")
	*now = now.Add(time.Second)
	_ = m.Set(ctx, "b", "2")

	// a 被讀取過，b 應先被淘汰
	if _, err := m.Get(ctx, "a"); err != nil {
		t.Fatalf("Get a: %v", err)
	}
	*now = now.Add(time.Second)
	if err := m.Set(ctx, "c", "3"); err != nil {
		t.Fatalf("Set c: %v", err)
	}

	if _, err := m.Get(ctx, "b"); !errors.Is(err, common.ErrCacheMiss) {
		t.Errorf("expected b to be evicted, got %v", err)
	}
	for _, k := range []string{"a", "c"} {
		if _, err := m.Get(ctx, k); err != nil {
			t.Errorf("expected %s to remain, got %v", k, err)
		}
	}
}

func TestManager_OverwriteAtCapacity(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 1, time.Hour)

	_ = m.Set(ctx, "a", "1")
	if err := m.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got, _ := m.Get(ctx, "a"); got != "2" {
		t.Errorf("Get = %q, want 2", got)
	}
}

func TestManager_Purge(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, 10, time.Hour)
	_ = m.Set(ctx, "a", "1")
	_ = m.Set(ctx, "b", "2")

	if n := m.Purge(); n != 2 {
		t.Errorf("Purge = %d, want 2", n)
	}
	if m.GetStats().Size != 0 {
		t.Error("expected empty cache after purge")
	}
}

func TestManager_Disabled(t *testing.T) {
	m := NewManager(config.CacheConfig{Enabled: false})
	if m != nil {
		t.Fatal("expected nil manager when disabled")
	}

	ctx := context.Background()
	if err := m.Set(ctx, "k", "v"); err != nil {
		t.Errorf("Set on disabled cache: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, common.ErrCacheDisabled) {
		t.Errorf("expected ErrCacheDisabled, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestKey(t *testing.T) {
	if Key("a", "bc") == Key("ab", "c") {
		t.Error("keys with different part boundaries collide")
	}
	if Key("x", "y") != Key("x", "y") {
		t.Error("Key is not deterministic")
	}
}
