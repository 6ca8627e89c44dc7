package cabinet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mixwise-api/internal/core/matching"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/go-cmp/cmp"
)

func newMiniRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStoreWithClient(client, "test", ttl), mr
}

func TestRedisStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, _ := newMiniRedisStore(t, 0)
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	if _, err := s.Get(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	c, err := s.Replace(ctx, "c1", []matching.IngredientID{"lime", "gin", "", "gin"})
	if err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := &Cabinet{ID: "c1", Ingredients: []matching.IngredientID{"gin", "lime"}, UpdatedAt: fixed}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("Replace mismatch (-want +got):\n%s", diff)
	}

	c, err = s.Add(ctx, "c1", "vermouth", "gin")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if diff := cmp.Diff([]matching.IngredientID{"gin", "lime", "vermouth"}, c.Ingredients); diff != "" {
		t.Errorf("Add mismatch (-want +got):\n%s", diff)
	}

	c, err = s.Remove(ctx, "c1", "lime", "not-there")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]matching.IngredientID{"gin", "vermouth"}, c.Ingredients); diff != "" {
		t.Errorf("Remove mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	want = &Cabinet{ID: "c1", Ingredients: []matching.IngredientID{"gin", "vermouth"}, UpdatedAt: fixed}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	if err := s.Delete(ctx, "c1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRedisStore_UnknownCabinet(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniRedisStore(t, 0)

	if _, err := s.Add(ctx, "missing", "gin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Add: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Remove(ctx, "missing", "gin"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove: expected ErrNotFound, got %v", err)
	}
	if mr.Exists(s.metaKey("missing")) || mr.Exists(s.itemsKey("missing")) {
		t.Error("mutation on unknown cabinet created keys")
	}
}

func TestRedisStore_EmptyCabinetExists(t *testing.T) {
	ctx := context.Background()
	s, _ := newMiniRedisStore(t, 0)

	if _, err := s.Replace(ctx, "empty", []matching.IngredientID{"gin"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if _, err := s.Remove(ctx, "empty", "gin"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	c, err := s.Get(ctx, "empty")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if c.Ingredients == nil || len(c.Ingredients) != 0 {
		t.Errorf("expected empty non-nil ingredients, got %#v", c.Ingredients)
	}
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniRedisStore(t, time.Hour)

	if _, err := s.Replace(ctx, "c1", []matching.IngredientID{"gin"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if ttl := mr.TTL(s.itemsKey("c1")); ttl != time.Hour {
		t.Errorf("items ttl = %v, want 1h", ttl)
	}

	mr.FastForward(2 * time.Hour)
	if _, err := s.Get(ctx, "c1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected expired cabinet to be gone, got %v", err)
	}
}

func TestRedisStore_CorruptUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniRedisStore(t, 0)

	if err := mr.Set(s.metaKey("c1"), "yesterday"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	_, err := s.Get(ctx, "c1")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestRedisStore_DeleteWinsOverConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	s, mr := newMiniRedisStore(t, 0)

	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("c%d", i)
		if _, err := s.Replace(ctx, id, []matching.IngredientID{"gin"}); err != nil {
			t.Fatalf("Replace: %v", err)
		}

		var wg sync.WaitGroup
		var addErr, delErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, addErr = s.Add(ctx, id, "rum")
		}()
		go func() {
			defer wg.Done()
			delErr = s.Delete(ctx, id)
		}()
		wg.Wait()

		if delErr != nil {
			t.Fatalf("%s: Delete: %v", id, delErr)
		}
		if addErr != nil && !errors.Is(addErr, ErrNotFound) {
			t.Fatalf("%s: Add: %v", id, addErr)
		}
		if mr.Exists(s.metaKey(id)) || mr.Exists(s.itemsKey(id)) {
			t.Fatalf("%s: deleted cabinet was recreated", id)
		}
	}
}
