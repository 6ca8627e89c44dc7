package cabinet

import (
	"context"
	"sync"
	"time"

	"mixwise-api/internal/core/matching"
)

const backendMemory = "memory"

// MemoryStore 行程內的酒櫃儲存
type MemoryStore struct {
	mu       sync.RWMutex
	cabinets map[string]*memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	owned     matching.IDSet
	updatedAt time.Time
}

// NewMemoryStore 創建記憶體儲存
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cabinets: make(map[string]*memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Backend() string {
	return backendMemory
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Get 取得酒櫃
func (s *MemoryStore) Get(ctx context.Context, id string) (*Cabinet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.cabinets[id]
	if !ok {
		record(backendMemory, "get", ErrNotFound)
		return nil, ErrNotFound
	}
	record(backendMemory, "get", nil)
	return entry.snapshot(id), nil
}

// Replace 建立或覆寫酒櫃
func (s *MemoryStore) Replace(ctx context.Context, id string, ingredients []matching.IngredientID) (*Cabinet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &memoryEntry{
		owned:     matching.NewIDSet(ingredients...),
		updatedAt: s.now(),
	}
	s.cabinets[id] = entry
	record(backendMemory, "replace", nil)
	return entry.snapshot(id), nil
}

// Add 加入食材
func (s *MemoryStore) Add(ctx context.Context, id string, ingredients ...matching.IngredientID) (*Cabinet, error) {
	return s.update(id, "add", func(owned matching.IDSet) {
		for _, ing := range ingredients {
			if ing != "" {
				owned[ing] = struct{}{}
			}
		}
	})
}

// Remove 移除食材
func (s *MemoryStore) Remove(ctx context.Context, id string, ingredients ...matching.IngredientID) (*Cabinet, error) {
	return s.update(id, "remove", func(owned matching.IDSet) {
		for _, ing := range ingredients {
			delete(owned, ing)
		}
	})
}

func (s *MemoryStore) update(id, operation string, fn func(matching.IDSet)) (*Cabinet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.cabinets[id]
	if !ok {
		record(backendMemory, operation, ErrNotFound)
		return nil, ErrNotFound
	}
	fn(entry.owned)
	entry.updatedAt = s.now()
	record(backendMemory, operation, nil)
	return entry.snapshot(id), nil
}

// Delete 刪除酒櫃
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cabinets[id]; !ok {
		record(backendMemory, "delete", ErrNotFound)
		return ErrNotFound
	}
	delete(s.cabinets, id)
	record(backendMemory, "delete", nil)
	return nil
}

func (e *memoryEntry) snapshot(id string) *Cabinet {
	return &Cabinet{
		ID:          id,
		Ingredients: e.owned.Sorted(),
		UpdatedAt:   e.updatedAt,
	}
}
