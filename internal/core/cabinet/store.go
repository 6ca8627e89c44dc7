// Package cabinet 保存使用者酒櫃中的食材，供就緒分析讀取持有集合。
package cabinet

import (
	"context"
	"errors"
	"sort"
	"time"

	"mixwise-api/internal/core/matching"
	"mixwise-api/internal/metrics"
)

// ErrNotFound 酒櫃不存在
var ErrNotFound = errors.New("cabinet not found")

// Cabinet 酒櫃內容
type Cabinet struct {
	ID          string                  `json:"id"`
	Ingredients []matching.IngredientID `json:"ingredients"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// Owned 酒櫃食材集合
func (c *Cabinet) Owned() matching.IDSet {
	return matching.NewIDSet(c.Ingredients...)
}

// Store 酒櫃儲存介面
type Store interface {
	// Get 取得酒櫃，不存在時回傳 ErrNotFound
	Get(ctx context.Context, id string) (*Cabinet, error)
	// Replace 建立或覆寫酒櫃內容
	Replace(ctx context.Context, id string, ingredients []matching.IngredientID) (*Cabinet, error)
	// Add 加入食材，已存在的食材忽略
	Add(ctx context.Context, id string, ingredients ...matching.IngredientID) (*Cabinet, error)
	// Remove 移除食材，不存在的食材忽略
	Remove(ctx context.Context, id string, ingredients ...matching.IngredientID) (*Cabinet, error)
	// Delete 刪除酒櫃
	Delete(ctx context.Context, id string) error
	// Ping 檢查儲存是否可用
	Ping(ctx context.Context) error
	// Backend 儲存後端名稱
	Backend() string
}

// normalize 去除空值與重複並排序
func normalize(ids []matching.IngredientID) []matching.IngredientID {
	return matching.NewIDSet(ids...).Sorted()
}

func record(backend, operation string, err error) {
	if errors.Is(err, ErrNotFound) {
		err = nil
	}
	metrics.RecordCabinetOperation(backend, operation, err)
}

func sortIDs(ids []matching.IngredientID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
