package cabinet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mixwise-api/internal/core/matching"

	"github.com/go-redis/redis/v8"
)

const (
	backendRedis = "redis"
	// maxTxRetries WATCH 的鍵被其他請求修改時的重試次數
	maxTxRetries = 3
)

// RedisStore 以 Redis set 保存酒櫃，另以字串鍵記錄更新時間
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

// RedisOptions Redis 連線設定
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// NewRedisStore 連線 Redis 並創建儲存
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// 測試連接
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, opts.KeyPrefix, opts.TTL), nil
}

// NewRedisStoreWithClient 使用既有的 client 創建儲存
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "mixwise"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *RedisStore) Backend() string {
	return backendRedis
}

// Ping 檢查連線
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) itemsKey(id string) string {
	return fmt.Sprintf("%s:cabinet:%s:items", s.prefix, id)
}

func (s *RedisStore) metaKey(id string) string {
	return fmt.Sprintf("%s:cabinet:%s:updated_at", s.prefix, id)
}

// Get 取得酒櫃
func (s *RedisStore) Get(ctx context.Context, id string) (c *Cabinet, err error) {
	defer func() { record(backendRedis, "get", err) }()
	return s.load(ctx, id)
}

func (s *RedisStore) load(ctx context.Context, id string) (*Cabinet, error) {
	updated, err := s.client.Get(ctx, s.metaKey(id)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cabinet %s: %w", id, err)
	}

	members, err := s.client.SMembers(ctx, s.itemsKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get cabinet %s items: %w", id, err)
	}

	ingredients := make([]matching.IngredientID, 0, len(members))
	for _, m := range members {
		ingredients = append(ingredients, matching.IngredientID(m))
	}
	sortIDs(ingredients)

	updatedAt, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("invalid updated_at for cabinet %s: %w", id, err)
	}
	return &Cabinet{
		ID:          id,
		Ingredients: ingredients,
		UpdatedAt:   updatedAt,
	}, nil
}

// Replace 建立或覆寫酒櫃
func (s *RedisStore) Replace(ctx context.Context, id string, ingredients []matching.IngredientID) (c *Cabinet, err error) {
	defer func() { record(backendRedis, "replace", err) }()

	items := normalize(ingredients)
	now := s.now().UTC()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.itemsKey(id))
		if len(items) > 0 {
			pipe.SAdd(ctx, s.itemsKey(id), toMembers(items)...)
		}
		pipe.Set(ctx, s.metaKey(id), now.Format(time.RFC3339Nano), 0)
		s.expire(ctx, pipe, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to replace cabinet %s: %w", id, err)
	}

	return &Cabinet{ID: id, Ingredients: items, UpdatedAt: now}, nil
}

// Add 加入食材
func (s *RedisStore) Add(ctx context.Context, id string, ingredients ...matching.IngredientID) (c *Cabinet, err error) {
	defer func() { record(backendRedis, "add", err) }()
	return s.mutate(ctx, id, func(pipe redis.Pipeliner, members []interface{}) {
		pipe.SAdd(ctx, s.itemsKey(id), members...)
	}, ingredients)
}

// Remove 移除食材
func (s *RedisStore) Remove(ctx context.Context, id string, ingredients ...matching.IngredientID) (c *Cabinet, err error) {
	defer func() { record(backendRedis, "remove", err) }()
	return s.mutate(ctx, id, func(pipe redis.Pipeliner, members []interface{}) {
		pipe.SRem(ctx, s.itemsKey(id), members...)
	}, ingredients)
}

// mutate 在 WATCH 交易內確認酒櫃存在後才寫入，已刪除的酒櫃不會被重建
func (s *RedisStore) mutate(ctx context.Context, id string, apply func(redis.Pipeliner, []interface{}), ingredients []matching.IngredientID) (*Cabinet, error) {
	items := normalize(ingredients)
	txf := func(tx *redis.Tx) error {
		exists, err := tx.Exists(ctx, s.metaKey(id)).Result()
		if err != nil {
			return fmt.Errorf("failed to check cabinet %s: %w", id, err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(items) > 0 {
				apply(pipe, toMembers(items))
			}
			pipe.Set(ctx, s.metaKey(id), s.now().UTC().Format(time.RFC3339Nano), 0)
			s.expire(ctx, pipe, id)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxTxRetries; i++ {
		err = s.client.Watch(ctx, txf, s.metaKey(id))
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cabinet %s: %w", id, err)
	}
	return s.load(ctx, id)
}

// Delete 刪除酒櫃
func (s *RedisStore) Delete(ctx context.Context, id string) (err error) {
	defer func() { record(backendRedis, "delete", err) }()

	deleted, err := s.client.Del(ctx, s.metaKey(id), s.itemsKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete cabinet %s: %w", id, err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) expire(ctx context.Context, pipe redis.Pipeliner, id string) {
	if s.ttl <= 0 {
		return
	}
	pipe.Expire(ctx, s.metaKey(id), s.ttl)
	pipe.Expire(ctx, s.itemsKey(id), s.ttl)
}

func toMembers(ids []matching.IngredientID) []interface{} {
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = string(id)
	}
	return members
}
