package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

// Cache is a thin JSON cache over redis used for the dashboard aggregation
// view. The backend stays optional: callers hold a nil *Cache when REDIS_ADDR
// is unset and skip caching entirely.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewCache(ctx context.Context, addr, password string, db int, ttl time.Duration, baseLog *logger.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		client: client,
		ttl:    ttl,
		log:    baseLog.With("client", "RedisCache"),
	}, nil
}

// GetJSON reports found=false on a miss; unmarshal failures are treated as a
// miss and the stale key is dropped.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("dropping unreadable cache entry", "key", key, "error", err)
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
