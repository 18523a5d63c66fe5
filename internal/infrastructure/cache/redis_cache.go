package cache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisReportCache is a Redis-backed ReportCache.
type RedisReportCache struct {
	client *redis.Client
}

// NewRedisReportCache connects a report cache to the given Redis instance.
func NewRedisReportCache(addr, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if len(payload) == 0 {
		return nil
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}
