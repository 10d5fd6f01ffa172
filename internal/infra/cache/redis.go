package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds redis connection configuration.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// RedisCache implements SharedCache on top of redis.
type RedisCache struct {
	rdb *redis.Client
}

func snapshotKey(key string) string {
	return fmt.Sprintf("storefront:cache:%s", key)
}

// NewRedisCache connects to redis and verifies the connection.
func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{rdb: rdb}, nil
}

// Get reads a cached snapshot. ok is false on a miss.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, snapshotKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get failed: %w", err)
	}
	return val, true, nil
}

// Set writes a snapshot with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, snapshotKey(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}

// Delete removes a snapshot.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, snapshotKey(key)).Err()
}

// Ping checks connectivity, used by the health server.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the redis connection.
func (c *RedisCache) Close() error {
	return c.rdb.Close()
}
