package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps the resolved IP in a single redis key
type RedisCache struct {
	client redis.UniversalClient
	cfg    Config
}

// NewRedis connects to redis and verifies the connection
func NewRedis(ctx context.Context, cfg Config) (*RedisCache, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is empty")
	}
	cfg.SetDefaults()

	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		DialTimeout:  cfg.DialTimeout,
		PoolSize:     4,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis connect error: %w", err)
	}

	return NewRedisWithClient(rc, cfg), nil
}

// NewRedisWithClient wraps an existing client
func NewRedisWithClient(client redis.UniversalClient, cfg Config) *RedisCache {
	cfg.SetDefaults()
	return &RedisCache{client: client, cfg: cfg}
}

// Get implements Cache
func (r *RedisCache) Get(ctx context.Context) (string, bool, error) {
	ip, err := r.client.Get(ctx, r.cfg.Key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return ip, true, nil
}

// Set implements Cache
func (r *RedisCache) Set(ctx context.Context, ip string) error {
	if err := r.client.Set(ctx, r.cfg.Key, ip, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close implements Cache
func (r *RedisCache) Close() error {
	return r.client.Close()
}
