package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, cfg Config) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisWithClient(rc, cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewRedisDisabled(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewRedisRequiresAddr(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{Enabled: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "address")
}

func TestNewRedisUnreachable(t *testing.T) {
	_, err := NewRedis(context.Background(), Config{
		Enabled:     true,
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}

func TestSetDefaults(t *testing.T) {
	var c Config
	c.SetDefaults()
	assert.Equal(t, "ecoip:public_ip", c.Key)
	assert.Equal(t, 10*time.Minute, c.TTL)

	c = Config{Key: "custom", TTL: time.Second}
	c.SetDefaults()
	assert.Equal(t, "custom", c.Key)
	assert.Equal(t, time.Second, c.TTL)
}

func TestRedisCacheMiss(t *testing.T) {
	c, _ := newTestCache(t, Config{})

	ip, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, ip)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, Config{TTL: time.Minute})

	require.NoError(t, c.Set(ctx, "203.0.113.7"))

	ip, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "203.0.113.7", ip)

	got, err := mr.Get("ecoip:public_ip")
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got)
	assert.Equal(t, time.Minute, mr.TTL("ecoip:public_ip"))

	mr.FastForward(time.Minute + time.Second)
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheCustomKey(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, Config{Key: "custom:ip"})

	require.NoError(t, c.Set(ctx, "2001:db8::1"))
	assert.True(t, mr.Exists("custom:ip"))
	assert.False(t, mr.Exists("ecoip:public_ip"))
}

func TestRedisCacheServerError(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, Config{})
	require.NoError(t, c.Set(ctx, "203.0.113.7"))

	mr.SetError("LOADING server is loading")
	_, ok, err := c.Get(ctx)
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, "203.0.113.7"))
}

func TestNewRedisConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedis(context.Background(), Config{Enabled: true, Addr: mr.Addr()})
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	require.NoError(t, c.Set(context.Background(), "198.51.100.9"))
	ip, ok, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "198.51.100.9", ip)
}
