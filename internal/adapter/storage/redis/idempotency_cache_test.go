package redis_test

import (
	"context"
	"testing"
	"time"

	"mobile-wallet-service/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyCache_SetAndGet(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := redis.NewIdempotencyCache(client)
	ctx := context.Background()

	key := "POST:/transactions/cash-out:retry-42"
	value := []byte(`{"status":200,"body":{"message":"ok"}}`)

	// Get before set returns nil, nil.
	result, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, result)

	require.NoError(t, cache.Set(ctx, key, value, 24*time.Hour))

	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestIdempotencyCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cache := redis.NewIdempotencyCache(client)
	ctx := context.Background()

	key := "POST:/transactions/send-money:retry-7"
	require.NoError(t, cache.Set(ctx, key, []byte("cached"), time.Second))

	mr.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}
