package redis_test

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/swapwallet/internal/infra/redis"
	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

// setupTestCache creates an attempt cache on a separate Redis DB
func setupTestCache(t *testing.T, ttl time.Duration) (*redis.AttemptCache, *goredis.Client) {
	client := goredis.NewClient(&goredis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Skipping test: Redis not available")
	}
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test database: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	return redis.NewAttemptCache(client, ttl, logger.NewNop()), client
}

func TestAttemptCache_SetAndGet(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	ctx := context.Background()

	err := c.Set(ctx, tracker.CachedAttempt{
		SwapID:    "swap-1",
		NetworkID: "arbitrum",
		Hash:      "0xabc",
	})
	require.NoError(t, err)

	got, err := c.Get(ctx, "swap-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "arbitrum", got.NetworkID)
	assert.Equal(t, "0xabc", got.Hash)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestAttemptCache_Miss(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)

	got, err := c.Get(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttemptCache_Overwrite(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, tracker.CachedAttempt{SwapID: "swap-2", NetworkID: "base", Hash: "0x01"}))
	require.NoError(t, c.Set(ctx, tracker.CachedAttempt{SwapID: "swap-2", NetworkID: "base", Hash: "0x02"}))

	got, err := c.Get(ctx, "swap-2")
	require.NoError(t, err)
	assert.Equal(t, "0x02", got.Hash)
}

func TestAttemptCache_KeyAndTTL(t *testing.T) {
	c, client := setupTestCache(t, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, tracker.CachedAttempt{SwapID: "swap-3", NetworkID: "base", Hash: "0x03"}))

	ttl, err := client.TTL(ctx, redis.KeyPrefix+"swap-3").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 9*time.Minute)
	assert.LessOrEqual(t, ttl, 10*time.Minute)
}

func TestAttemptCache_CorruptEntry(t *testing.T) {
	c, client := setupTestCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, redis.KeyPrefix+"swap-4", "not json", time.Hour).Err())

	_, err := c.Get(ctx, "swap-4")
	assert.Error(t, err)
}
