package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/swapwallet/internal/platform/tracker"
	"github.com/kislikjeka/swapwallet/pkg/logger"
)

const (
	// DefaultTTL keeps a broadcast hash long enough to outlive any confirmation wait
	DefaultTTL = 7 * 24 * time.Hour

	// KeyPrefix is the prefix for attempt cache keys
	KeyPrefix = "swap_tx:"
)

// AttemptCache stores the hash broadcast for each swap so a restarted
// session resumes confirmation instead of sending again.
type AttemptCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logger.Logger
}

var _ tracker.AttemptCache = (*AttemptCache)(nil)

// NewAttemptCache creates a new attempt cache. A non-positive ttl uses DefaultTTL.
func NewAttemptCache(client *redis.Client, ttl time.Duration, log *logger.Logger) *AttemptCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &AttemptCache{
		client: client,
		ttl:    ttl,
		logger: log.WithField("component", "attempt_cache"),
	}
}

func key(swapID string) string {
	return KeyPrefix + swapID
}

// Get returns the stored attempt for a swap, or nil when there is none
func (c *AttemptCache) Get(ctx context.Context, swapID string) (*tracker.CachedAttempt, error) {
	val, err := c.client.Get(ctx, key(swapID)).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "swap_id", swapID)
		return nil, nil
	}
	if err != nil {
		c.logger.Error("cache error", "operation", "get", "swap_id", swapID, "error", err)
		return nil, fmt.Errorf("failed to get cached attempt: %w", err)
	}

	var cached tracker.CachedAttempt
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached attempt: %w", err)
	}
	if cached.Hash == "" {
		return nil, nil
	}

	c.logger.Debug("cache hit", "swap_id", swapID, "hash", cached.Hash)
	return &cached, nil
}

// Set stores the attempt, replacing any earlier hash for the same swap
func (c *AttemptCache) Set(ctx context.Context, attempt tracker.CachedAttempt) error {
	if attempt.UpdatedAt.IsZero() {
		attempt.UpdatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("failed to marshal attempt: %w", err)
	}

	if err := c.client.Set(ctx, key(attempt.SwapID), data, c.ttl).Err(); err != nil {
		c.logger.Error("cache error", "operation", "set", "swap_id", attempt.SwapID, "error", err)
		return fmt.Errorf("failed to set cached attempt: %w", err)
	}

	return nil
}
