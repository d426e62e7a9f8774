package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/flashdeck/pkg/models"
)

// SummaryCache stores user progress summaries between recomputes
type SummaryCache interface {
	// Get returns the cached summary, or nil without error on a miss
	Get(ctx context.Context, userID int64) (*models.UserProgressSummary, error)
	Set(ctx context.Context, summary *models.UserProgressSummary) error
	Invalidate(ctx context.Context, userID int64) error
}

// Key returns the redis key for a user's summary
func Key(userID int64) string {
	return fmt.Sprintf("flashdeck:progress:%d", userID)
}

// RedisCache keeps summaries as JSON strings with a TTL
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and pings it once
func NewRedisCache(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCache{client: client, ttl: ttl}, nil
}

func (c *RedisCache) Get(ctx context.Context, userID int64) (*models.UserProgressSummary, error) {
	raw, err := c.client.Get(ctx, Key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached summary: %w", err)
	}
	var summary models.UserProgressSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// A corrupt entry is treated as a miss and dropped
		_ = c.client.Del(ctx, Key(userID)).Err()
		return nil, nil
	}
	return &summary, nil
}

func (c *RedisCache) Set(ctx context.Context, summary *models.UserProgressSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := c.client.Set(ctx, Key(summary.UserID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summary: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, Key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summary: %w", err)
	}
	return nil
}

// Close releases the redis connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Nop never caches anything
type Nop struct{}

func (Nop) Get(context.Context, int64) (*models.UserProgressSummary, error) { return nil, nil }
func (Nop) Set(context.Context, *models.UserProgressSummary) error         { return nil }
func (Nop) Invalidate(context.Context, int64) error                        { return nil }
