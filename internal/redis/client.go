package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	sweepGateKey     = "archive:sweep_gate"
	settingKeyPrefix = "setting:"
	settingCacheTTL  = 5 * time.Minute
)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// TryAcquire implements the auto-archive sweep gate: SETNX with the
// cooldown as TTL, so across all processes at most one caller wins per
// window. The key expiring is what re-arms the sweep.
func (c *Client) TryAcquire(ctx context.Context, window time.Duration) (bool, error) {
	acquired, err := c.rdb.SetNX(ctx, sweepGateKey, time.Now().Format(time.RFC3339), window).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sweep gate: %w", err)
	}
	return acquired, nil
}

// Schedule settings cache. Misses are reported, not treated as errors —
// the caller falls through to the database.

func (c *Client) GetFloat(key string) (float64, bool) {
	ctx := context.Background()
	value, err := c.rdb.Get(ctx, settingKeyPrefix+key).Float64()
	if err != nil {
		return 0, false
	}
	return value, true
}

func (c *Client) SetFloat(key string, value float64) {
	ctx := context.Background()
	c.rdb.Set(ctx, settingKeyPrefix+key, value, settingCacheTTL)
}

func (c *Client) Invalidate(key string) {
	ctx := context.Background()
	c.rdb.Del(ctx, settingKeyPrefix+key)
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
