package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

const (
	outboxKey            = "outbox:writes"
	lowStockThresholdKey = "settings:low_stock_threshold"
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

// Pending write queue

func (c *Client) PushPending(ctx context.Context, entries ...[]byte) error {
	if len(entries) == 0 {
		return nil
	}
	values := make([]interface{}, len(entries))
	for i, e := range entries {
		values[i] = e
	}
	if err := c.rdb.RPush(ctx, outboxKey, values...).Err(); err != nil {
		return fmt.Errorf("failed to queue pending write: %w", err)
	}
	return nil
}

// PopAllPending removes and returns every queued write, oldest first.
func (c *Client) PopAllPending(ctx context.Context) ([][]byte, error) {
	var out [][]byte
	for {
		val, err := c.rdb.LPop(ctx, outboxKey).Bytes()
		if err == redis.Nil {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("failed to pop pending write: %w", err)
		}
		out = append(out, val)
	}
}

func (c *Client) PendingCount(ctx context.Context) (int, error) {
	n, err := c.rdb.LLen(ctx, outboxKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count pending writes: %w", err)
	}
	return int(n), nil
}

// Settings

func (c *Client) GetLowStockThreshold(ctx context.Context) (int, bool, error) {
	val, err := c.rdb.Get(ctx, lowStockThresholdKey).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get low stock threshold: %w", err)
	}
	n, err := cast.ToIntE(val)
	if err != nil {
		return 0, false, fmt.Errorf("invalid low stock threshold %q: %w", val, err)
	}
	return n, true, nil
}

func (c *Client) SetLowStockThreshold(ctx context.Context, threshold int) error {
	return c.rdb.Set(ctx, lowStockThresholdKey, threshold, 0).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
