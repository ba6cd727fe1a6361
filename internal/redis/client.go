package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client caches operational settings in front of the settings table.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func Initialize(redisURL string, ttlSeconds int) (*Client, error) {
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

	return &Client{rdb: rdb, ttl: time.Duration(ttlSeconds) * time.Second}, nil
}

func (c *Client) GetSetting(key string) (string, bool) {
	ctx := context.Background()
	val, err := c.rdb.Get(ctx, "setting:"+key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Client) SetSetting(key, value string) error {
	ctx := context.Background()
	return c.rdb.Set(ctx, "setting:"+key, value, c.ttl).Err()
}

func (c *Client) DeleteSetting(key string) error {
	ctx := context.Background()
	return c.rdb.Del(ctx, "setting:"+key).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
