package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-crawler/internal/cache"

	"github.com/go-redis/redis/v8"
)

// Client is a Redis-backed response cache namespaced by crawl run.
// Processes started with the same run id share responses.
type Client struct {
	rdb   *redis.Client
	runID string
	ttl   time.Duration
}

var _ cache.Cache = (*Client)(nil)

// NewClient creates a new Redis client for the given run
func NewClient(addr, password string, db int, runID string, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return newClient(rdb, runID, ttl), nil
}

func newClient(rdb *redis.Client, runID string, ttl time.Duration) *Client {
	return &Client{rdb: rdb, runID: runID, ttl: ttl}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func (c *Client) prefix() string {
	return fmt.Sprintf("gpa:run:%s:", c.runID)
}

func (c *Client) key(url string) string {
	return c.prefix() + url
}

// Get retrieves a cached response body
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	value, err := c.rdb.Get(ctx, c.key(url)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return value, nil
}

// Set stores a response body. The TTL only guards against runs that
// never reach Clear; it is longer than any run.
func (c *Client) Set(ctx context.Context, url string, value []byte) error {
	if err := c.rdb.Set(ctx, c.key(url), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Clear deletes every key of the run
func (c *Client) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, c.prefix()+"*", 100).Iterator()

	keys := make([]string, 0, 100)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == cap(keys) {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del failed: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan failed: %w", err)
	}

	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del failed: %w", err)
		}
	}
	return nil
}
