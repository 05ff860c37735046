package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// pendingMarker holds an idempotency key while its request is in flight
const pendingMarker = "pending"

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and checks the connection
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}

// claimAttempts bounds retries when a key vanishes between SETNX and GET
const claimAttempts = 3

// BeginIdempotent claims key for a new request. It returns started=true when
// the claim succeeded. Otherwise stored holds the response recorded by an
// earlier request, or is nil when that request has not finished yet
func (c *Client) BeginIdempotent(ctx context.Context, key string, ttl time.Duration) (stored []byte, started bool, err error) {
	k := idempotencyKey(key)

	for attempt := 0; attempt < claimAttempts; attempt++ {
		claimed, err := c.rdb.SetNX(ctx, k, pendingMarker, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("claiming idempotency key: %w", err)
		}
		if claimed {
			return nil, true, nil
		}

		value, err := c.rdb.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			// expired or released since SETNX, claim again
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("reading idempotency key: %w", err)
		}
		if string(value) == pendingMarker {
			return nil, false, nil
		}
		return value, false, nil
	}

	return nil, false, fmt.Errorf("claiming idempotency key %q: gave up after %d attempts", key, claimAttempts)
}

// CompleteIdempotent records the response for a claimed key
func (c *Client) CompleteIdempotent(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, idempotencyKey(key), response, ttl).Err()
}

// ReleaseIdempotent drops a claim so the request can be retried
func (c *Client) ReleaseIdempotent(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, idempotencyKey(key)).Err()
}
