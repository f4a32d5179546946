package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mohammedadiga/newRoodxServer/internal/config"
	domainErrors "github.com/mohammedadiga/newRoodxServer/internal/domain/errors"
)

// Client wraps the redis connection behind the interfaces.Cache capability.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to redis and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// SetEx stores value under key with the given TTL.
func (c *Client) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	return c.rdb.SetEX(ctx, key, value, ttl).Err()
}

// Get fetches a key; a missing or expired key maps to ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", domainErrors.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// Del removes a key. Deleting a missing key is not an error.
func (c *Client) Del(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, key).Err()
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
