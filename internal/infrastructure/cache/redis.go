package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wbfinder/backend/internal/domain"
)

const redisKeyPrefix = "product:"

// Redis is a product cache backed by a Redis instance, for deployments that
// share the cache across several bot replicas.
type Redis struct {
	client *redis.Client
}

// NewRedis connects to Redis using a redis:// URL and verifies the
// connection with a ping.
func NewRedis(redisURL string) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Redis{client: client}, nil
}

// Get retrieves a product record by article.
func (c *Redis) Get(ctx context.Context, article string) (*domain.ProductRecord, error) {
	data, err := c.client.Get(ctx, redisKeyPrefix+article).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var record domain.ProductRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("redis decode: %w", err)
	}
	return &record, nil
}

// Set stores a product record with the given TTL.
func (c *Redis) Set(ctx context.Context, article string, record *domain.ProductRecord, ttl time.Duration) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("redis encode: %w", err)
	}
	if err := c.client.Set(ctx, redisKeyPrefix+article, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes an article from the cache.
func (c *Redis) Delete(ctx context.Context, article string) error {
	if err := c.client.Del(ctx, redisKeyPrefix+article).Err(); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
