package cache

import (
	"context"
	"sync"
	"time"

	"github.com/wbfinder/backend/internal/domain"
)

// entry is a single cached product with its expiration
type entry struct {
	record    domain.ProductRecord
	expiresAt time.Time
}

// Memory is a thread-safe in-memory product cache with TTL support.
type Memory struct {
	mu   sync.RWMutex
	data map[string]entry
}

// NewMemory creates a new in-memory cache and starts its cleanup loop.
func NewMemory() *Memory {
	c := &Memory{
		data: make(map[string]entry),
	}

	// Remove expired entries every 10 minutes
	go c.cleanupExpired()

	return c
}

// Get retrieves a product record by article. Expired entries count as a miss.
func (c *Memory) Get(ctx context.Context, article string) (*domain.ProductRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.data[article]
	if !exists || time.Now().After(item.expiresAt) {
		return nil, domain.ErrCacheMiss
	}

	record := item.record
	return &record, nil
}

// Set stores a product record with the given TTL. The record is copied, so
// callers may mutate theirs afterwards.
func (c *Memory) Set(ctx context.Context, article string, record *domain.ProductRecord, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[article] = entry{
		record:    *record,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes an article from the cache.
func (c *Memory) Delete(ctx context.Context, article string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, article)
	return nil
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *Memory) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

func (c *Memory) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for article, item := range c.data {
			if now.After(item.expiresAt) {
				delete(c.data, article)
			}
		}
		c.mu.Unlock()
	}
}
