package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/pkg/errors"
)

// Config holds the configuration of the in-memory cache.
type Config struct {
	DefaultTTL time.Duration // TTL applied by Set; zero keeps entries until evicted
	MaxItems   int           // Upper bound on stored entries
}

// Cache is a bounded, TTL'd in-memory cache. Writes are visible to the next
// read on return.
type Cache struct {
	store  *ristretto.Cache[string, any]
	config Config
}

// New creates a new in-memory cache.
func New(config Config) (*Cache, error) {
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}

	store, err := ristretto.NewCache(&ristretto.Config[string, any]{
		NumCounters:        int64(config.MaxItems) * 10,
		MaxCost:            int64(config.MaxItems),
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create memory cache")
	}
	return &Cache{store: store, config: config}, nil
}

// Get returns the value stored under key.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) bool {
	return c.SetWithTTL(ctx, key, value, c.config.DefaultTTL)
}

// SetWithTTL stores value with a custom TTL. It reports false when the
// entry was not admitted.
func (c *Cache) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) bool {
	if ttl < 0 {
		ttl = 0
	}
	ok := c.store.SetWithTTL(key, value, 1, ttl)
	c.store.Wait()
	return ok
}

// Delete removes key.
func (c *Cache) Delete(_ context.Context, key string) {
	c.store.Del(key)
}

// Close releases the cache's background workers.
func (c *Cache) Close() error {
	c.store.Close()
	return nil
}
