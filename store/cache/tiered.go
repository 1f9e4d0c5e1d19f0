// Package cache memoizes built time dimensions. A bounded in-memory tier
// (L1) sits in front of an optional persistent tier (L2); misses on both
// fall through to the caller's fetcher.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/hrygo/timedim/plugin/temporal/dimension"
)

// Fetcher builds the dimension for a key on a cache miss.
type Fetcher func(ctx context.Context) (dimension.TimeDimension, error)

// TieredConfig holds the configuration for the tiered cache.
type TieredConfig struct {
	L1MaxItems int           // Max items in the memory tier
	L1TTL      time.Duration // TTL for memory entries
	L2TTL      time.Duration // TTL for persistent entries
	L2         Store         // Persistent tier, nil when disabled
}

// DefaultTieredConfig returns the default configuration: memory only.
func DefaultTieredConfig() *TieredConfig {
	return &TieredConfig{
		L1MaxItems: 1000,
		L1TTL:      30 * time.Minute,
		L2TTL:      24 * time.Hour,
	}
}

// Stats are the cache counters.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	L2Hits int64 `json:"l2_hits"`
}

// DimensionCache memoizes TimeDimension values. Concurrent misses on one key
// share a single fetch, and failed fetches are never stored.
type DimensionCache struct {
	l1     *Cache
	l2     Store
	l2TTL  time.Duration
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
	l2Hits atomic.Int64
}

// NewDimensionCache creates a new tiered dimension cache.
func NewDimensionCache(config *TieredConfig) (*DimensionCache, error) {
	if config == nil {
		config = DefaultTieredConfig()
	}

	l1, err := New(Config{DefaultTTL: config.L1TTL, MaxItems: config.L1MaxItems})
	if err != nil {
		return nil, err
	}
	return &DimensionCache{l1: l1, l2: config.L2, l2TTL: config.L2TTL}, nil
}

// Get returns the dimension cached under key, calling fetcher on a miss.
func (c *DimensionCache) Get(ctx context.Context, key string, fetcher Fetcher) (dimension.TimeDimension, error) {
	if dim, ok := c.lookupL1(ctx, key); ok {
		c.hits.Add(1)
		return dim, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		if dim, ok := c.lookupL1(ctx, key); ok {
			c.hits.Add(1)
			return dim, nil
		}
		if dim, ok := c.lookupL2(ctx, key); ok {
			c.l2Hits.Add(1)
			c.l1.Set(ctx, key, dim)
			return dim, nil
		}

		c.misses.Add(1)
		dim, err := fetcher(ctx)
		if err != nil {
			return nil, err
		}
		c.l1.Set(ctx, key, dim)
		c.storeL2(ctx, key, dim)
		return dim, nil
	})
	if err != nil {
		return dimension.TimeDimension{}, err
	}
	return v.(dimension.TimeDimension), nil
}

func (c *DimensionCache) lookupL1(ctx context.Context, key string) (dimension.TimeDimension, bool) {
	v, ok := c.l1.Get(ctx, key)
	if !ok {
		return dimension.TimeDimension{}, false
	}
	dim, ok := v.(dimension.TimeDimension)
	return dim, ok
}

func (c *DimensionCache) lookupL2(ctx context.Context, key string) (dimension.TimeDimension, bool) {
	if c.l2 == nil {
		return dimension.TimeDimension{}, false
	}
	data, ok, err := c.l2.Get(ctx, key)
	if err != nil {
		slog.Warn("cache store read failed", slog.String("key", key), slog.Any("error", err))
		return dimension.TimeDimension{}, false
	}
	if !ok {
		return dimension.TimeDimension{}, false
	}
	var dim dimension.TimeDimension
	if err := json.Unmarshal(data, &dim); err != nil {
		slog.Warn("cache store entry is corrupt", slog.String("key", key), slog.Any("error", err))
		return dimension.TimeDimension{}, false
	}
	return dim, true
}

func (c *DimensionCache) storeL2(ctx context.Context, key string, dim dimension.TimeDimension) {
	if c.l2 == nil {
		return
	}
	data, err := json.Marshal(dim)
	if err != nil {
		slog.Warn("failed to encode dimension for cache store", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.l2.SetWithTTL(ctx, key, data, c.l2TTL); err != nil {
		slog.Warn("cache store write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// Delete removes key from both tiers.
func (c *DimensionCache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(ctx, key)
	if c.l2 != nil {
		return c.l2.Delete(ctx, key)
	}
	return nil
}

// Stats returns a snapshot of the cache counters.
func (c *DimensionCache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), L2Hits: c.l2Hits.Load()}
}

// Close closes both tiers.
func (c *DimensionCache) Close() error {
	var errs []error
	if c.l2 != nil {
		if err := c.l2.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := c.l1.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Key derives a cache key from the request components. Components are
// trimmed, so whitespace-only differences share an entry.
func Key(kind string, parts ...string) string {
	components := make([]string, 0, len(parts)+1)
	components = append(components, "kind:"+kind)
	for _, p := range parts {
		components = append(components, strings.TrimSpace(p))
	}

	h := sha256.Sum256([]byte(strings.Join(components, "|")))
	return kind + ":" + hex.EncodeToString(h[:])
}
