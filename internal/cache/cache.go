package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/avaldezm/tempo-dashboard-service/internal/models"
)

// Cache defines the interface for dashboard result caching implementations.
// Get returns cached data if present and not expired, Set stores data with TTL.
// Implementations must be safe for concurrent use; multiple request handlers
// share one cache.
type Cache interface {
	Get(ctx context.Context, key string) (models.DashboardPayload, bool, error)
	Set(ctx context.Context, key string, value models.DashboardPayload, ttl time.Duration) error
}

// Key builds the cache key from a coordinate rounded to two decimal digits,
// so near-identical requests within the TTL window share one entry.
func Key(lat, lon float64) string {
	return fmt.Sprintf("%.2f_%.2f", lat, lon)
}

// LRUCache implements Cache on a bounded, internally synchronized LRU map.
// The size bound keeps memory flat under arbitrary coordinate churn; expired
// entries are ignored on read and replaced on the next Set for their key.
type LRUCache struct {
	entries *lru.Cache
}

// lruEntry stores a cached payload with its expiration timestamp.
type lruEntry struct {
	value     models.DashboardPayload
	expiresAt time.Time
}

// NewLRUCache creates an in-memory cache holding at most size entries.
func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

// Get retrieves the cached payload for the key if present and not expired.
// Returns (data, true, nil) on a fresh hit, (zero, false, nil) otherwise.
// Expired entries are removed on access.
func (c *LRUCache) Get(ctx context.Context, key string) (models.DashboardPayload, bool, error) {
	v, ok := c.entries.Get(key)
	if !ok {
		return models.DashboardPayload{}, false, nil
	}
	entry := v.(lruEntry)
	if time.Now().After(entry.expiresAt) {
		c.entries.Remove(key)
		return models.DashboardPayload{}, false, nil
	}
	return entry.value, true, nil
}

// Set stores the payload with the specified TTL, replacing any previous entry
// for the key atomically from the caller's perspective.
func (c *LRUCache) Set(ctx context.Context, key string, value models.DashboardPayload, ttl time.Duration) error {
	c.entries.Add(key, lruEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}
