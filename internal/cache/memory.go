package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process verdict store. Entries expire by TTL;
// there is no persistence across runs, oracle verdicts are only
// trusted within the process that obtained them.
type MemoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// eviction sweep interval
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{store: gocache.New(defaultTTL, cleanupInterval)}
}

// Get returns the value for key, if present and unexpired
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.store.Set(key, value, ttl)
	return nil
}

// Delete removes key from the cache
func (c *MemoryCache) Delete(key string) error {
	c.store.Delete(key)
	return nil
}

// Clear drops every entry
func (c *MemoryCache) Clear() error {
	c.store.Flush()
	return nil
}

// Len reports the number of live entries, expired included until the
// next sweep
func (c *MemoryCache) Len() int {
	return c.store.ItemCount()
}
