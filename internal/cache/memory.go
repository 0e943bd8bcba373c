package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds fallback answers in process, keyed by CacheKey of the
// normalized query. Entries expire after the configured answer TTL, so a
// repeated unmatched query is answered without another provider call.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates an answer cache; expired answers are swept every
// cleanupInterval
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns a cached answer
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		if b, ok := val.([]byte); ok {
			return b, true
		}
	}
	return nil, false
}

// Set stores a copy of an answer with the given TTL. A zero TTL uses the
// answer TTL the cache was created with.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete drops one answer
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every answer
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Len returns the number of cached answers, including expired ones not yet
// swept
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}
