package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process expiring cache for values of type V
type Memory[V any] struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache. A zero defaultTTL never expires entries.
func NewMemory[V any](defaultTTL time.Duration, cleanupInterval time.Duration) *Memory[V] {
	if defaultTTL == 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory[V]{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *Memory[V]) Get(key string) (V, bool) {
	if val, found := c.cache.Get(key); found {
		if v, ok := val.(V); ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// Set stores a value; a zero ttl uses the cache default
func (c *Memory[V]) Set(key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes a value from the cache
func (c *Memory[V]) Delete(key string) {
	c.cache.Delete(key)
}

// Clear removes all values from the cache
func (c *Memory[V]) Clear() {
	c.cache.Flush()
}

// Len returns the number of cached entries, including expired ones not yet cleaned up
func (c *Memory[V]) Len() int {
	return c.cache.ItemCount()
}

var _ Cache[int] = (*Memory[int])(nil)
