package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache keeps recent explanations in process
type MemoryCache struct {
	items *gocache.Cache
}

// NewMemoryCache creates a memory cache whose entries live for ttl. Expired
// entries are swept at half the ttl, at least once a minute.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	sweep := ttl / 2
	if sweep < time.Minute {
		sweep = time.Minute
	}
	return &MemoryCache{items: gocache.New(ttl, sweep)}
}

// Get returns a copy of the cached value
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	val, found := c.items.Get(key)
	if !found {
		return nil, false
	}
	b, ok := val.([]byte)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b...), true
}

// Set stores a copy of value
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Len returns the number of entries, including expired ones not yet swept
func (c *MemoryCache) Len() int {
	return c.items.ItemCount()
}
