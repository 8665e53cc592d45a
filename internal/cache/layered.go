package cache

import "time"

// LayeredCache puts the memory cache in front of disk or Redis
type LayeredCache struct {
	front Cache
	back  Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(front, back Cache) *LayeredCache {
	return &LayeredCache{
		front: front,
		back:  back,
	}
}

// Get retrieves a value from the cache (checks the front layer first)
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.front.Get(key); found {
		return val, true
	}

	if val, found := c.back.Get(key); found {
		// Promote to the front layer with its default TTL
		_ = c.front.Set(key, val, 0)
		return val, true
	}

	return nil, false
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.front.Set(key, value, ttl); err != nil {
		return err
	}

	if err := c.back.Set(key, value, ttl); err != nil {
		return err
	}

	return nil
}
