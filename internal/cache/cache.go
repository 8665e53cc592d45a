package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// KeyPrefix namespaces every key written by this application
const KeyPrefix = "snschecker:v1:"

// Cache stores generated explanations by content key. A zero ttl on Set
// means the implementation's default.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
}

// CacheKey generates a cache key from arbitrary content
func CacheKey(content []byte) string {
	hash := sha256.Sum256(content)
	return KeyPrefix + hex.EncodeToString(hash[:])
}

// New builds the explanation cache described by cfg. It returns (nil, nil)
// when caching is disabled. Memory is always the front layer; Redis (when
// configured) or a disk directory backs it.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	memory := NewMemoryCache(cfg.MemoryTTL)

	switch {
	case cfg.RedisURL != "":
		redisCache, err := NewRedisCache(cfg.RedisURL, cfg.DiskTTL)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return NewLayeredCache(memory, redisCache), nil
	case cfg.DiskDir != "":
		return NewLayeredCache(memory, NewDiskCache(cfg.DiskDir, cfg.DiskTTL)), nil
	default:
		return memory, nil
	}
}
