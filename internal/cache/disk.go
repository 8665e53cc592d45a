package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskCache persists explanations across CLI runs. Entries live under
// dir/<first two hex digits>/<digest>.json.
type DiskCache struct {
	dir string
	ttl time.Duration
}

type diskEntry struct {
	Value     []byte    `json:"value"`
	StoredAt  time.Time `json:"stored_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDiskCache creates a disk cache rooted at dir
func NewDiskCache(dir string, ttl time.Duration) *DiskCache {
	return &DiskCache{dir: dir, ttl: ttl}
}

// Get reads an entry; unreadable or expired entries are misses and expired
// files are removed
func (c *DiskCache) Get(key string) ([]byte, bool) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if !time.Now().Before(entry.ExpiresAt) {
		_ = os.Remove(path)
		return nil, false
	}
	return entry.Value, true
}

// Set writes an entry through a temp file so readers never see a partial file
func (c *DiskCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	now := time.Now()
	data, err := json.Marshal(diskEntry{Value: value, StoredAt: now, ExpiresAt: now.Add(ttl)})
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("commit cache file: %w", err)
	}
	return nil
}

// path maps "snschecker:v1:<hex>" to dir/<hex[:2]>/<hex>.json
func (c *DiskCache) path(key string) string {
	digest := strings.TrimPrefix(key, KeyPrefix)
	digest = strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(digest)
	shard := "00"
	if len(digest) >= 2 {
		shard = digest[:2]
	}
	return filepath.Join(c.dir, shard, digest+".json")
}
