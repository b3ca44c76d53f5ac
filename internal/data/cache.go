package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"gvix-backtest/internal/model"
)

// CacheEntry represents a cached prepared dataset.
type CacheEntry struct {
	Rows      []model.Row
	ExpiresAt time.Time
}

// RowCache provides in-memory caching for prepared datasets.
//
// Loading and joining the CSV files dominates API request latency, so the
// server can keep prepared rows for a short TTL. The cache is opt-in via
// ENABLE_DATASET_CACHE=true and is disabled when API_ENV=production, where
// dataset files may change underneath the server.
type RowCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
}

var globalCache *RowCache
var cacheOnce sync.Once

// GetCache returns the global cache instance if caching is enabled.
// Returns nil if caching is disabled.
func GetCache() *RowCache {
	if os.Getenv("ENABLE_DATASET_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("DATASET_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}

		globalCache = &RowCache{
			store: make(map[string]*CacheEntry),
			ttl:   ttl,
		}

		go globalCache.cleanup()
	})

	return globalCache
}

// Get retrieves cached rows if available and not expired.
func (c *RowCache) Get(key string) ([]model.Row, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(entry.ExpiresAt) {
		return nil, false
	}

	return entry.Rows, true
}

// Set stores prepared rows in the cache.
func (c *RowCache) Set(key string, rows []model.Row) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Rows:      rows,
		ExpiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *RowCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
}

// cleanup periodically removes expired entries.
func (c *RowCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.ExpiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheKeyParams identifies one prepared dataset.
type CacheKeyParams struct {
	OptionsFile string
	IndexFile   string
	RatesFile   string
	RateTenor   string
	Sigma       string
	Start       time.Time
	End         time.Time
}

// GenerateCacheKey creates a deterministic cache key from prepare parameters.
func GenerateCacheKey(params CacheKeyParams) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s:%s:%s:%s",
		params.OptionsFile,
		params.IndexFile,
		params.RatesFile,
		params.RateTenor,
		params.Sigma,
		params.Start.Format(dateLayout),
		params.End.Format(dateLayout),
	)

	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
