package data

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"
	"time"

	"virtual-energy-trader/internal/model"
)

// ResponseCache is an opt-in, in-memory TTL cache for Grid Status responses.
//
// It exists to avoid burning API quota while iterating locally: historical
// DA/RT prices for a past trading date never change. Enable with
// ENABLE_GRIDSTATUS_CACHE=true; it stays off when API_ENV=production.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
	ttl   time.Duration
}

type cacheEntry struct {
	response  *model.GridStatusLMPResponse
	expiresAt time.Time
}

var (
	globalCache *ResponseCache
	cacheOnce   sync.Once
)

// GetCache returns the global cache instance, or nil when caching is
// disabled.
func GetCache() *ResponseCache {
	if os.Getenv("ENABLE_GRIDSTATUS_CACHE") != "true" {
		return nil
	}
	if os.Getenv("API_ENV") == "production" {
		return nil
	}

	cacheOnce.Do(func() {
		ttl := 1 * time.Hour
		if ttlStr := os.Getenv("GRIDSTATUS_CACHE_TTL"); ttlStr != "" {
			if parsed, err := time.ParseDuration(ttlStr); err == nil {
				ttl = parsed
			}
		}
		globalCache = &ResponseCache{
			store: make(map[string]*cacheEntry),
			ttl:   ttl,
		}
		go globalCache.cleanup()
	})
	return globalCache
}

// Get retrieves a cached response if present and not expired.
func (c *ResponseCache) Get(key string) (*model.GridStatusLMPResponse, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.response, true
}

// Set stores a response under key with the cache TTL.
func (c *ResponseCache) Set(key string, response *model.GridStatusLMPResponse) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = &cacheEntry{
		response:  response,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Clear removes all entries.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*cacheEntry)
}

func (c *ResponseCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, entry := range c.store {
			if now.After(entry.expiresAt) {
				delete(c.store, key)
			}
		}
		c.mu.Unlock()
	}
}

// cacheKey builds a deterministic key from query parameters, hashed to keep
// it reasonably sized.
func cacheKey(params QueryParams) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s:%s",
		params.DatasetID,
		params.SettlementPoint,
		params.StartTime.Format("2006-01-02"),
		params.EndTime.Format("2006-01-02"),
		params.Timezone,
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
