package catalog

import (
	"fmt"
	"sync"
	"time"
)

// searchCache is an in-memory TTL cache for catalog search results.
// Entries are valid for exactly one TTL window from their fetch time; past
// that window they are treated as absent, never served. The cache is bounded:
// once maxEntries is reached, the least-recently-used entry is evicted.
// State is process-local and lost on restart by design.
type searchCache struct {
	mu         sync.RWMutex
	entries    map[string]*cacheEntry
	ttl        time.Duration
	maxEntries int

	// now is replaceable in tests.
	now func() time.Time
}

type cacheEntry struct {
	result     SearchResult
	fetchedAt  time.Time
	lastAccess time.Time
}

func newSearchCache(ttl time.Duration, maxEntries int) *searchCache {
	return &searchCache{
		entries:    make(map[string]*cacheEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// searchCacheKey builds the cache key from the normalized query parameters.
func searchCacheKey(query string, opts SearchOptions) string {
	return fmt.Sprintf("%s|%d|%d|%s", query, opts.Page, opts.PageSize, opts.Owner)
}

// get returns the cached result for key if a live (non-expired) entry exists.
func (c *searchCache) get(key string) (SearchResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return SearchResult{}, false
	}

	now := c.now()
	if now.Sub(entry.fetchedAt) > c.ttl {
		return SearchResult{}, false
	}

	c.mu.Lock()
	entry.lastAccess = now
	c.mu.Unlock()

	return entry.result, true
}

// set stores a result with a fresh TTL stamp. Concurrent writes to the same
// key are resolved last-write-wins: results are idempotent and equally fresh.
func (c *searchCache) set(key string, result SearchResult) {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.entries[key] = &cacheEntry{
		result:     result,
		fetchedAt:  now,
		lastAccess: now,
	}
}

// evictOldest removes the least-recently-used entry. Caller must hold mu.
func (c *searchCache) evictOldest() {
	var (
		oldestKey  string
		oldestTime time.Time
	)
	for key, entry := range c.entries {
		if oldestKey == "" || entry.lastAccess.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.lastAccess
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// len reports the number of entries currently held, expired or not.
func (c *searchCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
