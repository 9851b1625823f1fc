package pricing

import (
	"sync"
	"time"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// Clock returns the current time. Injected so expiry can be driven by tests.
type Clock func() time.Time

type cacheEntry struct {
	result    *types.PriceResult
	expiresAt time.Time
}

// Cache is a process-local TTL cache of resolved prices, keyed by token
// address. It is owned by the caller and passed in wherever read-through
// lookups are needed; there is no package-level instance.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     Clock
}

func NewCache(ttl time.Duration, now Clock) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached price for token, or nil once the entry has expired.
// Expired entries are deleted on sight.
func (c *Cache) Get(token string) *types.PriceResult {
	token = utils.NormalizeAddress(token)

	c.mu.RLock()
	e, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.entries[token]; ok && !c.now().Before(cur.expiresAt) {
			delete(c.entries, token)
		}
		c.mu.Unlock()
		return nil
	}
	return e.result
}

// Set stores a resolved price for the configured TTL. Nil results are not
// stored; an unresolved token stays a miss so the next lookup retries.
func (c *Cache) Set(token string, result *types.PriceResult) {
	if result == nil {
		return
	}
	token = utils.NormalizeAddress(token)
	c.mu.Lock()
	c.entries[token] = cacheEntry{result: result, expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

// Len counts stored entries, including expired ones not yet swept.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
