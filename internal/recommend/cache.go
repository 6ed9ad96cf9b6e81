package recommend

import (
	"sync"
	"time"

	"github.com/algocoach/backend/internal/models"
)

// DefaultCacheTTL bounds how stale a cached recommendation list may get.
const DefaultCacheTTL = 10 * time.Minute

type cacheEntry struct {
	recommendations []models.RecommendationResult
	createdAt       time.Time
}

// Cache is a per-user store of the last computed recommendation list. Expiry
// is evaluated lazily on read by comparing the entry's creation time against
// the TTL; there is no eviction goroutine. Concurrent misses may race to
// recompute the same list, which is benign — last put wins.
type Cache struct {
	mu      sync.RWMutex
	entries map[int64]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[int64]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached list for the user, or false when the entry is absent
// or older than the TTL. Expired entries are removed on the way out.
func (c *Cache) Get(userID int64) ([]models.RecommendationResult, bool) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.createdAt) > c.ttl {
		c.Invalidate(userID)
		return nil, false
	}
	return entry.recommendations, true
}

func (c *Cache) Put(userID int64, recommendations []models.RecommendationResult) {
	c.mu.Lock()
	c.entries[userID] = cacheEntry{recommendations: recommendations, createdAt: c.now()}
	c.mu.Unlock()
}

// Invalidate drops the user's entry. Called after every progress mutation;
// invalidating an absent entry is a no-op.
func (c *Cache) Invalidate(userID int64) {
	c.mu.Lock()
	delete(c.entries, userID)
	c.mu.Unlock()
}
