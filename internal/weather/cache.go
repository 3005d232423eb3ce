package weather

import (
	"sync"
	"time"

	"github.com/couchcryptid/destination-weather-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

// DefaultCacheTTL is how long a resolved result is served before re-scanning.
const DefaultCacheTTL = 300_000 * time.Millisecond

// Cache maps a sanitized city to its last resolved WeatherResult. Stale
// entries are removed lazily on read; there is no background sweep.
type Cache struct {
	ttl   time.Duration
	clock clockwork.Clock

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	data     domain.WeatherResult
	storedAt time.Time
}

// NewCache creates a TTL cache. A non-positive ttl selects DefaultCacheTTL
// and a nil clock the real one.
func NewCache(ttl time.Duration, clock clockwork.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		ttl:     ttl,
		clock:   clock,
		entries: make(map[string]cacheEntry),
	}
}

// Get returns the cached result for city while it is younger than the TTL.
// Cities whose key sanitizes to empty are never cached.
func (c *Cache) Get(city string) (domain.WeatherResult, bool) {
	key := domain.CacheKey(city)
	if key == "" {
		return domain.WeatherResult{}, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.WeatherResult{}, false
	}
	if c.fresh(e) {
		return e.data, true
	}

	c.mu.Lock()
	// Another goroutine may have stored a fresh result since the read above.
	if cur, ok := c.entries[key]; ok && !c.fresh(cur) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return domain.WeatherResult{}, false
}

// Put stores result for city, replacing any previous entry.
func (c *Cache) Put(city string, result domain.WeatherResult) {
	key := domain.CacheKey(city)
	if key == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{data: result, storedAt: c.clock.Now()}
}

// Len returns the number of entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) fresh(e cacheEntry) bool {
	return c.clock.Since(e.storedAt) < c.ttl
}
