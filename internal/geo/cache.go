package geo

import "sync"

type cacheEntry struct {
	loc   Location
	found bool
}

// Cache memoizes geocoding outcomes by query string. Misses are cached
// alongside hits so a place the service does not know is never asked twice.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cache) Get(query string) (Location, bool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[query]
	if !ok {
		return Location{}, false, false
	}
	return e.loc, e.found, true
}

func (c *Cache) Put(query string, loc Location, found bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[query] = cacheEntry{loc: loc, found: found}
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
