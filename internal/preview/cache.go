package preview

import "sync"

// DefaultCacheSize bounds the shared preview cache.
const DefaultCacheSize = 4000

// Entry is a resolved preview outcome. Found is false for a cached
// "no preview" result, which is stored too so known-missing previews don't
// trigger repeated lookups.
type Entry struct {
	URL   string
	Found bool
}

// Cache is a bounded map from track id to resolved preview outcome. When
// full, inserting a new key evicts exactly one entry, the oldest-inserted
// key. Eviction is by insertion order, not recency of use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]Entry
	order    []string
}

// NewCache creates a cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[string]Entry, capacity),
	}
}

// Get returns the cached outcome for a key, if present.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores an outcome. Updating an existing key keeps its insertion slot.
func (c *Cache) Put(key string, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
