// Package cache holds generation results per story key for the lifetime
// of the process. All access goes through one RWMutex; values cross the
// boundary as deep copies so callers can never mutate a cached entry.
package cache

import (
	"sync"

	"testforge/internal/model"
)

// Stats is a point-in-time view of cache effectiveness.
type Stats struct {
	Entries int
	Hits    int64
	Misses  int64
}

// Cache is a mutex-guarded result store keyed by story key.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]model.GenerationResult
	hits   int64
	misses int64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{items: make(map[string]model.GenerationResult)}
}

// Get returns a deep copy of the entry for key.
func (c *Cache) Get(key string) (model.GenerationResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, ok := c.items[key]
	if !ok {
		c.misses++
		return model.GenerationResult{}, false
	}
	c.hits++
	return res.Clone(), true
}

// Put stores a deep copy of the result under key, replacing any entry.
func (c *Cache) Put(key string, res model.GenerationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = res.Clone()
}

// Delete removes the entry for key, reporting whether one existed.
func (c *Cache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	delete(c.items, key)
	return ok
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]model.GenerationResult)
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Keys returns the cached story keys in unspecified order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns entry count and hit/miss counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.items), Hits: c.hits, Misses: c.misses}
}
