package fs

import (
	"sync"
	"time"

	"github.com/aretw0/crosstalk/pkg/core"
)

// cacheEntry is a parsed document together with the file stamp it was parsed from.
type cacheEntry struct {
	fields  core.Fields
	modTime time.Time
	size    int64
}

// cache avoids reparsing files whose modification time and size are unchanged.
type cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry // keyed by file name
}

func newCache() *cache {
	return &cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached payload when it is fresh for the given stamp.
func (c *cache) Get(name string, modTime time.Time, size int64) (core.Fields, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok || !e.modTime.Equal(modTime) || e.size != size {
		return nil, false
	}
	return e.fields, true
}

func (c *cache) Set(name string, fields core.Fields, modTime time.Time, size int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = cacheEntry{fields: fields, modTime: modTime, size: size}
}

func (c *cache) Delete(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, name)
}

// Prune removes entries that are not in keep.
func (c *cache) Prune(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name := range c.entries {
		if !keep[name] {
			delete(c.entries, name)
		}
	}
}

func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
