package driver

import (
	"sync"

	"mimic/internal/semantic"
)

// ModelCache keeps extracted models in memory, in front of an optional
// DiskCache. Entries are keyed by cacheKey, so a hit is always valid.
type ModelCache struct {
	mu   sync.RWMutex
	mem  map[Digest][]semantic.ModelWire
	disk *DiskCache
}

// NewModelCache creates a cache with the given capacity hint. disk may be nil.
func NewModelCache(capHint int, disk *DiskCache) *ModelCache {
	return &ModelCache{mem: make(map[Digest][]semantic.ModelWire, capHint), disk: disk}
}

// Get returns the cached models for key. A disk hit is promoted to memory.
func (c *ModelCache) Get(key Digest) ([]semantic.ModelWire, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	models, ok := c.mem[key]
	c.mu.RUnlock()
	if ok {
		return models, true, nil
	}
	var payload DiskPayload
	ok, err := c.disk.Get(key, &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	c.mu.Lock()
	c.mem[key] = payload.Models
	c.mu.Unlock()
	return payload.Models, true, nil
}

// Put stores models in memory and, when configured, on disk.
func (c *ModelCache) Put(key Digest, path string, models []semantic.ModelWire) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	c.mem[key] = models
	c.mu.Unlock()
	return c.disk.Put(key, &DiskPayload{Schema: semantic.SchemaVersion, Path: path, Models: models})
}

// Len returns the number of in-memory entries.
func (c *ModelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.mem)
}

// Disk returns the backing disk cache; nil for a memory-only cache.
func (c *ModelCache) Disk() *DiskCache {
	if c == nil {
		return nil
	}
	return c.disk
}
