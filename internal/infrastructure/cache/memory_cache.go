package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry is a stored value with its eviction deadline
type memoryEntry struct {
	value    string
	deadline time.Time // zero means no expiration
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// MemoryCache implements Cache with an in-process map. Suitable for
// single-instance deployments and tests.
// WARNING: state is not shared across process instances.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get retrieves a raw value, lazily evicting expired entries
func (c *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false, nil
	}
	if entry.expired(c.now()) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores a raw value with the given TTL
func (c *MemoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.deadline = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// Refresh extends the TTL of an existing key
func (c *MemoryCache) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok || entry.expired(c.now()) {
		return nil
	}
	entry.deadline = c.now().Add(ttl)
	c.entries[key] = entry
	return nil
}

// Delete removes a key
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, counting expired ones not
// yet evicted
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)
