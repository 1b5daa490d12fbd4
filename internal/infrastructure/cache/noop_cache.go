package cache

import (
	"context"
	"time"
)

// NoopCache implements Cache with no storage at all. It is the backend
// wired when caching is disabled by configuration: every read misses,
// so all traffic goes straight to the system of record through the same
// interfaces, with no conditional logic at the call sites.
type NoopCache struct{}

// NewNoopCache creates a no-op cache
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

// Get always misses
func (NoopCache) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

// Set discards the value
func (NoopCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

// Refresh does nothing
func (NoopCache) Refresh(ctx context.Context, key string, ttl time.Duration) error {
	return nil
}

// Delete does nothing
func (NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Ensure NoopCache implements Cache
var _ Cache = (*NoopCache)(nil)
