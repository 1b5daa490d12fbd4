package cache

import (
	"context"
	"time"
)

// Cache is the low-level string key-value backend shared by all cached
// entity families. Implementations: Redis for distributed deployments,
// in-memory for single-instance and tests, no-op when caching is
// disabled by configuration.
type Cache interface {
	// Get retrieves a raw value. The boolean reports whether the key
	// was present; an error indicates a backend failure, which callers
	// treat as a miss and fall through to the system of record.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a raw value with the given TTL. A zero TTL stores
	// without expiration.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Refresh extends the TTL of an existing key. Missing keys are
	// ignored.
	Refresh(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Options controls entry lifetimes for a cached entity family
type Options struct {
	// AbsoluteTTL is the hard upper bound on an entry's lifetime,
	// measured from the moment it is written. Reads never extend past it.
	AbsoluteTTL time.Duration

	// SlidingTTL is the idle window: each successful read re-arms the
	// countdown, capped by the absolute deadline.
	SlidingTTL time.Duration
}

// DefaultOptions returns the entry lifetimes used when the deployment
// does not configure its own
func DefaultOptions() Options {
	return Options{
		AbsoluteTTL: 30 * time.Minute,
		SlidingTTL:  10 * time.Minute,
	}
}

// initialTTL is the backend TTL for a fresh entry
func (o Options) initialTTL() time.Duration {
	if o.SlidingTTL > 0 && o.SlidingTTL < o.AbsoluteTTL {
		return o.SlidingTTL
	}
	return o.AbsoluteTTL
}

// refreshTTL is the backend TTL re-armed on a read hit, capped so the
// entry never outlives its absolute deadline
func (o Options) refreshTTL(expiresAt, now time.Time) time.Duration {
	if o.SlidingTTL <= 0 {
		return 0
	}
	remaining := expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	if remaining < o.SlidingTTL {
		return remaining
	}
	return o.SlidingTTL
}
