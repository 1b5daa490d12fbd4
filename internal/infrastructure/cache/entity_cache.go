package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// envelope wraps a serialized entity together with its absolute
// expiration deadline, so a read hit can re-arm the sliding window
// without ever extending the entry past the deadline it was written with.
type envelope struct {
	Value     json.RawMessage `json:"v"`
	ExpiresAt time.Time       `json:"exp"`
}

// EntityCache is the generic cache-aside surface for one entity family.
// Reads refresh the sliding window on hit and fall through to the
// system of record on miss or backend failure; writes unconditionally
// overwrite the cached entry so a read immediately after a write sees
// the post-write value instead of racing a repopulation.
type EntityCache[T any] struct {
	backend  Cache
	registry *KeyRegistry
	opts     Options
	logger   *zap.Logger
	now      func() time.Time
}

// NewEntityCache creates a cache-aside surface over the given backend
func NewEntityCache[T any](backend Cache, registry *KeyRegistry, opts Options, logger *zap.Logger) *EntityCache[T] {
	if opts.AbsoluteTTL <= 0 {
		opts = DefaultOptions()
	}
	return &EntityCache[T]{
		backend:  backend,
		registry: registry,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the cached entity under key, refreshing its sliding
// window, or falls through to load. A found result is populated into
// the cache before returning; a load error is returned as-is and
// nothing is cached. Backend failures degrade to direct loads.
func (c *EntityCache[T]) Get(ctx context.Context, key string, load func(ctx context.Context) (*T, error)) (*T, error) {
	if entity, ok := c.lookup(ctx, key); ok {
		return entity, nil
	}

	entity, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if entity != nil {
		c.Set(ctx, key, entity)
	}
	return entity, nil
}

// GetOrCompute returns the cached value under key or invokes compute to
// produce it, populating the cache with the result. Meant for derived
// values (lists, summaries) rather than primary entities.
func (c *EntityCache[T]) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (*T, error)) (*T, error) {
	return c.Get(ctx, key, compute)
}

// Set serializes the entity and overwrites the cache entry with the
// default TTL options, recording the key for prefix invalidation.
// Cache write failures are logged, never propagated: the system of
// record has already been written and a stale-entry window bounded by
// TTL is acceptable.
func (c *EntityCache[T]) Set(ctx context.Context, key string, entity *T) {
	c.SetWithTTL(ctx, key, entity, c.opts.AbsoluteTTL)
}

// SetWithTTL is Set with a caller-chosen absolute TTL
func (c *EntityCache[T]) SetWithTTL(ctx context.Context, key string, entity *T, absoluteTTL time.Duration) {
	raw, err := json.Marshal(entity)
	if err != nil {
		c.logger.Warn("Failed to serialize cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	opts := c.opts
	if absoluteTTL > 0 {
		opts.AbsoluteTTL = absoluteTTL
	}
	env := envelope{Value: raw, ExpiresAt: c.now().Add(opts.AbsoluteTTL)}
	payload, err := json.Marshal(env)
	if err != nil {
		c.logger.Warn("Failed to serialize cache envelope",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}

	if err := c.backend.Set(ctx, key, string(payload), opts.initialTTL()); err != nil {
		c.logger.Warn("Cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
		return
	}
	c.registry.Add(key)
}

// Remove evicts a single key
func (c *EntityCache[T]) Remove(ctx context.Context, key string) {
	if err := c.backend.Delete(ctx, key); err != nil {
		c.logger.Warn("Cache delete failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	c.registry.Remove(key)
}

// RemoveByPrefix evicts every known key sharing the prefix. Used to
// invalidate an entity family after a bulk write.
func (c *EntityCache[T]) RemoveByPrefix(ctx context.Context, prefix string) {
	for _, key := range c.registry.TakeByPrefix(prefix) {
		if err := c.backend.Delete(ctx, key); err != nil {
			c.logger.Warn("Cache delete failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// lookup reads and deserializes a cache entry, refreshing its sliding
// window on hit. Any failure reads as a miss.
func (c *EntityCache[T]) lookup(ctx context.Context, key string) (*T, bool) {
	payload, found, err := c.backend.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Cache read failed, falling through to store",
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		c.Remove(ctx, key)
		return nil, false
	}

	entity := new(T)
	if err := json.Unmarshal(env.Value, entity); err != nil {
		c.logger.Warn("Discarding undecodable cache entry",
			zap.String("key", key),
			zap.Error(err),
		)
		c.Remove(ctx, key)
		return nil, false
	}

	// Read extends lifetime, capped by the absolute deadline
	if ttl := c.opts.refreshTTL(env.ExpiresAt, c.now()); ttl > 0 {
		if err := c.backend.Refresh(ctx, key, ttl); err != nil {
			c.logger.Warn("Cache TTL refresh failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
	return entity, true
}
