package cache

import (
	"fmt"

	"github.com/billtrack/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates cache backends based on configuration
type Factory struct {
	cacheConfig           config.CacheConfig
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory
// backend when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a new factory
func NewFactory(cacheCfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		cacheConfig:           cacheCfg,
		redisConfig:           redisCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Options returns the entry lifetime options configured for this deployment
func (f *Factory) Options() Options {
	opts := DefaultOptions()
	if f.cacheConfig.DefaultTTL > 0 {
		opts.AbsoluteTTL = f.cacheConfig.DefaultTTL
	}
	if f.cacheConfig.SlidingWindow > 0 {
		opts.SlidingTTL = f.cacheConfig.SlidingWindow
	}
	return opts
}

// CreateBackend picks the backend for this deployment: no-op when
// caching is disabled, Redis when available, in-memory as a degraded
// fallback when Redis is unreachable and fallback is allowed.
func (f *Factory) CreateBackend() (Cache, error) {
	if !f.cacheConfig.Enabled {
		f.logger.Info("caching disabled, using no-op cache backend")
		return NewNoopCache(), nil
	}

	backend, err := NewRedisCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("using Redis cache backend")
		return backend, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for caching but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache backend. "+
		"Cache state will not be shared across process instances.",
		zap.Error(err),
	)
	return NewMemoryCache(), nil
}
