package cache

import (
	"go.uber.org/zap"

	"github.com/krisalay/evict-cache/types"
)

type options[K comparable, V any] struct {
	name    string
	logger  *zap.Logger
	metrics types.Metrics
	onEvict func(key K, value V)
}

func defaultOptions[K comparable, V any]() *options[K, V] {
	return &options[K, V]{
		name:    "cache",
		logger:  zap.NewNop(),
		metrics: types.NoopMetrics{},
	}
}

// Option configures a cache built by New, NewLocked or NewSharded.
type Option[K comparable, V any] func(*options[K, V])

// WithName labels log lines of this cache.
func WithName[K comparable, V any](name string) Option[K, V] {
	return func(o *options[K, V]) { o.name = name }
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger[K comparable, V any](logger *zap.Logger) Option[K, V] {
	return func(o *options[K, V]) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics sets the metrics sink. Nil keeps NoopMetrics.
func WithMetrics[K comparable, V any](m types.Metrics) Option[K, V] {
	return func(o *options[K, V]) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithOnEvict registers fn to be called for every capacity eviction.
// fn runs after the cache lock is released, so it may call back into the cache.
func WithOnEvict[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(o *options[K, V]) { o.onEvict = fn }
}
