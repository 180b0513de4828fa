package cache

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/krisalay/evict-cache/eviction"
)

/*
New builds a cache for the given policy selector and capacity.

Construction is the only place that can fail:
- capacity <= 0           → ErrInvalidCapacity
- unrecognized policy     → ErrUnknownPolicy

Both are wrapped, so test them with errors.Is.
*/
func New[K comparable, V any](
	policy eviction.PolicyType,
	capacity int,
	opts ...Option[K, V],
) (*LockedCache[K, V], error) {
	o := defaultOptions[K, V]()
	for _, opt := range opts {
		opt(o)
	}
	return newFromOptions(policy, capacity, o)
}

func newFromOptions[K comparable, V any](
	policy eviction.PolicyType,
	capacity int,
	o *options[K, V],
) (*LockedCache[K, V], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}

	p, err := eviction.NewPolicy[K, V](policy)
	if err != nil {
		return nil, err
	}

	c, err := newLocked(p, capacity, o)
	if err != nil {
		return nil, err
	}

	o.logger.Info("cache created",
		zap.String("cache", o.name),
		zap.Stringer("policy", policy),
		zap.Int("capacity", capacity),
	)
	return c, nil
}
