package cache

import (
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/types"
)

/*
LockedCache is the shared skeleton every eviction policy runs inside.

It owns ONE mutex for the whole instance and takes it for every call, reads included.
A read on LRU or LFU mutates ordering, so a reader/writer split would race with a
concurrent eviction. The policy only supplies its ordering logic through the
eviction.Policy hooks.

The lock is always released with defer, so a panicking hook leaves the cache usable
and the panic reaches the caller. Nothing is rolled back.
*/
type LockedCache[K comparable, V any] struct {
	mu sync.Mutex

	// policy owns the entries and decides the next victim.
	policy eviction.Policy[K, V]

	// capacity is fixed at construction and always > 0.
	capacity int

	name    string
	logger  *zap.Logger
	metrics types.Metrics
	onEvict func(key K, value V)
}

var _ Cache[string, any] = (*LockedCache[string, any])(nil)

// NewLocked wraps an already built policy. Most callers want New instead.
func NewLocked[K comparable, V any](
	policy eviction.Policy[K, V],
	capacity int,
	opts ...Option[K, V],
) (*LockedCache[K, V], error) {
	o := defaultOptions[K, V]()
	for _, opt := range opts {
		opt(o)
	}
	return newLocked(policy, capacity, o)
}

func newLocked[K comparable, V any](
	policy eviction.Policy[K, V],
	capacity int,
	o *options[K, V],
) (*LockedCache[K, V], error) {
	if policy == nil {
		return nil, ErrNilPolicy
	}
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	return &LockedCache[K, V]{
		policy:   policy,
		capacity: capacity,
		name:     o.name,
		logger:   o.logger,
		metrics:  o.metrics,
		onEvict:  o.onEvict,
	}, nil
}

/*
Get retrieves a value from the cache.
*/
func (c *LockedCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.policy.Get(key)
	if ok {
		c.metrics.Hit()
	} else {
		c.metrics.Miss()
	}
	return v, ok
}

/*
Put stores a value in the cache.

1. Existing key → Update hook (value replaced, repositioned per policy)
2. New key on a full cache → Evict hook, exactly once
3. New key → Insert hook

The eviction callback, if any, runs after the lock is released.
*/
func (c *LockedCache[K, V]) Put(key K, value V) {
	ek, ev, evicted := c.put(key, value)
	if evicted && c.onEvict != nil {
		c.onEvict(ek, ev)
	}
}

func (c *LockedCache[K, V]) put(key K, value V) (ek K, ev V, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.policy.Contains(key) {
		c.policy.Update(key, value)
		return ek, ev, false
	}

	if c.policy.Len() >= c.capacity {
		ek, ev, evicted = c.policy.Evict()
		if evicted {
			c.metrics.Eviction()
			if ce := c.logger.Check(zap.DebugLevel, "evicted entry"); ce != nil {
				ce.Write(zap.String("cache", c.name), zap.Any("key", ek))
			}
		}
	}

	c.policy.Insert(key, value)
	return ek, ev, evicted
}

/*
Remove deletes a key from the cache immediately. Missing keys are ignored.
*/
func (c *LockedCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.policy.Remove(key)
}

func (c *LockedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.policy.Clear()
}

func (c *LockedCache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy.Len()
}

func (c *LockedCache[K, V]) ContainsKey(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy.Contains(key)
}

func (c *LockedCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.policy.Keys()
}

// Capacity never changes, so it is read without the lock.
func (c *LockedCache[K, V]) Capacity() int { return c.capacity }

// Name returns the label set with WithName.
func (c *LockedCache[K, V]) Name() string { return c.name }
