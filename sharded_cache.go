package cache

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/shard"
)

/*
ShardedCache splits one logical cache into several LockedCache instances.
Each shard has its own lock and its own policy instance, so callers touching
different shards never contend.

Eviction order is per shard: an LRU ShardedCache evicts the least recently used
key OF THE SHARD the new key lands in, not of the whole cache.
*/
type ShardedCache[K comparable, V any] struct {
	// shards are the actual storage units. Each shard is an independent mini-cache.
	shards []*LockedCache[K, V]

	// selector decides which shard a key should go to.
	selector shard.Selector[K]

	capacity int
}

var _ Cache[string, any] = (*ShardedCache[string, any])(nil)

// NewSharded builds shards caches of the given policy whose capacities add up to capacity.
func NewSharded[K comparable, V any](
	policy eviction.PolicyType,
	capacity int,
	shards int,
	opts ...Option[K, V],
) (*ShardedCache[K, V], error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", capacity)
	}
	caps := shard.Split(capacity, shards)
	if caps == nil {
		return nil, errors.Wrapf(ErrInvalidShards, "%d shards for capacity %d", shards, capacity)
	}

	o := defaultOptions[K, V]()
	for _, opt := range opts {
		opt(o)
	}

	s := make([]*LockedCache[K, V], shards)
	for i := range s {
		so := *o
		so.logger = o.logger.With(zap.Int("shard", i))

		c, err := newFromOptions(policy, caps[i], &so)
		if err != nil {
			return nil, err
		}
		s[i] = c
	}

	return &ShardedCache[K, V]{
		shards:   s,
		selector: shard.NewHashSelector[K](),
		capacity: capacity,
	}, nil
}

func (c *ShardedCache[K, V]) shardFor(key K) *LockedCache[K, V] {
	return c.shards[c.selector.Select(key, len(c.shards))]
}

func (c *ShardedCache[K, V]) Get(key K) (V, bool) {
	return c.shardFor(key).Get(key)
}

func (c *ShardedCache[K, V]) Put(key K, value V) {
	c.shardFor(key).Put(key, value)
}

func (c *ShardedCache[K, V]) Remove(key K) {
	c.shardFor(key).Remove(key)
}

func (c *ShardedCache[K, V]) ContainsKey(key K) bool {
	return c.shardFor(key).ContainsKey(key)
}

// Clear clears shards one at a time. A concurrent Put may land in a shard
// that was already cleared.
func (c *ShardedCache[K, V]) Clear() {
	for _, s := range c.shards {
		s.Clear()
	}
}

// Size is the sum of the shard sizes. Shards are read one after another,
// so under concurrent writes it is a close estimate, never above Capacity.
func (c *ShardedCache[K, V]) Size() int {
	return lo.SumBy(c.shards, func(s *LockedCache[K, V]) int { return s.Size() })
}

func (c *ShardedCache[K, V]) Capacity() int { return c.capacity }

// Keys concatenates each shard's eviction order, shard by shard.
func (c *ShardedCache[K, V]) Keys() []K {
	return lo.Flatten(lo.Map(c.shards, func(s *LockedCache[K, V], _ int) []K {
		return s.Keys()
	}))
}

// Shards returns the number of shards.
func (c *ShardedCache[K, V]) Shards() int { return len(c.shards) }
