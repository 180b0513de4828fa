package shard

import "hash/maphash"

/*
This file decides HOW a cache key is assigned to a shard.
If every request went to the same shard, that shard would become a bottleneck.
Shard selection is about:
- Load balancing
- Avoiding hot spots
- Scaling under concurrency
*/

/*
Selector is the interface that decides which shard should handle a given key.
The cache does not care HOW this decision is made. Different strategies can be plugged in.

Select must return an index in [0, n) and must always return the same index for the same key.
*/
type Selector[K comparable] interface {
	Select(key K, n int) int
}

/*
HashSelector spreads keys by hashing them with a per-selector random seed.
Any comparable key type works, not just strings.
*/
type HashSelector[K comparable] struct {
	seed maphash.Seed
}

func NewHashSelector[K comparable]() *HashSelector[K] {
	return &HashSelector[K]{seed: maphash.MakeSeed()}
}

/*
Select chooses the shard for a given key.
*/
func (s *HashSelector[K]) Select(key K, n int) int {
	return int(maphash.Comparable(s.seed, key) % uint64(n))
}
