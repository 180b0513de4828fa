package shard

/*
This file defines how a total capacity is divided between shards.
Each shard is an independent mini-cache with its own lock and its own eviction policy,
so the bound is enforced per shard. The per-shard capacities must add up to the total,
otherwise the cache as a whole could exceed it.
*/

// Split divides capacity into n parts that differ by at most one.
// The first capacity%n shards get the extra entry. It returns nil when
// n < 1 or n > capacity, because some shard would end up with no room.
func Split(capacity, n int) []int {
	if n < 1 || n > capacity {
		return nil
	}
	base, rem := capacity/n, capacity%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}
