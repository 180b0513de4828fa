package cache_test

import (
	"fmt"
	"testing"

	cache "github.com/krisalay/evict-cache"
	"github.com/krisalay/evict-cache/eviction"
)

const benchCapacity = 100000

func newBenchmarkCache(b *testing.B, p eviction.PolicyType) cache.Cache[string, int] {
	c, err := cache.New[string, int](p, benchCapacity)
	if err != nil {
		b.Fatal(err)
	}
	return c
}

//
// ================= SINGLE THREAD BENCH =================
//

func BenchmarkCacheGetHit(b *testing.B) {
	for _, p := range allPolicies {
		b.Run(p.String(), func(b *testing.B) {
			c := newBenchmarkCache(b, p)
			c.Put("key", 1)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Get("key")
			}
		})
	}
}

func BenchmarkCacheGetMiss(b *testing.B) {
	c := newBenchmarkCache(b, eviction.LRU)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("missing")
	}
}

//
// ================= WRITE BENCH (eviction on every put once full) =================
//

func BenchmarkCachePut(b *testing.B) {
	for _, p := range allPolicies {
		b.Run(p.String(), func(b *testing.B) {
			c := newBenchmarkCache(b, p)
			keys := make([]string, 4*benchCapacity)
			for i := range keys {
				keys[i] = fmt.Sprintf("key-%d", i)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				c.Put(keys[i%len(keys)], i)
			}
		})
	}
}

//
// ================= PARALLEL BENCH =================
//

func BenchmarkCacheParallelGet(b *testing.B) {
	c := newBenchmarkCache(b, eviction.LRU)
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("key-%d", i), i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			c.Get("key-42")
		}
	})
}

func BenchmarkShardedParallelGet(b *testing.B) {
	c, err := cache.NewSharded[string, int](eviction.LRU, benchCapacity, 16)
	if err != nil {
		b.Fatal(err)
	}
	keys := make([]string, 1000)
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		c.Put(keys[i], i)
	}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.Get(keys[i%len(keys)])
			i++
		}
	})
}
