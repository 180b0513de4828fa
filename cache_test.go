package cache_test

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	cache "github.com/krisalay/evict-cache"
	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/metrics"
)

var allPolicies = []eviction.PolicyType{eviction.FIFO, eviction.LRU, eviction.LFU}

//
// ================= CONTRACT SUITE (runs once per policy) =================
//

type ContractSuite struct {
	suite.Suite
	policy eviction.PolicyType
	build  func(capacity int) (cache.Cache[string, int], error)
}

func (s *ContractSuite) newCache(capacity int) cache.Cache[string, int] {
	c, err := s.build(capacity)
	s.Require().NoError(err)
	return c
}

func (s *ContractSuite) TestRoundTrip() {
	c := s.newCache(10)
	c.Put("key1", 1)

	v, ok := c.Get("key1")
	s.True(ok)
	s.Equal(1, v)

	v, ok = c.Get("missing")
	s.False(ok)
	s.Zero(v)
}

func (s *ContractSuite) TestUpdateExistingKey() {
	c := s.newCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("a", 10)

	s.Equal(2, c.Size())
	s.True(c.ContainsKey("b"), "update must not evict")
	v, _ := c.Get("a")
	s.Equal(10, v)
}

func (s *ContractSuite) TestCapacityInvariant() {
	c := s.newCache(5)
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		c.Put(fmt.Sprintf("k%d", r.Intn(40)), i)
		s.LessOrEqual(c.Size(), 5)
		if i%7 == 0 {
			c.Get(fmt.Sprintf("k%d", r.Intn(40)))
		}
	}
	s.Equal(5, c.Size())
	s.Equal(5, c.Capacity())
}

func (s *ContractSuite) TestRemove() {
	c := s.newCache(3)
	c.Put("a", 1)

	c.Remove("never-inserted")
	s.Equal(1, c.Size())

	c.Remove("a")
	s.Equal(0, c.Size())
	s.False(c.ContainsKey("a"))

	c.Remove("a")
	s.Equal(0, c.Size())
}

func (s *ContractSuite) TestClearIsIdempotent() {
	c := s.newCache(3)
	c.Put("a", 1)
	c.Put("b", 2)

	c.Clear()
	s.Equal(0, c.Size())
	c.Clear()
	s.Equal(0, c.Size())
	s.Empty(c.Keys())

	c.Put("c", 3)
	s.Equal(1, c.Size())
	s.False(c.ContainsKey("a"))
	s.Equal([]string{"c"}, c.Keys())
}

func (s *ContractSuite) TestEvictsExactlyOne() {
	c := s.newCache(3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)
	c.Put("d", 4)

	s.Equal(3, c.Size())
	s.True(c.ContainsKey("d"))
	missing := 0
	for _, k := range []string{"a", "b", "c"} {
		if !c.ContainsKey(k) {
			missing++
		}
	}
	s.Equal(1, missing)
}

func (s *ContractSuite) TestContainsKeyIsAPeek() {
	c := s.newCache(2)
	c.Put("a", 1)
	c.Put("b", 2)
	before := c.Keys()

	for i := 0; i < 3; i++ {
		s.True(c.ContainsKey("a"))
	}
	s.Equal(before, c.Keys())
}

func (s *ContractSuite) TestConcurrentStress() {
	const (
		capacity   = 16
		goroutines = 16
		ops        = 2000
	)
	c := s.newCache(capacity)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			r := rand.New(rand.NewSource(seed))
			for i := 0; i < ops; i++ {
				k := fmt.Sprintf("k%d", r.Intn(64))
				switch r.Intn(4) {
				case 0, 1:
					c.Put(k, i)
				case 2:
					c.Get(k)
				default:
					c.Remove(k)
				}
				if c.Size() > capacity {
					s.Fail("size above capacity")
				}
			}
		}(int64(g))
	}
	wg.Wait()

	keys := c.Keys()
	s.Equal(c.Size(), len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		s.False(seen[k], "duplicate key %s in ordering", k)
		seen[k] = true
		s.True(c.ContainsKey(k))
	}
}

func TestLockedCacheContract(t *testing.T) {
	for _, p := range allPolicies {
		p := p
		t.Run(p.String(), func(t *testing.T) {
			suite.Run(t, &ContractSuite{
				policy: p,
				build: func(capacity int) (cache.Cache[string, int], error) {
					return cache.New[string, int](p, capacity)
				},
			})
		})
	}
}

func TestShardedCacheContract(t *testing.T) {
	for _, p := range allPolicies {
		p := p
		t.Run(p.String(), func(t *testing.T) {
			suite.Run(t, &ContractSuite{
				policy: p,
				build: func(capacity int) (cache.Cache[string, int], error) {
					return cache.NewSharded[string, int](p, capacity, 1)
				},
			})
		})
	}
}

//
// ================= EVICTION ORDER =================
//

func TestFIFOEvictsFirstInsertedDespiteReads(t *testing.T) {
	c, err := cache.New[string, string](eviction.FIFO, 2)
	require.NoError(t, err)

	c.Put("A", "a")
	c.Put("B", "b")
	c.Get("A")
	c.Put("C", "c") // evicts A
	c.Get("B")
	c.Put("D", "d") // evicts B

	assert.False(t, c.ContainsKey("A"))
	assert.False(t, c.ContainsKey("B"))
	assert.Equal(t, []string{"C", "D"}, c.Keys())
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, err := cache.New[string, string](eviction.LRU, 2)
	require.NoError(t, err)

	c.Put("A", "a")
	c.Put("B", "b")
	c.Get("A")
	c.Put("C", "c")

	assert.True(t, c.ContainsKey("A"))
	assert.False(t, c.ContainsKey("B"))
	assert.True(t, c.ContainsKey("C"))
}

func TestLRUUpdateRefreshesRecency(t *testing.T) {
	c, err := cache.New[string, string](eviction.LRU, 2)
	require.NoError(t, err)

	c.Put("A", "a")
	c.Put("B", "b")
	c.Put("A", "a2")
	c.Put("C", "c")

	assert.False(t, c.ContainsKey("B"))
	v, _ := c.Get("A")
	assert.Equal(t, "a2", v)
}

func TestLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	c, err := cache.New[string, string](eviction.LFU, 2)
	require.NoError(t, err)

	c.Put("A", "a")
	c.Put("B", "b")
	c.Get("A")
	c.Get("A")
	c.Put("C", "c")

	assert.True(t, c.ContainsKey("A"))
	assert.False(t, c.ContainsKey("B"))
	assert.True(t, c.ContainsKey("C"))
}

//
// ================= FACTORY =================
//

func TestNewRejectsBadArguments(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		c, err := cache.New[string, int](eviction.LRU, capacity)
		assert.Nil(t, c)
		assert.True(t, errors.Is(err, cache.ErrInvalidCapacity))
	}

	c, err := cache.New[string, int]("RANDOM", 4)
	assert.Nil(t, c)
	assert.True(t, errors.Is(err, cache.ErrUnknownPolicy))

	_, err = cache.NewLocked[string, int](nil, 4)
	assert.True(t, errors.Is(err, cache.ErrNilPolicy))

	_, err = cache.NewSharded[string, int](eviction.LRU, 2, 3)
	assert.True(t, errors.Is(err, cache.ErrInvalidShards))
}

//
// ================= HOOKS, METRICS, LOGGING =================
//

func TestOnEvictRunsOutsideLock(t *testing.T) {
	var c *cache.LockedCache[string, int]
	var evicted []string

	c, err := cache.New(eviction.FIFO, 2, cache.WithOnEvict(func(k string, v int) {
		evicted = append(evicted, k)
		// would deadlock if the lock were still held
		assert.Equal(t, 2, c.Size())
	}))
	require.NoError(t, err)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("b", 3)
	c.Put("c", 4)
	c.Remove("b")
	c.Clear()

	assert.Equal(t, []string{"a"}, evicted)
}

func TestMetricsAndLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	counter := metrics.NewCounter()

	c, err := cache.New(eviction.LRU, 1,
		cache.WithName[string, int]("test"),
		cache.WithLogger[string, int](zap.New(core)),
		cache.WithMetrics[string, int](counter),
	)
	require.NoError(t, err)
	assert.Equal(t, "test", c.Name())

	c.Put("a", 1)
	c.Get("a")
	c.Get("b")
	c.Put("b", 2)

	snap := counter.Snapshot()
	assert.Equal(t, uint64(1), snap.Hits)
	assert.Equal(t, uint64(1), snap.Misses)
	assert.Equal(t, uint64(1), snap.Evictions)

	assert.Equal(t, 1, logs.FilterMessage("cache created").Len())
	ev := logs.FilterMessage("evicted entry").All()
	require.Len(t, ev, 1)
	assert.Equal(t, "a", ev[0].ContextMap()["key"])
}

// panicPolicy wraps a real policy and panics on Insert when armed.
type panicPolicy struct {
	eviction.Policy[string, int]
	armed bool
}

func (p *panicPolicy) Insert(k string, v int) {
	if p.armed {
		panic("insert failed")
	}
	p.Policy.Insert(k, v)
}

func TestPanickingHookReleasesLock(t *testing.T) {
	inner, err := eviction.NewPolicy[string, int](eviction.LRU)
	require.NoError(t, err)
	p := &panicPolicy{Policy: inner}

	c, err := cache.NewLocked[string, int](p, 2)
	require.NoError(t, err)
	c.Put("a", 1)

	p.armed = true
	assert.PanicsWithValue(t, "insert failed", func() { c.Put("b", 2) })

	// the lock must have been released
	p.armed = false
	assert.Equal(t, 1, c.Size())
	c.Put("b", 2)
	assert.Equal(t, 2, c.Size())
}

//
// ================= SHARDING =================
//

func TestShardedCapacity(t *testing.T) {
	c, err := cache.NewSharded[int, int](eviction.LRU, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Shards())
	assert.Equal(t, 10, c.Capacity())

	for i := 0; i < 1000; i++ {
		c.Put(i, i)
		require.LessOrEqual(t, c.Size(), 10)
	}
	assert.Len(t, c.Keys(), c.Size())

	c.Clear()
	assert.Equal(t, 0, c.Size())
}
