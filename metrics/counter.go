package metrics

import (
	"go.uber.org/atomic"

	"github.com/krisalay/evict-cache/types"
)

// Counter is an in-process types.Metrics that just counts events.
type Counter struct {
	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

var _ types.Metrics = (*Counter)(nil)

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Hit()      { c.hits.Inc() }
func (c *Counter) Miss()     { c.misses.Inc() }
func (c *Counter) Eviction() { c.evictions.Inc() }

type Snapshot struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Snapshot reads every counter once. The fields are not read atomically as a group.
func (c *Counter) Snapshot() Snapshot {
	hits := c.hits.Load()
	misses := c.misses.Load()

	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Snapshot{
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   hitRate,
	}
}

func (c *Counter) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}
