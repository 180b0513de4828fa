package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/krisalay/evict-cache/types"
)

const (
	namespace = "evictcache"
	cacheKey  = "cache"
)

// Collector exports cache events as Prometheus counters labelled by cache name.
type Collector struct {
	hits      *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
}

// NewCollector creates the counter vectors and registers them on reg.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Number of Get calls that found the key.",
		}, []string{cacheKey}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Number of Get calls that did not find the key.",
		}, []string{cacheKey}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Number of entries removed to make room for a new key.",
		}, []string{cacheKey}),
	}

	for _, cv := range []prometheus.Collector{c.hits, c.misses, c.evictions} {
		if err := reg.Register(cv); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// For returns the types.Metrics of one named cache.
func (c *Collector) For(name string) types.Metrics {
	return &labelled{
		hits:      c.hits.WithLabelValues(name),
		misses:    c.misses.WithLabelValues(name),
		evictions: c.evictions.WithLabelValues(name),
	}
}

type labelled struct {
	hits      prometheus.Counter
	misses    prometheus.Counter
	evictions prometheus.Counter
}

func (l *labelled) Hit()      { l.hits.Inc() }
func (l *labelled) Miss()     { l.misses.Inc() }
func (l *labelled) Eviction() { l.evictions.Inc() }
