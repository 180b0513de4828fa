package types

// This file defines how the cache reports what it is doing.

/*
Metrics is an interface that defines what the cache wants to measure.
Each method represents an event in the cache lifecycle. The cache will call these methods whenever something happens.

Implementations are called while the cache holds its lock, so they must be fast and must
never call back into the cache.
*/
type Metrics interface {

	// Hit is called when Get finds the key.
	Hit()

	// Miss is called when Get does NOT find the key.
	Miss()

	// Eviction is called when a key is removed because the cache is full and needs space.
	// Explicit Remove and Clear are not evictions.
	Eviction()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

If someone does not care about metrics, we still want the cache to work without
nil checks everywhere, so this is the default.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()      {}
func (NoopMetrics) Miss()     {}
func (NoopMetrics) Eviction() {}
