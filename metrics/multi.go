package metrics

import "github.com/krisalay/evict-cache/types"

// Multi forwards every event to each of its members in order.
type Multi []types.Metrics

func (m Multi) Hit() {
	for _, x := range m {
		x.Hit()
	}
}

func (m Multi) Miss() {
	for _, x := range m {
		x.Miss()
	}
}

func (m Multi) Eviction() {
	for _, x := range m {
		x.Eviction()
	}
}
