package eviction

import (
	"strings"

	"github.com/cockroachdb/errors"
)

/*
This file defines how the cache decides what to remove when it runs out of space.
*/

// ErrUnknownPolicy is returned when a PolicyType does not name a supported strategy.
var ErrUnknownPolicy = errors.New("unknown eviction policy")

/*
Policy is the interface that all eviction strategies must follow.

A policy owns both the key → value lookup and the ordering structure that decides
the next victim, so the two can never drift apart.

The locking template (cache.LockedCache) is the only caller. It holds its mutex
around every call, so implementations are NOT safe for concurrent use on their own
and must never lock anything themselves.
*/
type Policy[K comparable, V any] interface {

	// Get returns the value for key and counts it as an access.
	//
	// - LRU moves the entry to the most recently used position
	// - LFU increments the entry's frequency
	// - FIFO ignores reads
	Get(key K) (V, bool)

	// Contains reports whether key is tracked without counting an access.
	Contains(key K) bool

	// Insert adds a key that is NOT yet tracked.
	// The caller guarantees there is room for it.
	Insert(key K, value V)

	// Update replaces the value of a key that IS tracked and repositions it
	// according to the strategy.
	Update(key K, value V)

	// Remove deletes key from the lookup and the ordering structure.
	// It reports whether the key was present.
	Remove(key K) bool

	// Evict removes exactly one entry, the strategy's victim, and returns it.
	// ok is false only when nothing is tracked.
	Evict() (key K, value V, ok bool)

	// Clear drops every entry.
	Clear()

	// Len returns the number of tracked entries.
	Len() int

	// Keys returns the tracked keys in eviction order, next victim first.
	// It is a peek and does not change ordering.
	Keys() []K
}

// PolicyType is a simple identifier for supported eviction strategies.
type PolicyType string

const (
	// LRU (Least Recently Used): Evicts the key that has NOT been accessed for the longest time.
	LRU PolicyType = "LRU"

	// LFU (Least Frequently Used): Evicts the key that has been accessed the fewest times.
	// This works well when:
	// - Some keys are consistently hot
	// - Some keys are rarely used
	LFU PolicyType = "LFU"

	// FIFO (First In First Out): Evicts the oldest inserted key, regardless of access.
	FIFO PolicyType = "FIFO"
)

func (t PolicyType) String() string { return string(t) }

// Valid reports whether t names a supported strategy.
func (t PolicyType) Valid() bool {
	switch t {
	case LRU, LFU, FIFO:
		return true
	}
	return false
}

// ParsePolicyType converts a case-insensitive name such as "lru" into a PolicyType.
func ParsePolicyType(s string) (PolicyType, error) {
	t := PolicyType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", errors.Wrapf(ErrUnknownPolicy, "%q", s)
	}
	return t, nil
}

// NewPolicy is a small factory function.
// Given a PolicyType, it creates the correct eviction policy.
func NewPolicy[K comparable, V any](t PolicyType) (Policy[K, V], error) {
	switch t {
	case LRU:
		return newLRU[K, V](), nil
	case LFU:
		return newLFU[K, V](), nil
	case FIFO:
		return newFIFO[K, V](), nil
	default:
		return nil, errors.Wrapf(ErrUnknownPolicy, "%q", string(t))
	}
}
