// This file implements LFU eviction.

package eviction

import (
	"container/list"
	"maps"
	"slices"
)

// lfuEntry represents one key tracked by LFU.
type lfuEntry[K comparable, V any] struct {
	key   K
	value V
	freq  int           // how many times this key was accessed, starting at 1
	elem  *list.Element // position inside freqMap[freq]
}

type lfu[K comparable, V any] struct {
	// entries lets us quickly find the entry for a key
	entries map[K]*lfuEntry[K, V]

	// freqMap groups entries by how many times they were accessed.
	// Each bucket is ordered by the time the entry joined it: front is oldest.
	freqMap map[int]*list.List

	// minFreq keeps track of the smallest frequency currently present in the cache.
	// This avoids scanning the entire map on eviction.
	minFreq int
}

func newLFU[K comparable, V any]() *lfu[K, V] {
	return &lfu[K, V]{
		entries: make(map[K]*lfuEntry[K, V]),
		freqMap: make(map[int]*list.List),
	}
}

// Get is called whenever a key is read from the cache.
func (l *lfu[K, V]) Get(k K) (V, bool) {
	e, ok := l.entries[k]
	if !ok {
		var zero V
		return zero, false
	}
	l.touch(e)
	return e.value, true
}

func (l *lfu[K, V]) Contains(k K) bool {
	_, ok := l.entries[k]
	return ok
}

// Insert adds a new key with frequency 1.
func (l *lfu[K, V]) Insert(k K, v V) {
	e := &lfuEntry[K, V]{key: k, value: v, freq: 1}
	l.entries[k] = e
	l.push(e)

	// Since a new key with freq=1 exists, minFreq must be 1
	l.minFreq = 1
}

// Update replaces the value; a write counts as a use.
func (l *lfu[K, V]) Update(k K, v V) {
	if e, ok := l.entries[k]; ok {
		e.value = v
		l.touch(e)
	}
}

// Evict removes the entry with the lowest frequency. When several keys share it,
// the one that has sat in that frequency bucket the longest goes first.
func (l *lfu[K, V]) Evict() (K, V, bool) {
	b := l.freqMap[l.minFreq]
	if b == nil || b.Len() == 0 {
		l.recomputeMin()
		b = l.freqMap[l.minFreq]
	}
	if b == nil || b.Len() == 0 {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}

	e := b.Front().Value.(*lfuEntry[K, V])
	l.unlink(e)
	delete(l.entries, e.key)
	return e.key, e.value, true
}

// Remove is called when a key is explicitly removed (not because of eviction).
func (l *lfu[K, V]) Remove(k K) bool {
	e, ok := l.entries[k]
	if !ok {
		return false
	}
	l.unlink(e)
	delete(l.entries, k)
	return true
}

func (l *lfu[K, V]) Clear() {
	l.entries = make(map[K]*lfuEntry[K, V])
	l.freqMap = make(map[int]*list.List)
	l.minFreq = 0
}

func (l *lfu[K, V]) Len() int { return len(l.entries) }

// Keys lists buckets from the lowest frequency up.
func (l *lfu[K, V]) Keys() []K {
	out := make([]K, 0, len(l.entries))
	for _, f := range slices.Sorted(maps.Keys(l.freqMap)) {
		for el := l.freqMap[f].Front(); el != nil; el = el.Next() {
			out = append(out, el.Value.(*lfuEntry[K, V]).key)
		}
	}
	return out
}

// touch moves e from its bucket to the next one.
func (l *lfu[K, V]) touch(e *lfuEntry[K, V]) {
	old := e.freq
	l.unlink(e)
	e.freq++
	l.push(e)

	// If the old bucket was the minimum and it is gone now,
	// the entry we just moved carries the new minimum.
	if l.minFreq == old && l.freqMap[old] == nil {
		l.minFreq = e.freq
	}
}

// push appends e to the back of its frequency bucket.
func (l *lfu[K, V]) push(e *lfuEntry[K, V]) {
	b := l.freqMap[e.freq]
	if b == nil {
		b = list.New()
		l.freqMap[e.freq] = b
	}
	e.elem = b.PushBack(e)
}

// unlink takes e out of its bucket and drops the bucket when it becomes empty.
func (l *lfu[K, V]) unlink(e *lfuEntry[K, V]) {
	b := l.freqMap[e.freq]
	b.Remove(e.elem)
	e.elem = nil
	if b.Len() == 0 {
		delete(l.freqMap, e.freq)
	}
}

func (l *lfu[K, V]) recomputeMin() {
	l.minFreq = 0
	for f := range l.freqMap {
		if l.minFreq == 0 || f < l.minFreq {
			l.minFreq = f
		}
	}
}
