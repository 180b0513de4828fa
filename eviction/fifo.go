// This file implements FIFO eviction.

package eviction

type fifo[K comparable, V any] struct {
	// queue keeps keys in the order they were inserted.
	// The front of the queue (index 0) is the oldest key.
	queue []K

	// values is the lookup for every key currently in the queue.
	values map[K]V
}

func newFIFO[K comparable, V any]() *fifo[K, V] {
	return &fifo[K, V]{
		queue:  make([]K, 0),
		values: make(map[K]V),
	}
}

// Get returns the stored value. FIFO ignores reads completely.
func (f *fifo[K, V]) Get(k K) (V, bool) {
	v, ok := f.values[k]
	return v, ok
}

func (f *fifo[K, V]) Contains(k K) bool {
	_, ok := f.values[k]
	return ok
}

// Insert appends the key to the end of the queue.
func (f *fifo[K, V]) Insert(k K, v V) {
	f.queue = append(f.queue, k)
	f.values[k] = v
}

// Update replaces the value only. FIFO only cares about the first insertion,
// so the queue position is left alone.
func (f *fifo[K, V]) Update(k K, v V) {
	f.values[k] = v
}

// Evict removes the oldest key.
func (f *fifo[K, V]) Evict() (K, V, bool) {
	if len(f.queue) == 0 {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	k := f.queue[0]

	// Clear the slot so the backing array does not pin the key.
	var zero K
	f.queue[0] = zero
	f.queue = f.queue[1:]

	v := f.values[k]
	delete(f.values, k)
	return k, v, true
}

/*
Remove is called when a key is explicitly removed from the cache (not because of eviction).

Steps:
------
1. Check if the key is tracked
2. Remove it from the lookup
3. Remove it from the queue, preserving order
*/
func (f *fifo[K, V]) Remove(k K) bool {
	if _, ok := f.values[k]; !ok {
		return false
	}
	delete(f.values, k)

	for i, v := range f.queue {
		if v == k {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			break
		}
	}
	return true
}

func (f *fifo[K, V]) Clear() {
	f.queue = make([]K, 0)
	f.values = make(map[K]V)
}

func (f *fifo[K, V]) Len() int { return len(f.values) }

func (f *fifo[K, V]) Keys() []K {
	out := make([]K, len(f.queue))
	copy(out, f.queue)
	return out
}
