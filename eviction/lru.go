// This file implements LRU eviction.

package eviction

// lruNode represents ONE entry inside the LRU structure. We use a doubly-linked list to track usage order.
type lruNode[K comparable, V any] struct {
	key   K
	value V

	// prev points to the node that was used just after this one
	prev *lruNode[K, V]

	// next points to the node that was used just before this one
	next *lruNode[K, V]
}

// lru is the concrete implementation of the LRU eviction policy.
type lru[K comparable, V any] struct {
	// nodes maps cache keys to their corresponding list nodes.
	// This allows us to find and move nodes in O(1) time.
	nodes map[K]*lruNode[K, V]

	// head points to the MOST recently used key
	head *lruNode[K, V]

	// tail points to the LEAST recently used key
	tail *lruNode[K, V]
}

func newLRU[K comparable, V any]() *lru[K, V] {
	return &lru[K, V]{nodes: make(map[K]*lruNode[K, V])}
}

// Get is called whenever a key is read from the cache. If a key is accessed, it becomes "recently used".
// So we: Find its node and move it to the front of the list
func (l *lru[K, V]) Get(k K) (V, bool) {
	n, ok := l.nodes[k]
	if !ok {
		var zero V
		return zero, false
	}
	l.moveToFront(n)
	return n.value, true
}

func (l *lru[K, V]) Contains(k K) bool {
	_, ok := l.nodes[k]
	return ok
}

// Insert creates a node and adds it to the front (most recently used).
func (l *lru[K, V]) Insert(k K, v V) {
	n := &lruNode[K, V]{key: k, value: v}
	l.nodes[k] = n
	l.addFront(n)
}

// Update replaces the value and treats the write as a use.
func (l *lru[K, V]) Update(k K, v V) {
	if n, ok := l.nodes[k]; ok {
		n.value = v
		l.moveToFront(n)
	}
}

// Evict is called when the cache is full. Removes the LEAST recently used key.
// That key is always at the tail of the list.
func (l *lru[K, V]) Evict() (K, V, bool) {
	n := l.tail
	if n == nil {
		var (
			zk K
			zv V
		)
		return zk, zv, false
	}
	l.remove(n)
	delete(l.nodes, n.key)
	return n.key, n.value, true
}

// Remove is called when a key is explicitly removed (not evicted due to capacity).
func (l *lru[K, V]) Remove(k K) bool {
	n, ok := l.nodes[k]
	if !ok {
		return false
	}
	l.remove(n)
	delete(l.nodes, k)
	return true
}

func (l *lru[K, V]) Clear() {
	l.nodes = make(map[K]*lruNode[K, V])
	l.head = nil
	l.tail = nil
}

func (l *lru[K, V]) Len() int { return len(l.nodes) }

// Keys walks from the tail, so the least recently used key comes first.
func (l *lru[K, V]) Keys() []K {
	out := make([]K, 0, len(l.nodes))
	for n := l.tail; n != nil; n = n.prev {
		out = append(out, n.key)
	}
	return out
}

// addFront adds a node to the front of the linked list. This marks the node as "most recently used".
func (l *lru[K, V]) addFront(n *lruNode[K, V]) {
	n.prev = nil
	n.next = l.head
	if l.head != nil {
		l.head.prev = n
	}
	l.head = n

	// If the list was empty, head and tail are the same
	if l.tail == nil {
		l.tail = n
	}
}

// remove unlinks a node from the linked list.
// It correctly updates:
// - Previous node's next pointer
// - Next node's prev pointer
// - Head and tail if needed
func (l *lru[K, V]) remove(n *lruNode[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		l.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		l.tail = n.prev
	}
	n.prev = nil
	n.next = nil
}

// moveToFront is used when a key is accessed.
// 1. Remove node from its current position
// 2. Add it to the front
func (l *lru[K, V]) moveToFront(n *lruNode[K, V]) {
	if l.head == n {
		return
	}
	l.remove(n)
	l.addFront(n)
}
