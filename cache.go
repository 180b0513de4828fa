package cache

/*
Cache defines the PUBLIC API of our in-memory cache system.
This is a contract that guarantees certain behaviors, without exposing internals.
Eviction strategy, locking and sharding are hidden behind this interface.

Every implementation in this module is safe for concurrent use.
*/
type Cache[K comparable, V any] interface {

	/*
		Get retrieves the value associated with the given key.

		BEHAVIOR:
		---------
		- Returns the value and true when the key is held (cache hit)
		- Returns the zero value and false otherwise; a miss is not an error
		- Counts as an access: LRU marks the key most recently used,
		  LFU increments its frequency, FIFO ignores it
	*/
	Get(key K) (V, bool)

	/*
		Put stores a key-value pair in the cache.

		BEHAVIOR:
		---------
		- Existing key: the value is replaced and the key is repositioned
		  according to the policy. Size never changes.
		- New key on a full cache: exactly one entry is evicted first.
	*/
	Put(key K, value V)

	// Remove deletes a key. Removing a key that is not held is a no-op.
	Remove(key K)

	// Clear drops every entry. Calling it on an empty cache is safe.
	Clear()

	// Size returns the current number of entries, always within [0, Capacity()].
	Size() int

	// ContainsKey reports whether key is held. It is a peek: recency and frequency are untouched.
	ContainsKey(key K) bool

	// Capacity returns the maximum number of entries.
	Capacity() int

	// Keys returns a snapshot of the held keys in eviction order, next victim first.
	// Like ContainsKey it does not count as an access.
	Keys() []K
}
