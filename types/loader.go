package types

import "context"

// Loader computes the value for a key the cache does not hold.
type Loader[K comparable, V any] interface {

	/*
		Load is called when the cache misses.
		1. Cache checks memory → key not found
		2. Caller asks the Loader for the value
		3. The result is stored in the cache and returned
	*/
	Load(ctx context.Context, key K) (V, error)
}

// LoaderFunc adapts a plain function to Loader.
type LoaderFunc[K comparable, V any] func(ctx context.Context, key K) (V, error)

func (f LoaderFunc[K, V]) Load(ctx context.Context, key K) (V, error) {
	return f(ctx, key)
}
