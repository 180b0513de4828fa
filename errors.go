package cache

import (
	"github.com/cockroachdb/errors"

	"github.com/krisalay/evict-cache/eviction"
)

var (
	ErrInvalidCapacity = errors.New("cache capacity must be positive")
	ErrInvalidShards   = errors.New("shard count must be between 1 and capacity")
	ErrNilPolicy       = errors.New("eviction policy is nil")

	// ErrUnknownPolicy is returned by New for an unrecognized policy selector.
	ErrUnknownPolicy = eviction.ErrUnknownPolicy
)
