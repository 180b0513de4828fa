/*
Package metadata memoizes reflection metadata of Go types.

Walking a type with reflect is cheap once but adds up on hot paths such as
encoders and validators that inspect the same types over and over. Cache keeps
three independently bounded caches, one per kind of metadata, each with its own
eviction policy picked in Config.

Returned slices and maps are shared with the cache. Callers must treat them as
read-only.
*/
package metadata

import (
	"context"
	"fmt"
	"reflect"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	cache "github.com/krisalay/evict-cache"
	"github.com/krisalay/evict-cache/eviction"
	"github.com/krisalay/evict-cache/metrics"
	"github.com/krisalay/evict-cache/types"
)

const (
	fieldsCache  = "fields"
	methodsCache = "methods"
	tagsCache    = "tags"
)

type options struct {
	logger    *zap.Logger
	collector *metrics.Collector
}

type Option func(*options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCollector also reports hits, misses and evictions of the three caches to Prometheus.
func WithCollector(c *metrics.Collector) Option {
	return func(o *options) { o.collector = c }
}

// Cache is the reflection-metadata cache. Build it once in the composition root
// and share the pointer; there is no package-level instance.
type Cache struct {
	fields  *loading[reflect.Type, []FieldInfo]
	methods *loading[reflect.Type, []MethodInfo]
	tags    *loading[tagKey, map[string]string]
	logger  *zap.Logger
}

// New validates cfg and builds the three caches.
func New(cfg Config, opts ...Option) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	fields, err := newLoading[reflect.Type, []FieldInfo](fieldsCache, cfg.Fields, o, typeString,
		types.LoaderFunc[reflect.Type, []FieldInfo](func(_ context.Context, t reflect.Type) ([]FieldInfo, error) {
			return extractFields(t)
		}))
	if err != nil {
		return nil, err
	}

	methods, err := newLoading[reflect.Type, []MethodInfo](methodsCache, cfg.Methods, o, typeString,
		types.LoaderFunc[reflect.Type, []MethodInfo](func(_ context.Context, t reflect.Type) ([]MethodInfo, error) {
			return extractMethods(t), nil
		}))
	if err != nil {
		return nil, err
	}

	tags, err := newLoading[tagKey, map[string]string](tagsCache, cfg.Tags, o,
		func(k tagKey) string { return typeString(k.t) + "/" + k.key },
		types.LoaderFunc[tagKey, map[string]string](func(_ context.Context, k tagKey) (map[string]string, error) {
			return extractTags(k)
		}))
	if err != nil {
		return nil, err
	}

	return &Cache{
		fields:  fields,
		methods: methods,
		tags:    tags,
		logger:  o.logger,
	}, nil
}

// Fields returns the fields declared directly on t, which must be a struct or a pointer to one.
func (c *Cache) Fields(ctx context.Context, t reflect.Type) ([]FieldInfo, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	return c.fields.get(ctx, t)
}

// Methods returns the method set of *T for a named type T, or of T itself for interfaces.
func (c *Cache) Methods(ctx context.Context, t reflect.Type) ([]MethodInfo, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	return c.methods.get(ctx, t)
}

// Tags maps field name to the value of struct tag key, for the fields that carry it.
func (c *Cache) Tags(ctx context.Context, t reflect.Type, key string) (map[string]string, error) {
	t, err := normalize(t)
	if err != nil {
		return nil, err
	}
	return c.tags.get(ctx, tagKey{t: t, key: key})
}

// Stats returns per cache counters keyed by cache name.
func (c *Cache) Stats() map[string]metrics.Snapshot {
	return map[string]metrics.Snapshot{
		fieldsCache:  c.fields.counter.Snapshot(),
		methodsCache: c.methods.counter.Snapshot(),
		tagsCache:    c.tags.counter.Snapshot(),
	}
}

// Sizes returns the current occupancy of each cache keyed by cache name.
func (c *Cache) Sizes() map[string]int {
	return map[string]int{
		fieldsCache:  c.fields.cache.Size(),
		methodsCache: c.methods.cache.Size(),
		tagsCache:    c.tags.cache.Size(),
	}
}

// Clear empties all three caches. Counters are kept.
func (c *Cache) Clear() {
	c.fields.cache.Clear()
	c.methods.cache.Clear()
	c.tags.cache.Clear()
	c.logger.Debug("metadata caches cleared")
}

func normalize(t reflect.Type) (reflect.Type, error) {
	t = indirect(t)
	if t == nil {
		return nil, ErrNilType
	}
	return t, nil
}

// typeString identifies a type for singleflight. The pointer keeps distinct types
// that print the same, such as two local types named T, apart.
func typeString(t reflect.Type) string {
	return fmt.Sprintf("%s#%p", t, t)
}

/*
loading is one bounded cache plus the logic that fills it on a miss.

1. Get from the cache → hit, done
2. Miss → singleflight.Do so concurrent misses for the same key compute once
3. Loader result is Put; errors are returned and never cached
*/
type loading[K comparable, V any] struct {
	name    string
	cache   cache.Cache[K, V]
	loader  types.Loader[K, V]
	keyOf   func(K) string
	group   singleflight.Group
	counter *metrics.Counter
	logger  *zap.Logger
}

func newLoading[K comparable, V any](
	name string,
	cc CacheConfig,
	o *options,
	keyOf func(K) string,
	loader types.Loader[K, V],
) (*loading[K, V], error) {
	policy, err := eviction.ParsePolicyType(cc.Policy)
	if err != nil {
		return nil, err
	}

	counter := metrics.NewCounter()
	var m types.Metrics = counter
	if o.collector != nil {
		m = metrics.Multi{counter, o.collector.For(name)}
	}

	c, err := cache.New(policy, cc.Capacity,
		cache.WithName[K, V](name),
		cache.WithLogger[K, V](o.logger),
		cache.WithMetrics[K, V](m),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "%s cache", name)
	}

	return &loading[K, V]{
		name:    name,
		cache:   c,
		loader:  loader,
		keyOf:   keyOf,
		counter: counter,
		logger:  o.logger,
	}, nil
}

func (l *loading[K, V]) get(ctx context.Context, key K) (V, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}

	res, err, _ := l.group.Do(l.keyOf(key), func() (any, error) {
		v, err := l.loader.Load(ctx, key)
		if err != nil {
			return nil, err
		}
		l.cache.Put(key, v)
		return v, nil
	})
	if err != nil {
		l.logger.Warn("metadata load failed",
			zap.String("cache", l.name),
			zap.String("key", l.keyOf(key)),
			zap.Error(err),
		)
		var zero V
		return zero, err
	}
	return res.(V), nil
}
