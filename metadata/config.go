package metadata

import (
	"github.com/cockroachdb/errors"

	"github.com/krisalay/evict-cache/eviction"
)

// CacheConfig selects the policy and bound of one of the three metadata caches.
type CacheConfig struct {
	Policy   string `mapstructure:"policy"`
	Capacity int    `mapstructure:"capacity"`
}

// Config holds one CacheConfig per kind of metadata. It is read once at startup.
type Config struct {
	Fields  CacheConfig `mapstructure:"fields"`
	Methods CacheConfig `mapstructure:"methods"`
	Tags    CacheConfig `mapstructure:"tags"`
}

func DefaultConfig() Config {
	return Config{
		Fields:  CacheConfig{Policy: string(eviction.LRU), Capacity: 256},
		Methods: CacheConfig{Policy: string(eviction.LFU), Capacity: 128},
		Tags:    CacheConfig{Policy: string(eviction.FIFO), Capacity: 512},
	}
}

func (c Config) Validate() error {
	for name, cc := range map[string]CacheConfig{
		fieldsCache:  c.Fields,
		methodsCache: c.Methods,
		tagsCache:    c.Tags,
	} {
		if err := cc.validate(); err != nil {
			return errors.Wrapf(err, "%s cache", name)
		}
	}
	return nil
}

func (c CacheConfig) validate() error {
	if _, err := eviction.ParsePolicyType(c.Policy); err != nil {
		return err
	}
	if c.Capacity <= 0 {
		return errors.Newf("capacity must be positive, got %d", c.Capacity)
	}
	return nil
}
