// Package config loads the cache configuration of the command line tool.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/krisalay/evict-cache/metadata"
)

// EnvPrefix prefixes environment overrides, e.g. EVICTCACHE_METADATA_FIELDS_CAPACITY=64.
const EnvPrefix = "EVICTCACHE"

type Config struct {
	Metadata metadata.Config `mapstructure:"metadata"`
}

func Default() Config {
	return Config{Metadata: metadata.DefaultConfig()}
}

/*
Load reads the configuration.

Precedence, highest first:
1. EVICTCACHE_* environment variables
2. the YAML file at path, when path is not empty
3. Default()

The result is validated before it is returned.
*/
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Metadata.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// setDefaults registers every key, which AutomaticEnv needs to see env-only values on Unmarshal.
func setDefaults(v *viper.Viper, d Config) {
	for name, cc := range map[string]metadata.CacheConfig{
		"fields":  d.Metadata.Fields,
		"methods": d.Metadata.Methods,
		"tags":    d.Metadata.Tags,
	} {
		v.SetDefault("metadata."+name+".policy", cc.Policy)
		v.SetDefault("metadata."+name+".capacity", cc.Capacity)
	}
}
