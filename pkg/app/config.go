// Copyright 2024 The Solaris Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package app

import (
	"encoding/json"
	"fmt"

	"github.com/solarisdb/lrukv/golibs/config"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/pkg/storage/cache"
)

type (
	// Config defines the lrukv application configuration
	Config struct {
		// Cache specifies the LRU cache dimensions
		Cache cache.Config
		// Backend specifies the storage behind the cache
		Backend BackendConfig
	}

	// BackendConfig selects and configures the records storage
	BackendConfig struct {
		// Type is one of inmem, buntdb or redis
		Type string
		// BuntDBFile is the buntdb file path, empty means in-memory buntdb
		BuntDBFile string `json:"buntDBFile"`
		// RedisAddr is the host:port of the redis server
		RedisAddr string `json:"redisAddr"`
	}
)

const (
	BackendInmem  = "inmem"
	BackendBuntDB = "buntdb"
	BackendRedis  = "redis"
)

// getDefaultConfig returns the default config
func getDefaultConfig() *Config {
	return &Config{
		Cache:   cache.Config{Capacity: 1000, IndexWidth: 1024},
		Backend: BackendConfig{Type: BackendInmem, RedisAddr: "localhost:6379"},
	}
}

// BuildConfig builds the config from the defaults, overwritten by the cfgFile
// values (if provided), overwritten by the LRUKV_ environment variables.
func BuildConfig(cfgFile string) (*Config, error) {
	log := logging.NewLogger("lrukv.ConfigBuilder")
	log.Infof("trying to build config. cfgFile=%s", cfgFile)
	e := config.NewEnricher(*getDefaultConfig())
	fe := config.NewEnricher(Config{})
	err := fe.LoadFromFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("could not read data from the file %s: %w", cfgFile, err)
	}
	// overwrite default
	e.ApplyOther(fe)
	e.ApplyEnvVariables("LRUKV", "_")
	cfg := e.Value()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the config values
func (c *Config) Validate() error {
	if c.Cache.Capacity <= 0 {
		return fmt.Errorf("cache capacity must be positive, but it is %d: %w", c.Cache.Capacity, errors.ErrInvalid)
	}
	if c.Cache.IndexWidth <= 0 {
		return fmt.Errorf("cache index width must be positive, but it is %d: %w", c.Cache.IndexWidth, errors.ErrInvalid)
	}
	switch c.Backend.Type {
	case BackendInmem, BackendBuntDB, BackendRedis:
	default:
		return fmt.Errorf("unknown backend type %q, expecting %s, %s or %s: %w", c.Backend.Type,
			BackendInmem, BackendBuntDB, BackendRedis, errors.ErrInvalid)
	}
	return nil
}

// String implements fmt.Stringify interface in a pretty console form
func (c *Config) String() string {
	b, _ := json.MarshalIndent(*c, "", "  ")
	return string(b)
}
