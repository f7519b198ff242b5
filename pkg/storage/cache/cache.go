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
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/logrange/linker"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/container/lru"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/logging"
)

type (
	// Config defines the cache dimensions
	Config struct {
		// Capacity is the maximum number of records kept in the cache
		Capacity int
		// IndexWidth is the number of buckets in the cache key index
		IndexWidth int
	}

	// CachedStorage wraps kvs.Storage with the read-through LRU cache.
	// Get is served from the cache and reaches the backend on misses only,
	// the modifications go to the backend and invalidate the cached record.
	CachedStorage struct {
		backend kvs.Storage
		cache   *lru.LoadingCache[string, kvs.Record]
		logger  logging.Logger
		nowF    func() time.Time
	}
)

var _ kvs.Storage = (*CachedStorage)(nil)

// NewCachedStorage wraps the backend into the cache
func NewCachedStorage(cfg Config, backend kvs.Storage) (*CachedStorage, error) {
	s := &CachedStorage{backend: backend, nowF: time.Now}
	s.logger = logging.NewLogger("cache.CachedStorage")
	var err error
	s.cache, err = lru.NewLoadingCache[string, kvs.Record](cfg.Capacity, cfg.IndexWidth, lru.StringHasher,
		func(ctx context.Context, key string) (kvs.Record, error) {
			return backend.Get(ctx, key)
		}, func(key string, _ kvs.Record) {
			s.logger.Tracef("record %s left the cache", key)
		})
	if err != nil {
		return nil, fmt.Errorf("could not create the cache: %w", err)
	}
	return s, nil
}

// Init implements linker.Initializer
func (s *CachedStorage) Init(ctx context.Context) error {
	if init, ok := s.backend.(linker.Initializer); ok {
		return init.Init(ctx)
	}
	return nil
}

// Shutdown implements linker.Shutdowner
func (s *CachedStorage) Shutdown() {
	s.logger.Infof("Shutting down, cache stats: %+v", s.cache.Stats())
	if shut, ok := s.backend.(linker.Shutdowner); ok {
		shut.Shutdown()
	}
}

// Create implements kvs.Storage
func (s *CachedStorage) Create(ctx context.Context, record kvs.Record) (string, error) {
	ver, err := s.backend.Create(ctx, record)
	if err != nil {
		return "", err
	}
	s.cache.Remove(record.Key)
	return ver, nil
}

// Get implements kvs.Storage. The expired cached record is dropped and read
// from the backend again.
func (s *CachedStorage) Get(ctx context.Context, key string) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	now := s.nowF()
	r, err := s.cache.GetOrCreate(ctx, key)
	if err == nil && r.Expired(now) {
		s.cache.Remove(key)
		r, err = s.cache.GetOrCreate(ctx, key)
		if err == nil && r.Expired(now) {
			// the backend clock is behind ours
			s.cache.Remove(key)
			return kvs.Record{}, errors.ErrNotExist
		}
	}
	if err != nil {
		return kvs.Record{}, err
	}
	return r.Copy(), nil
}

// Put implements kvs.Storage
func (s *CachedStorage) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	r, err := s.backend.Put(ctx, record)
	s.cache.Remove(record.Key)
	return r, err
}

// Delete implements kvs.Storage
func (s *CachedStorage) Delete(ctx context.Context, key string) error {
	err := s.backend.Delete(ctx, key)
	s.cache.Remove(key)
	return err
}

// ListKeys implements kvs.Storage, it is always served by the backend
func (s *CachedStorage) ListKeys(ctx context.Context, pattern string) (iterable.Iterator[string], error) {
	return s.backend.ListKeys(ctx, pattern)
}

// Stats returns the cache counters
func (s *CachedStorage) Stats() lru.Stats {
	return s.cache.Stats()
}

// Len returns the number of the cached records
func (s *CachedStorage) Len() int {
	return s.cache.Len()
}
