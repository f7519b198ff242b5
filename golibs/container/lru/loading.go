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
package lru

import (
	"context"
	"fmt"
	"sync"

	"github.com/solarisdb/lrukv/golibs/logging"
)

type (
	// LoadingCache is the concurrency-safe Cache which creates the missing
	// elements via the createNewF function provided on the cache creation.
	// Concurrent GetOrCreate calls for one key run createNewF only once, the
	// rest of callers wait for its result.
	LoadingCache[K comparable, V any] struct {
		lock       sync.Mutex
		cache      *Cache[K, V]
		inflight   map[K]*load
		createNewF CreatePoolElemF[K, V]
		onDeleteF  OnDeleteElemF[K, V]
		stats      Stats
		logger     logging.Logger
	}

	// CreatePoolElemF function type for creating new pool elements. The ctx
	// is the one passed to GetOrCreate.
	CreatePoolElemF[K any, V any] func(ctx context.Context, k K) (V, error)

	// load is the createNewF call in progress. The stale load result is
	// returned to its caller, but it is not cached.
	load struct {
		done  chan struct{}
		stale bool
	}

	// Stats contains the LoadingCache counters
	Stats struct {
		Hits      uint64
		Misses    uint64
		Evictions uint64
	}
)

// NewLoadingCache creates the LoadingCache of the capacity. The onDeleteF may
// be nil, otherwise it is called for every element evicted or removed from the
// cache. The callback is invoked under the cache lock, so it must not call
// the cache.
func NewLoadingCache[K comparable, V any](capacity, indexWidth int, hasher Hasher[K],
	createNewF CreatePoolElemF[K, V], onDeleteF OnDeleteElemF[K, V]) (*LoadingCache[K, V], error) {
	if createNewF == nil {
		return nil, fmt.Errorf("NewLoadingCache(): createNewF must not be nil")
	}
	lc := new(LoadingCache[K, V])
	c, err := New[K, V](capacity, indexWidth, hasher, WithOnEvict[K, V](lc.onEvict))
	if err != nil {
		return nil, fmt.Errorf("NewLoadingCache(): %w", err)
	}
	lc.cache = c
	lc.inflight = make(map[K]*load)
	lc.createNewF = createNewF
	lc.onDeleteF = onDeleteF
	lc.logger = logging.NewLogger("lru.LoadingCache")
	return lc, nil
}

// GetOrCreate returns an existing element or creates the new one by its key.
// The createNewF error is returned to the caller and nothing is cached. A
// caller waiting for the creation started by another one gives up when its
// ctx is done.
func (lc *LoadingCache[K, V]) GetOrCreate(ctx context.Context, k K) (V, error) {
	for {
		lc.lock.Lock()
		if v, ok := lc.cache.Get(k); ok {
			lc.stats.Hits++
			lc.lock.Unlock()
			return v, nil
		}
		ld, watcher := lc.inflight[k]
		if !watcher {
			lc.stats.Misses++
			ld = &load{done: make(chan struct{})}
			lc.inflight[k] = ld
		}
		lc.lock.Unlock()

		// another goroutine is already creating the value, wait for it and
		// check the cache again
		if watcher {
			select {
			case <-ld.done:
				continue
			case <-ctx.Done():
				return *new(V), ctx.Err()
			}
		}

		v, err := lc.createNewF(ctx, k)

		lc.lock.Lock()
		close(ld.done)
		delete(lc.inflight, k)
		switch {
		case err != nil:
			lc.logger.Debugf("could not create the value for %v: %s", k, err)
		case ld.stale:
			lc.logger.Debugf("the value for %v was invalidated while being created, not caching it", k)
		default:
			lc.cache.Set(k, v)
		}
		lc.lock.Unlock()

		return v, err
	}
}

// Get returns the cached value for the key without loading it.
func (lc *LoadingCache[K, V]) Get(k K) (V, bool) {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	v, ok := lc.cache.Get(k)
	if ok {
		lc.stats.Hits++
	} else {
		lc.stats.Misses++
	}
	return v, ok
}

// Put sets the value for the key. The replaced value, if any, is not passed
// to onDeleteF. The creation of the key in progress will not overwrite v.
func (lc *LoadingCache[K, V]) Put(k K, v V) {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	lc.invalidate(k)
	lc.cache.Set(k, v)
}

// Remove deletes the element by key k. It returns true if the element
// was in the collection and false if it was not found. The creation of the
// key in progress will not cache its result.
func (lc *LoadingCache[K, V]) Remove(k K) bool {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	lc.invalidate(k)

	e, ok := lc.cache.unlink(k)
	if !ok {
		return false
	}
	if lc.onDeleteF != nil {
		lc.onDeleteF(e.key, e.value)
	}
	return true
}

// Clear cleans up the cache removing all elements from the least recently used one.
// The function will return number of the elements deleted
func (lc *LoadingCache[K, V]) Clear() int {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	for _, ld := range lc.inflight {
		ld.stale = true
	}
	removed := 0
	for {
		k, v, ok := lc.cache.Oldest()
		if !ok {
			break
		}
		lc.cache.Drop(k)
		if lc.onDeleteF != nil {
			lc.onDeleteF(k, v)
		}
		removed++
	}
	return removed
}

// Len returns the number of elements in the cache
func (lc *LoadingCache[K, V]) Len() int {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	return lc.cache.Len()
}

// Stats returns the copy of the cache counters
func (lc *LoadingCache[K, V]) Stats() Stats {
	lc.lock.Lock()
	defer lc.lock.Unlock()
	return lc.stats
}

// invalidate marks the creation of k in progress, if any, as stale. The lock
// must be held.
func (lc *LoadingCache[K, V]) invalidate(k K) {
	if ld, ok := lc.inflight[k]; ok {
		ld.stale = true
	}
}

// onEvict is called by the underlying Cache with the lock held
func (lc *LoadingCache[K, V]) onEvict(k K, v V) {
	lc.stats.Evictions++
	lc.logger.Tracef("evicted %v", k)
	if lc.onDeleteF != nil {
		lc.onDeleteF(k, v)
	}
}

// HitRatio returns the share of hits among all the requests, or 0 if there
// were no requests.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
