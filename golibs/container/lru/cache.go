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
	"fmt"

	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/errors"
)

type (
	// Cache is a fixed capacity key-value container which evicts the least
	// recently used entry when a new key does not fit. Get, Set and Drop take
	// constant time on average, given the hasher spreads the keys well over
	// the index width.
	//
	// Cache is not safe for concurrent use.
	Cache[K comparable, V any] struct {
		es      *entries[K, V]
		idx     *index[K]
		onEvict OnDeleteElemF[K, V]
	}

	// Entry is a key-value pair returned by the Cache iterator
	Entry[K comparable, V any] struct {
		Key   K
		Value V
	}

	// Option configures the Cache on creation
	Option[K comparable, V any] func(c *Cache[K, V])

	// OnDeleteElemF is called for an element leaving a cache
	OnDeleteElemF[K any, V any] func(k K, v V)
)

var (
	// ErrZeroCapacity is returned by New if the capacity is not positive
	ErrZeroCapacity = fmt.Errorf("the cache capacity must be positive: %w", errors.ErrInvalid)
	// ErrZeroIndexWidth is returned by New if the index width is not positive
	ErrZeroIndexWidth = fmt.Errorf("the index width must be positive: %w", errors.ErrInvalid)
	// ErrNilHasher is returned by New if no hasher is provided
	ErrNilHasher = fmt.Errorf("the hasher must not be nil: %w", errors.ErrInvalid)
)

// WithOnEvict sets the function called for every element evicted because the
// cache is full. It is not called for Drop, Clear or overwritten values.
func WithOnEvict[K comparable, V any](f OnDeleteElemF[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) {
		c.onEvict = f
	}
}

// New creates the Cache which holds up to capacity elements. The indexWidth
// is the number of buckets in the key index, the hasher distributes keys
// among them.
func New[K comparable, V any](capacity, indexWidth int, hasher Hasher[K], opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("New(): capacity=%d: %w", capacity, ErrZeroCapacity)
	}
	if indexWidth <= 0 {
		return nil, fmt.Errorf("New(): indexWidth=%d: %w", indexWidth, ErrZeroIndexWidth)
	}
	if hasher == nil {
		return nil, ErrNilHasher
	}
	c := &Cache[K, V]{
		es:  newEntries[K, V](capacity),
		idx: newIndex[K](indexWidth, hasher),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Get returns the value for the key and makes it the most recently used.
// The second value is false if the key is not in the cache.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	h, ok := c.idx.get(key)
	if !ok {
		return *new(V), false
	}
	return c.es.promote(h)
}

// Peek returns the value for the key without changing its recency.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	h, ok := c.idx.get(key)
	if !ok {
		return *new(V), false
	}
	return c.es.peek(h)
}

// Contains returns whether the key is in the cache. The recency is not changed.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.idx.get(key)
	return ok
}

// Set puts the value for the key and makes it the most recently used. If
// the key is new and the cache is full, the least recently used element is
// evicted. Overwriting an existing key never evicts other keys.
func (c *Cache[K, V]) Set(key K, value V) {
	c.unlink(key)
	c.insert(key, value)
}

// Drop removes the key from the cache. It returns false if the key was not found.
func (c *Cache[K, V]) Drop(key K) bool {
	_, ok := c.unlink(key)
	return ok
}

// Len returns the number of elements in the cache
func (c *Cache[K, V]) Len() int {
	return c.es.length
}

// Cap returns the maximum number of elements the cache holds
func (c *Cache[K, V]) Cap() int {
	return c.es.capacity
}

// Oldest returns the least recently used element, the one which will be
// evicted next.
func (c *Cache[K, V]) Oldest() (K, V, bool) {
	e := c.es.at(c.es.tail)
	if e == nil {
		return *new(K), *new(V), false
	}
	return e.key, e.value, true
}

// Keys returns the keys ordered from the most recently used to the least
// recently used one.
func (c *Cache[K, V]) Keys() []K {
	res := make([]K, 0, c.es.length)
	c.es.walk(func(key K, _ V) bool {
		res = append(res, key)
		return true
	})
	return res
}

// Iterator returns the iterator over a snapshot of the cache elements in
// the Keys order. Changes made to the cache after the call are not visible
// for the iterator.
func (c *Cache[K, V]) Iterator() iterable.Iterator[Entry[K, V]] {
	res := make([]Entry[K, V], 0, c.es.length)
	c.es.walk(func(key K, value V) bool {
		res = append(res, Entry[K, V]{Key: key, Value: value})
		return true
	})
	return iterable.WrapSlice(res)
}

// Clear removes all elements from the cache. The eviction callback is not called.
func (c *Cache[K, V]) Clear() {
	c.es.clear()
	c.idx.clear()
}

func (c *Cache[K, V]) String() string {
	return fmt.Sprintf("{len=%d, cap=%d, width=%d}", c.es.length, c.es.capacity, len(c.idx.buckets))
}

// insert appends the new entry and indexes it. The key must not be in the
// cache. If the store evicts its tail, the evicted key leaves the index in
// the same call.
func (c *Cache[K, V]) insert(key K, value V) {
	h, evicted, ok := c.es.append(key, value)
	if ok {
		c.idx.remove(evicted.key)
	}
	c.idx.set(key, h)
	if ok && c.onEvict != nil {
		c.onEvict(evicted.key, evicted.value)
	}
}

// unlink removes the key from both the index and the store.
func (c *Cache[K, V]) unlink(key K) (kv[K, V], bool) {
	h, ok := c.idx.remove(key)
	if !ok {
		return kv[K, V]{}, false
	}
	return c.es.detach(h)
}
