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

	"github.com/solarisdb/lrukv/golibs/container"
)

type (
	record[K comparable] struct {
		key K
		h   handle
	}

	// index maps keys to the entries handles. The number of buckets is fixed
	// at creation, every bucket is a short slice scanned linearly.
	index[K comparable] struct {
		buckets [][]record[K]
		hasher  Hasher[K]
		size    int
	}
)

func newIndex[K comparable](width int, hasher Hasher[K]) *index[K] {
	return &index[K]{buckets: make([][]record[K], width), hasher: hasher}
}

func (ix *index[K]) bucket(key K) int {
	b := ix.hasher(key, len(ix.buckets))
	if b < 0 || b >= len(ix.buckets) {
		panic(fmt.Sprintf("lru: hasher returned %d for the width %d", b, len(ix.buckets)))
	}
	return b
}

func (ix *index[K]) find(b int, key K) int {
	return container.IndexFunc(ix.buckets[b], func(r record[K]) bool { return r.key == key })
}

func (ix *index[K]) get(key K) (handle, bool) {
	b := ix.bucket(key)
	if i := ix.find(b, key); i >= 0 {
		return ix.buckets[b][i].h, true
	}
	return nilHandle, false
}

// set associates the key with h. If the key was already there, the previous
// handle is returned with true.
func (ix *index[K]) set(key K, h handle) (handle, bool) {
	b := ix.bucket(key)
	if i := ix.find(b, key); i >= 0 {
		old := ix.buckets[b][i].h
		ix.buckets[b][i].h = h
		return old, true
	}
	ix.buckets[b] = append(ix.buckets[b], record[K]{key: key, h: h})
	ix.size++
	return nilHandle, false
}

func (ix *index[K]) remove(key K) (handle, bool) {
	b := ix.bucket(key)
	i := ix.find(b, key)
	if i < 0 {
		return nilHandle, false
	}
	h := ix.buckets[b][i].h
	ix.buckets[b] = container.SliceRemoveIdx(ix.buckets[b], i)
	ix.size--
	return h, true
}

func (ix *index[K]) clear() {
	for i := range ix.buckets {
		ix.buckets[i] = nil
	}
	ix.size = 0
}
