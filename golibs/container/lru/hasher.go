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
	"github.com/cespare/xxhash/v2"
)

type (
	// Hasher maps the key to a bucket number in [0, width). The function must
	// be deterministic: the same key must always give the same bucket for the
	// same width.
	Hasher[K any] func(key K, width int) int

	// Integer is the set of types IntHasher accepts.
	Integer interface {
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
			~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
	}
)

// IntHasher returns the key modulo width. Negative keys are taken by their
// two's complement, so the result is always in range.
func IntHasher[K Integer](key K, width int) int {
	return int(uint64(key) % uint64(width))
}

// StringHasher hashes the key with xxhash.
func StringHasher(key string, width int) int {
	return int(xxhash.Sum64String(key) % uint64(width))
}

// Hasher64 turns a 64-bit hash function into the Hasher. It is handy for
// composite keys, for example:
//
//	lru.Hasher64(func(k point) uint64 { return uint64(k.x)<<32 | uint64(k.y) })
func Hasher64[K any](hashF func(key K) uint64) Hasher[K] {
	return func(key K, width int) int {
		return int(hashF(key) % uint64(width))
	}
}
