// Copyright 2023 The acquirecloud Authors
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

/*
kvs package contains interfaces and structures for working with a key-value storage.
The storages are used as the backends behind the LRU cache: in-memory, embedded
(buntdb) and remote (redis) implementations are provided in the sub-packages.
*/

package kvs

import (
	"context"
	"time"

	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
)

type (
	// Record is the storage unit: an opaque value addressed by the key
	Record struct {
		Key   string
		Value []byte

		// Version is assigned by the Storage on every write and ignored in
		// Create and Put arguments. Versions are ULIDs, so a later write has
		// the greater version.
		Version string

		// ExpiresAt is the moment the record disappears, nil means never
		ExpiresAt *time.Time
	}

	// Storage keeps records by their keys. Expired records are never
	// returned, every implementation treats them as missing.
	Storage interface {
		// Create writes the new record and returns its version. ErrExist is
		// returned if the key is already taken.
		Create(ctx context.Context, record Record) (string, error)

		// Get returns the record by its key or ErrNotExist.
		Get(ctx context.Context, key string) (Record, error)

		// Put writes the record whether the key exists or not and returns it
		// with the new version.
		Put(ctx context.Context, record Record) (Record, error)

		// Delete removes the record by its key or returns ErrNotExist.
		Delete(ctx context.Context, key string) error

		// ListKeys returns the keys matching the glob pattern (see
		// github.com/gobwas/glob). An implementation may reject a malformed
		// pattern with ErrInvalid. The keys order is not defined.
		ListKeys(ctx context.Context, pattern string) (iterable.Iterator[string], error)
	}
)

// Copy returns copy of the record r
func (r Record) Copy() Record {
	var res Record
	res.Key = r.Key

	if r.Value != nil {
		res.Value = make([]byte, len(r.Value))
		copy(res.Value, r.Value)
	}
	res.Version = r.Version
	if r.ExpiresAt != nil {
		res.ExpiresAt = cast.Ptr(*r.ExpiresAt)
	}
	return res
}

// Expired returns whether the record is expired by the moment now
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !r.ExpiresAt.After(now)
}
