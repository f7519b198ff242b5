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
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/ulidutils"
)

type service struct {
	lock sync.Mutex
	recs map[string]kvs.Record
	nowF func() time.Time
}

var _ kvs.Storage = (*service)(nil)

// New returns new kvs.Storage in memory
func New() kvs.Storage {
	return newService(time.Now)
}

func newService(nowF func() time.Time) *service {
	return &service{recs: make(map[string]kvs.Record), nowF: nowF}
}

func (s *service) Create(ctx context.Context, record kvs.Record) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.get(record.Key); ok {
		return "", errors.ErrExist
	}
	record = record.Copy()
	record.Version = ulidutils.NewID()
	s.recs[record.Key] = record
	return record.Version, nil
}

func (s *service) Get(ctx context.Context, key string) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	r, ok := s.get(key)
	if !ok {
		return kvs.Record{}, errors.ErrNotExist
	}
	return r.Copy(), nil
}

func (s *service) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	if err := ctx.Err(); err != nil {
		return kvs.Record{}, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	record = record.Copy()
	record.Version = ulidutils.NewID()
	s.recs[record.Key] = record
	return record.Copy(), nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.get(key); !ok {
		return errors.ErrNotExist
	}
	delete(s.recs, key)
	return nil
}

// ListKeys returns the keys matching the pattern in the lexicographical order
func (s *service) ListKeys(ctx context.Context, pattern string) (iterable.Iterator[string], error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("could not compile the pattern %q: %w", pattern, errors.ErrInvalid)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	res := []string{}
	for k := range s.recs {
		if _, ok := s.get(k); ok && g.Match(k) {
			res = append(res, k)
		}
	}
	sort.Strings(res)
	return iterable.WrapSlice(res), nil
}

// get returns the record by key. The expired record is deleted and not returned.
func (s *service) get(key string) (kvs.Record, bool) {
	r, ok := s.recs[key]
	if !ok {
		return kvs.Record{}, false
	}
	if r.Expired(s.nowF()) {
		delete(s.recs, key)
		return kvs.Record{}, false
	}
	return r, true
}
