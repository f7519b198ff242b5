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
package buntdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/stretchr/testify/assert"
)

func TestStorage_Create(t *testing.T) {
	ctx := context.Background()
	s := getStorage(ctx, t)

	v, err := s.Create(ctx, kvs.Record{Key: "aa", Value: []byte("v")})
	assert.Nil(t, err)
	assert.NotEmpty(t, v)

	_, err = s.Create(ctx, kvs.Record{Key: "aa"})
	assert.Equal(t, errors.ErrExist, err)
}

func TestStorage_GetPut(t *testing.T) {
	ctx := context.Background()
	s := getStorage(ctx, t)

	_, err := s.Get(ctx, "aa")
	assert.Equal(t, errors.ErrNotExist, err)

	r1, err := s.Put(ctx, kvs.Record{Key: "aa", Value: []byte("1")})
	assert.Nil(t, err)
	r2, err := s.Get(ctx, "aa")
	assert.Nil(t, err)
	assert.Equal(t, r1, r2)

	r3, err := s.Put(ctx, kvs.Record{Key: "aa", Value: []byte("2")})
	assert.Nil(t, err)
	assert.Less(t, r1.Version, r3.Version)
	r2, err = s.Get(ctx, "aa")
	assert.Nil(t, err)
	assert.Equal(t, []byte("2"), r2.Value)
}

func TestStorage_Expiration(t *testing.T) {
	ctx := context.Background()
	s := getStorage(ctx, t)

	_, err := s.Put(ctx, kvs.Record{Key: "aa", ExpiresAt: cast.Ptr(time.Now().Add(time.Hour))})
	assert.Nil(t, err)
	r, err := s.Get(ctx, "aa")
	assert.Nil(t, err)
	assert.NotNil(t, r.ExpiresAt)

	_, err = s.Put(ctx, kvs.Record{Key: "bb", ExpiresAt: cast.Ptr(time.Now().Add(-time.Hour))})
	assert.Nil(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = s.Get(ctx, "bb")
	assert.Equal(t, errors.ErrNotExist, err)
}

func TestStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := getStorage(ctx, t)

	assert.Equal(t, errors.ErrNotExist, s.Delete(ctx, "aa"))
	_, err := s.Create(ctx, kvs.Record{Key: "aa"})
	assert.Nil(t, err)
	assert.Nil(t, s.Delete(ctx, "aa"))
	assert.Equal(t, errors.ErrNotExist, s.Delete(ctx, "aa"))
}

func TestStorage_ListKeys(t *testing.T) {
	ctx := context.Background()
	s := getStorage(ctx, t)
	for _, k := range []string{"key2", "key1", "aaa", "ee", "ey"} {
		_, err := s.Create(ctx, kvs.Record{Key: k})
		assert.Nil(t, err)
	}

	it, err := s.ListKeys(ctx, "*")
	assert.Nil(t, err)
	assert.Equal(t, []string{"aaa", "ee", "ey", "key1", "key2"}, iterable.Collect(it))

	it, err = s.ListKeys(ctx, "k*")
	assert.Nil(t, err)
	assert.Equal(t, []string{"key1", "key2"}, iterable.Collect(it))

	it, err = s.ListKeys(ctx, "*ey*")
	assert.Nil(t, err)
	assert.Equal(t, []string{"ey", "key1", "key2"}, iterable.Collect(it))

	it, err = s.ListKeys(ctx, "ddd")
	assert.Nil(t, err)
	assert.False(t, it.HasNext())
}

func TestStorage_File(t *testing.T) {
	ctx := context.Background()
	fn := filepath.Join(t.TempDir(), "kvs.db")
	s := NewStorage(Config{DBFilePath: fn})
	assert.Nil(t, s.Init(ctx))
	r, err := s.Put(ctx, kvs.Record{Key: "aa", Value: []byte("persisted")})
	assert.Nil(t, err)
	s.Shutdown()

	s = NewStorage(Config{DBFilePath: fn})
	assert.Nil(t, s.Init(ctx))
	defer s.Shutdown()
	r1, err := s.Get(ctx, "aa")
	assert.Nil(t, err)
	assert.Equal(t, r, r1)
}

func getStorage(ctx context.Context, t *testing.T) *Storage {
	s := NewStorage(Config{})
	assert.Nil(t, s.Init(ctx))
	t.Cleanup(s.Shutdown)
	return s
}
