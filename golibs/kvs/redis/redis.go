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
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/golibs/ulidutils"
)

type (
	// Storage is the kvs.Storage over redis. Every record is kept in a hash
	// with the value and version fields, the expiration time is set as the
	// redis key TTL.
	Storage struct {
		rdb    *redis.Client
		logger logging.Logger
	}

	keysIterator struct {
		ctx context.Context
		si  *redis.ScanIterator
		val *string
	}
)

const (
	keyPrefix  = "/kvs/"
	fldValue   = "value"
	fldVersion = "ver"
)

var _ kvs.Storage = (*Storage)(nil)

// New returns the Storage for the redis addressed by opts. The connection is
// established lazily, Init checks it.
func New(opts *redis.Options) *Storage {
	return &Storage{rdb: redis.NewClient(opts), logger: logging.NewLogger("kvs.redis")}
}

// Init implements linker.Initializer
func (s *Storage) Init(ctx context.Context) error {
	s.logger.Infof("Initializing, pinging %s", s.rdb.Options().Addr)
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("could not connect to redis %s: %s: %w", s.rdb.Options().Addr, err, errors.ErrCommunication)
	}
	return nil
}

// Shutdown implements linker.Shutdowner
func (s *Storage) Shutdown() {
	s.logger.Infof("Shutting down...")
	_ = s.rdb.Close()
}

func (s *Storage) Create(ctx context.Context, record kvs.Record) (string, error) {
	key := rKey(record.Key)
	record.Version = ulidutils.NewID()
	err := s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("the record with key=%s: %w", record.Key, errors.ErrExist)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return write(ctx, pipe, key, record)
		})
		return err
	}, key)
	if err != nil {
		return "", checkErr(err)
	}
	return record.Version, nil
}

func (s *Storage) Get(ctx context.Context, key string) (kvs.Record, error) {
	rk := rKey(key)
	var (
		fields *redis.StringStringMapCmd
		ttl    *redis.DurationCmd
	)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		fields = pipe.HGetAll(ctx, rk)
		ttl = pipe.PTTL(ctx, rk)
		return nil
	})
	if err != nil {
		return kvs.Record{}, checkErr(err)
	}
	m := fields.Val()
	ver, ok := m[fldVersion]
	if !ok {
		return kvs.Record{}, errors.ErrNotExist
	}
	r := kvs.Record{Key: key, Value: []byte(m[fldValue]), Version: ver}
	if d := ttl.Val(); d > 0 {
		r.ExpiresAt = cast.Ptr(time.Now().Add(d))
	}
	return r, nil
}

func (s *Storage) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	record.Version = ulidutils.NewID()
	key := rKey(record.Key)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		return write(ctx, pipe, key, record)
	})
	if err != nil {
		return kvs.Record{}, checkErr(err)
	}
	return record, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	cnt, err := s.rdb.Del(ctx, rKey(key)).Result()
	if err != nil {
		return checkErr(err)
	}
	if cnt == 0 {
		return errors.ErrNotExist
	}
	return nil
}

// ListKeys allows to read the keys by the pattern provided. The pattern is
// passed to the redis SCAN MATCH, which supports the glob-style syntax.
func (s *Storage) ListKeys(ctx context.Context, pattern string) (iterable.Iterator[string], error) {
	si := s.rdb.Scan(ctx, 0, rKey(pattern), 1000).Iterator()
	return &keysIterator{ctx: ctx, si: si}, nil
}

// write replaces the record hash and sets its expiration in the pipe
func write(ctx context.Context, pipe redis.Pipeliner, key string, r kvs.Record) error {
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, fldValue, r.Value, fldVersion, r.Version)
	if r.ExpiresAt != nil {
		pipe.PExpire(ctx, key, expiration(r.ExpiresAt, time.Now()))
	}
	return nil
}

func checkErr(err error) error {
	if err == nil {
		return nil
	}
	if err == redis.Nil {
		return errors.ErrNotExist
	}
	if errors.Is(err, errors.ErrExist) {
		return err
	}
	if errors.Is(err, redis.TxFailedErr) {
		// the watched key was modified by someone else
		return fmt.Errorf("redis: %s: %w", err, errors.ErrConflict)
	}
	return fmt.Errorf("redis: %s: %w", err, errors.ErrCommunication)
}

func expiration(eat *time.Time, curT time.Time) time.Duration {
	expiration := time.Duration(0)
	if eat != nil {
		expiration = (*eat).Sub(curT)
		if expiration < time.Millisecond {
			expiration = time.Millisecond
		}
	}
	return expiration
}

func rKey(key string) string {
	return keyPrefix + strings.TrimLeft(key, "/")
}

func key(rKey string) string {
	return strings.TrimPrefix(rKey, keyPrefix)
}

var _ iterable.Iterator[string] = (*keysIterator)(nil)

func (k *keysIterator) HasNext() bool {
	if k.val == nil && k.si != nil && k.si.Next(k.ctx) {
		k.val = cast.Ptr(key(k.si.Val()))
	}
	return k.val != nil
}

func (k *keysIterator) Next() (string, bool) {
	if k.HasNext() {
		res := *k.val
		k.val = nil
		return res, true
	}
	return "", false
}

func (k *keysIterator) Close() error {
	k.si = nil
	k.val = nil
	return nil
}
