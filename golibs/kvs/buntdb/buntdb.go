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
	"encoding/json"
	"fmt"
	"time"

	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/golibs/ulidutils"
	"github.com/tidwall/buntdb"
)

type (
	// Config specifies configuration for the records storage
	// based on BuntDB https://github.com/tidwall/buntdb
	Config struct {
		// DBFilePath specifies path to the DB file
		// if empty the in-mem version is used
		DBFilePath string
	}

	// Storage implements kvs.Storage on top of BuntDB
	Storage struct {
		cfg    Config
		db     *buntdb.DB
		logger logging.Logger
	}

	entry struct {
		Value   []byte `json:"value,omitempty"`
		Version string `json:"ver"`
	}
)

var _ kvs.Storage = (*Storage)(nil)

// NewStorage creates new Storage, it must be initialized with Init before use
func NewStorage(cfg Config) *Storage {
	return &Storage{cfg: cfg, logger: logging.NewLogger("kvs.buntdb")}
}

// Init implements linker.Initializer
func (s *Storage) Init(ctx context.Context) error {
	path := s.cfg.DBFilePath
	if len(path) == 0 {
		path = ":memory:"
	}
	s.logger.Infof("Initializing with dbFilePath=%s", path)
	var err error
	s.db, err = buntdb.Open(path)
	if err != nil {
		return fmt.Errorf("buntdb.Open(%s) failed: %w", path, err)
	}
	return nil
}

// Shutdown implements linker.Shutdowner
func (s *Storage) Shutdown() {
	s.logger.Infof("Shutting down...")
	if s.db != nil {
		_ = s.db.Close()
	}
}

func (s *Storage) Create(ctx context.Context, record kvs.Record) (string, error) {
	tx := mustBeginTx(s.db, true)
	defer mustRollback(tx)
	_, err := tx.Get(record.Key)
	if err == nil {
		return "", errors.ErrExist
	}
	if !errors.Is(err, buntdb.ErrNotFound) {
		return "", fmt.Errorf("tx.Get(%s) failed: %w", record.Key, err)
	}
	ver, err := set(tx, record)
	if err != nil {
		return "", err
	}
	mustCommit(tx)
	return ver, nil
}

func (s *Storage) Get(ctx context.Context, key string) (kvs.Record, error) {
	tx := mustBeginTx(s.db, false)
	defer mustRollback(tx)
	val, err := tx.Get(key)
	if errors.Is(err, buntdb.ErrNotFound) {
		return kvs.Record{}, errors.ErrNotExist
	}
	if err != nil {
		return kvs.Record{}, fmt.Errorf("tx.Get(%s) failed: %w", key, err)
	}
	e := mustUnmarshal(val)
	r := kvs.Record{Key: key, Value: e.Value, Version: e.Version}
	if ttl, err := tx.TTL(key); err == nil && ttl > 0 {
		r.ExpiresAt = cast.Ptr(time.Now().Add(ttl))
	}
	return r, nil
}

func (s *Storage) Put(ctx context.Context, record kvs.Record) (kvs.Record, error) {
	tx := mustBeginTx(s.db, true)
	defer mustRollback(tx)
	ver, err := set(tx, record)
	if err != nil {
		return kvs.Record{}, err
	}
	mustCommit(tx)
	record.Version = ver
	return record, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	tx := mustBeginTx(s.db, true)
	defer mustRollback(tx)
	_, err := tx.Delete(key)
	if errors.Is(err, buntdb.ErrNotFound) {
		return errors.ErrNotExist
	}
	if err != nil {
		return fmt.Errorf("tx.Delete(%s) failed: %w", key, err)
	}
	mustCommit(tx)
	return nil
}

// ListKeys returns the keys matching the pattern in the ascending order. The
// pattern supports the * and ? wildcards.
func (s *Storage) ListKeys(ctx context.Context, pattern string) (iterable.Iterator[string], error) {
	tx := mustBeginTx(s.db, false)
	defer mustRollback(tx)
	var res []string
	err := tx.AscendKeys(pattern, func(key, _ string) bool {
		res = append(res, key)
		return ctx.Err() == nil
	})
	if err != nil {
		return nil, fmt.Errorf("tx.AscendKeys(%s) failed: %w", pattern, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return iterable.WrapSlice(res), nil
}

func set(tx *buntdb.Tx, r kvs.Record) (string, error) {
	e := entry{Value: r.Value, Version: ulidutils.NewID()}
	var opts *buntdb.SetOptions
	if r.ExpiresAt != nil {
		ttl := time.Until(*r.ExpiresAt)
		if ttl < time.Millisecond {
			ttl = time.Millisecond
		}
		opts = &buntdb.SetOptions{Expires: true, TTL: ttl}
	}
	if _, _, err := tx.Set(r.Key, mustMarshal(e), opts); err != nil {
		return "", fmt.Errorf("tx.Set(%s) failed: %w", r.Key, err)
	}
	return e.Version, nil
}

func mustBeginTx(db *buntdb.DB, writable bool) *buntdb.Tx {
	tx, err := db.Begin(writable)
	if err != nil {
		panic(fmt.Errorf("mustBeginTx(%t) failed: %v", writable, err))
	}
	return tx
}

func mustCommit(tx *buntdb.Tx) {
	if err := tx.Commit(); err != nil {
		panic(fmt.Errorf("mustCommit() failed: %v", err))
	}
}

func mustRollback(tx *buntdb.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, buntdb.ErrTxClosed) {
		panic(fmt.Errorf("mustRollback() failed: %v", err))
	}
}

func mustMarshal(e entry) string {
	buf, err := json.Marshal(e)
	if err != nil {
		panic(fmt.Errorf("mustMarshal() failed: %v", err))
	}
	return string(buf)
}

func mustUnmarshal(val string) entry {
	var e entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		panic(fmt.Errorf("mustUnmarshal() failed: %v", err))
	}
	return e
}
