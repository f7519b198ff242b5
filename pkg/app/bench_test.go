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
package app

import (
	"context"
	"testing"

	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/pkg/storage/cache"
	"github.com/stretchr/testify/assert"
)

func TestBench(t *testing.T) {
	cfg := &Config{Cache: cache.Config{Capacity: 100, IndexWidth: 64}}
	for _, kg := range []string{KeyGenSeq, KeyGenULID, KeyGenUUID} {
		res, err := Bench(context.Background(), cfg, BenchConfig{Ops: 10000, Keys: 50, ReadRatio: 0.9, KeyGen: kg, Seed: 1})
		assert.Nil(t, err)
		assert.Equal(t, 10000, res.Ops)
		assert.Equal(t, res.Ops, res.Hits+res.Sets)
		// all the keys fit, so only the first touches miss
		assert.Equal(t, 0, res.Evictions)
		assert.LessOrEqual(t, res.Misses, 50)
		assert.Greater(t, res.HitRatio(), 0.9)
	}
}

func TestBench_Evictions(t *testing.T) {
	cfg := &Config{Cache: cache.Config{Capacity: 10, IndexWidth: 8}}
	uniform, err := Bench(context.Background(), cfg, BenchConfig{Ops: 20000, Keys: 1000, ReadRatio: 1, Seed: 2})
	assert.Nil(t, err)
	assert.Greater(t, uniform.Evictions, 0)
	assert.Equal(t, uniform.Misses, uniform.Sets)

	skewed, err := Bench(context.Background(), cfg, BenchConfig{Ops: 20000, Keys: 1000, ReadRatio: 1, Zipf: 1.5, Seed: 2})
	assert.Nil(t, err)
	assert.Greater(t, skewed.HitRatio(), uniform.HitRatio())
}

func TestBench_Errors(t *testing.T) {
	cfg := &Config{Cache: cache.Config{Capacity: 10, IndexWidth: 8}}
	_, err := Bench(context.Background(), cfg, BenchConfig{Ops: 1, Keys: 0})
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	_, err = Bench(context.Background(), cfg, BenchConfig{Ops: 1, Keys: 1, ReadRatio: 2})
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	_, err = Bench(context.Background(), cfg, BenchConfig{Ops: 1, Keys: 1, KeyGen: "rnd"})
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	_, err = Bench(context.Background(), &Config{}, BenchConfig{Ops: 1, Keys: 1})
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Bench(ctx, cfg, BenchConfig{Ops: 10, Keys: 1})
	assert.Equal(t, context.Canceled, err)
}
