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
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/solarisdb/lrukv/golibs/container/lru"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/golibs/ulidutils"
)

type (
	// BenchConfig describes the synthetic workload
	BenchConfig struct {
		// Ops is the number of operations to run
		Ops int
		// Keys is the number of distinct keys in the workload
		Keys int
		// ReadRatio is the share of Get operations in [0, 1], the rest are Set
		ReadRatio float64
		// KeyGen is the keys generator: seq, ulid or uuid
		KeyGen string
		// Zipf is the skew of the keys popularity, values <= 1 mean the uniform
		// distribution
		Zipf float64
		// Seed initializes the random source
		Seed int64
	}

	// BenchResult contains the workload counters
	BenchResult struct {
		Ops       int
		Hits      int
		Misses    int
		Sets      int
		Evictions int
		Duration  time.Duration
	}
)

const (
	KeyGenSeq  = "seq"
	KeyGenULID = "ulid"
	KeyGenUUID = "uuid"
)

// Bench runs the workload against the LRU cache of the cfg dimensions.
// A Get miss is followed by Set of the key, the way a cache-aside client does.
func Bench(ctx context.Context, cfg *Config, bc BenchConfig) (BenchResult, error) {
	log := logging.NewLogger("lrukv.bench")
	if bc.Ops < 0 || bc.Keys <= 0 || bc.ReadRatio < 0 || bc.ReadRatio > 1 {
		return BenchResult{}, fmt.Errorf("bad bench config %+v: %w", bc, errors.ErrInvalid)
	}
	keys, err := genKeys(bc.KeyGen, bc.Keys)
	if err != nil {
		return BenchResult{}, err
	}

	var res BenchResult
	c, err := lru.New[string, int](cfg.Cache.Capacity, cfg.Cache.IndexWidth, lru.StringHasher,
		lru.WithOnEvict[string, int](func(string, int) { res.Evictions++ }))
	if err != nil {
		return BenchResult{}, err
	}

	rnd := rand.New(rand.NewSource(bc.Seed))
	nextKey := func() string { return keys[rnd.Intn(len(keys))] }
	if bc.Zipf > 1 {
		z := rand.NewZipf(rnd, bc.Zipf, 1, uint64(len(keys)-1))
		nextKey = func() string { return keys[z.Uint64()] }
	}

	log.Infof("running %d ops over %d keys, cache %s", bc.Ops, bc.Keys, c)
	start := time.Now()
	for i := 0; i < bc.Ops; i++ {
		if i&1023 == 0 && ctx.Err() != nil {
			return res, ctx.Err()
		}
		res.Ops++
		k := nextKey()
		if rnd.Float64() < bc.ReadRatio {
			if _, ok := c.Get(k); ok {
				res.Hits++
				continue
			}
			res.Misses++
		}
		c.Set(k, i)
		res.Sets++
	}
	res.Duration = time.Since(start)
	log.Infof("done: %s", res)
	return res, nil
}

// HitRatio returns the share of Get hits
func (r BenchResult) HitRatio() float64 {
	if r.Hits+r.Misses == 0 {
		return 0
	}
	return float64(r.Hits) / float64(r.Hits+r.Misses)
}

func (r BenchResult) String() string {
	return fmt.Sprintf("ops=%d hits=%d misses=%d sets=%d evictions=%d hitRatio=%.3f duration=%s",
		r.Ops, r.Hits, r.Misses, r.Sets, r.Evictions, r.HitRatio(), r.Duration)
}

func genKeys(gen string, n int) ([]string, error) {
	var f func(i int) string
	switch gen {
	case KeyGenSeq, "":
		f = strconv.Itoa
	case KeyGenULID:
		f = func(int) string { return ulidutils.NewID() }
	case KeyGenUUID:
		f = func(int) string { return ulidutils.NewUUID() }
	default:
		return nil, fmt.Errorf("unknown keys generator %q, expecting %s, %s or %s: %w", gen,
			KeyGenSeq, KeyGenULID, KeyGenUUID, errors.ErrInvalid)
	}
	res := make([]string, n)
	for i := range res {
		res[i] = f(i)
	}
	return res, nil
}
