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
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/pkg/storage/cache"
	"github.com/stretchr/testify/assert"
)

const script = `
# comments and empty lines are skipped

put a hello world
get a
get b
create a other
create b  spaced   value
get b
keys *
del a
del a
get a
putex c 1h temp
get c
stats
`

const scriptOut = `OK
hello world
(nil)
(exists)
OK
spaced   value
a
b
OK
(nil)
(nil)
OK
temp
`

func TestRun_Backends(t *testing.T) {
	mini := miniredis.RunT(t)
	for _, bc := range []BackendConfig{
		{Type: BackendInmem},
		{Type: BackendBuntDB, BuntDBFile: filepath.Join(t.TempDir(), "replay.db")},
		{Type: BackendRedis, RedisAddr: mini.Addr()},
	} {
		t.Run(bc.Type, func(t *testing.T) {
			cfg := &Config{Cache: cache.Config{Capacity: 2, IndexWidth: 2}, Backend: bc}
			var out bytes.Buffer
			assert.Nil(t, Run(context.Background(), cfg, strings.NewReader(script), &out))
			lines := strings.SplitN(out.String(), "len=", 2)
			assert.Equal(t, scriptOut, lines[0])
			assert.True(t, strings.HasPrefix(lines[1], "2 hits="), lines[1])
		})
	}
}

func TestRun_Errors(t *testing.T) {
	cfg := getDefaultConfig()
	var out bytes.Buffer
	err := Run(context.Background(), cfg, strings.NewReader("put a 1\nflush\n"), &out)
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	assert.Contains(t, err.Error(), "line 2")
	assert.Equal(t, "OK\n", out.String())

	err = Run(context.Background(), cfg, strings.NewReader("get\n"), &out)
	assert.True(t, errors.Is(err, errors.ErrInvalid))
	err = Run(context.Background(), cfg, strings.NewReader("putex a abc v\n"), &out)
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	cfg.Cache.Capacity = 0
	err = Run(context.Background(), cfg, strings.NewReader(""), &out)
	assert.True(t, errors.Is(err, errors.ErrInvalid))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Run(ctx, getDefaultConfig(), strings.NewReader("put a 1\n"), &out)
	assert.Equal(t, context.Canceled, err)
}

func TestSplitArgs(t *testing.T) {
	n, args := splitArgs("PUT k  a b ")
	assert.Equal(t, "put", n)
	assert.Equal(t, []string{"k", "a b"}, args)
	n, args = splitArgs("putex k 10s v  w")
	assert.Equal(t, "putex", n)
	assert.Equal(t, []string{"k", "10s", "v  w"}, args)
	_, args = splitArgs("put k")
	assert.Equal(t, []string{"k"}, args)
	_, args = splitArgs("get k")
	assert.Equal(t, []string{"k"}, args)
	_, args = splitArgs("stats")
	assert.Equal(t, []string{}, args)
}
