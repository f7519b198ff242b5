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
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-redis/redis/v8"
	"github.com/logrange/linker"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/kvs/buntdb"
	"github.com/solarisdb/lrukv/golibs/kvs/inmem"
	kvsredis "github.com/solarisdb/lrukv/golibs/kvs/redis"
	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/pkg/storage/cache"
)

// Run wires the cached storage over the configured backend and replays the
// commands read from script, writing the results to out.
func Run(ctx context.Context, cfg *Config, script io.Reader, out io.Writer) (err error) {
	log := logging.NewLogger("lrukv")
	log.Infof("starting replay")
	log.Debugf("config: %s", spew.Sdump(cfg))
	defer log.Infof("replay is done")

	if err := cfg.Validate(); err != nil {
		return err
	}
	cs, err := cache.NewCachedStorage(cfg.Cache, newBackend(cfg.Backend))
	if err != nil {
		return err
	}
	rp := newReplayer(script, out)

	inj := linker.New()
	inj.Register(linker.Component{Name: "storage", Value: cs})
	inj.Register(linker.Component{Name: "replayer", Value: rp})
	if err := initComponents(ctx, inj); err != nil {
		return err
	}
	defer inj.Shutdown()

	return rp.run(ctx)
}

func newBackend(cfg BackendConfig) kvs.Storage {
	switch cfg.Type {
	case BackendBuntDB:
		return buntdb.NewStorage(buntdb.Config{DBFilePath: cfg.BuntDBFile})
	case BackendRedis:
		return kvsredis.New(&redis.Options{Addr: cfg.RedisAddr})
	default:
		return inmem.New()
	}
}

// initComponents runs the injector initialization, which panics if a
// component could not be initialized
func initComponents(ctx context.Context, inj *linker.Injector) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not initialize components: %v", r)
		}
	}()
	inj.Init(ctx)
	return nil
}
