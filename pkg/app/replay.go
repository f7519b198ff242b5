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
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/solarisdb/lrukv/golibs/cast"
	"github.com/solarisdb/lrukv/golibs/container/iterable"
	"github.com/solarisdb/lrukv/golibs/container/lru"
	"github.com/solarisdb/lrukv/golibs/errors"
	"github.com/solarisdb/lrukv/golibs/kvs"
	"github.com/solarisdb/lrukv/golibs/logging"
)

type (
	// replayer executes the script commands against the Storage, one command
	// per line:
	//
	//	put <key> <value>
	//	putex <key> <ttl> <value>
	//	create <key> <value>
	//	get <key>
	//	del <key>
	//	keys <pattern>, the keys are printed sorted
	//	stats
	//
	// Empty lines and lines started from # are skipped.
	replayer struct {
		Storage kvs.Storage `inject:"storage"`

		in     io.Reader
		out    io.Writer
		logger logging.Logger
	}

	statsProvider interface {
		Stats() lru.Stats
		Len() int
	}
)

func newReplayer(in io.Reader, out io.Writer) *replayer {
	return &replayer{in: in, out: out, logger: logging.NewLogger("lrukv.replayer")}
}

func (r *replayer) run(ctx context.Context) error {
	sc := bufio.NewScanner(r.in)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		cmd := strings.TrimSpace(sc.Text())
		if cmd == "" || strings.HasPrefix(cmd, "#") {
			continue
		}
		if err := r.exec(ctx, cmd); err != nil {
			return fmt.Errorf("line %d %q: %w", line, cmd, err)
		}
	}
	return sc.Err()
}

func (r *replayer) exec(ctx context.Context, cmd string) error {
	name, args := splitArgs(cmd)
	r.logger.Tracef("exec %s %v", name, args)
	switch name {
	case "put", "create":
		if len(args) != 2 {
			return fmt.Errorf("%s expects <key> <value>: %w", name, errors.ErrInvalid)
		}
		return r.put(ctx, name == "create", kvs.Record{Key: args[0], Value: []byte(args[1])})
	case "putex":
		if len(args) != 3 {
			return fmt.Errorf("putex expects <key> <ttl> <value>: %w", errors.ErrInvalid)
		}
		ttl, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("bad ttl %q: %w", args[1], errors.ErrInvalid)
		}
		return r.put(ctx, false, kvs.Record{Key: args[0], Value: []byte(args[2]), ExpiresAt: cast.Ptr(time.Now().Add(ttl))})
	case "get":
		if len(args) != 1 {
			return fmt.Errorf("get expects <key>: %w", errors.ErrInvalid)
		}
		rec, err := r.Storage.Get(ctx, args[0])
		if errors.Is(err, errors.ErrNotExist) {
			return r.println("(nil)")
		}
		if err != nil {
			return err
		}
		return r.println(string(rec.Value))
	case "del":
		if len(args) != 1 {
			return fmt.Errorf("del expects <key>: %w", errors.ErrInvalid)
		}
		err := r.Storage.Delete(ctx, args[0])
		if errors.Is(err, errors.ErrNotExist) {
			return r.println("(nil)")
		}
		if err != nil {
			return err
		}
		return r.println("OK")
	case "keys":
		pattern := "*"
		if len(args) > 0 {
			pattern = args[0]
		}
		it, err := r.Storage.ListKeys(ctx, pattern)
		if err != nil {
			return err
		}
		keys := iterable.Collect(it)
		sort.Strings(keys)
		for _, k := range keys {
			if err := r.println(k); err != nil {
				return err
			}
		}
		return nil
	case "stats":
		sp, ok := r.Storage.(statsProvider)
		if !ok {
			return fmt.Errorf("the storage doesn't collect stats: %w", errors.ErrInvalid)
		}
		st := sp.Stats()
		return r.println(fmt.Sprintf("len=%d hits=%d misses=%d evictions=%d ratio=%.2f",
			sp.Len(), st.Hits, st.Misses, st.Evictions, st.HitRatio()))
	}
	return fmt.Errorf("unknown command %q: %w", name, errors.ErrInvalid)
}

func (r *replayer) put(ctx context.Context, create bool, rec kvs.Record) error {
	if create {
		_, err := r.Storage.Create(ctx, rec)
		if errors.Is(err, errors.ErrExist) {
			return r.println("(exists)")
		}
		if err != nil {
			return err
		}
		return r.println("OK")
	}
	if _, err := r.Storage.Put(ctx, rec); err != nil {
		return err
	}
	return r.println("OK")
}

func (r *replayer) println(s string) error {
	_, err := fmt.Fprintln(r.out, s)
	return err
}

// splitArgs splits the command to its name and arguments. The last argument
// of put, putex and create is the rest of the line, so the values may contain
// spaces.
func splitArgs(cmd string) (string, []string) {
	fields := strings.Fields(cmd)
	name := strings.ToLower(fields[0])
	n := 0
	switch name {
	case "put", "create":
		n = 2
	case "putex":
		n = 3
	}
	if n == 0 || len(fields)-1 <= n {
		return name, fields[1:]
	}
	rest := strings.TrimSpace(cmd[len(fields[0]):])
	parts := make([]string, 0, n)
	for i := 0; i < n-1; i++ {
		f, tail, _ := strings.Cut(rest, " ")
		parts = append(parts, f)
		rest = strings.TrimSpace(tail)
	}
	return name, append(parts, rest)
}
