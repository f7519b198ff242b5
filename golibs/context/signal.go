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
package context

import (
	"context"
	"os"
	"os/signal"

	"github.com/solarisdb/lrukv/golibs/logging"
)

// NewSignalsContext returns a context.Context that will be closed by one of the provided
// syscall.Signal(s) or when the parent is closed. The returned cancel function releases
// the signal subscription and must be called when the context is not needed anymore.
func NewSignalsContext(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, signals...)
	go func() {
		defer signal.Stop(quit)
		select {
		case s := <-quit:
			logging.NewLogger("context.signals").Infof("got signal %s, closing the context", s)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
