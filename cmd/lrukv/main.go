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
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/solarisdb/lrukv/golibs/logging"
	"github.com/solarisdb/lrukv/pkg/app"
	"github.com/spf13/cobra"

	ctxutil "github.com/solarisdb/lrukv/golibs/context"
)

func main() {
	ctx, cancel := ctxutil.NewSignalsContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgFile  string
		logLevel string
	)
	root := &cobra.Command{
		Use:           "lrukv",
		Short:         "lrukv is a key-value store with the fixed size LRU cache in front of a backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.SetLevel(lvl)
			logging.SetOutput(cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "the .yaml or .json config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "one of error, warn, info, debug, trace")
	root.AddCommand(newReplayCmd(&cfgFile), newBenchCmd(&cfgFile))
	return root
}

func newReplayCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "replay [file]",
		Short: "replays the commands from the file or stdin against the cached storage",
		Long: `replays the commands, one per line:
	put <key> <value>
	putex <key> <ttl> <value>
	create <key> <value>
	get <key>
	del <key>
	keys <pattern>
	stats`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.BuildConfig(*cfgFile)
			if err != nil {
				return err
			}
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("could not open the script: %w", err)
				}
				defer f.Close()
				in = f
			}
			return app.Run(cmd.Context(), cfg, in, cmd.OutOrStdout())
		},
	}
}

func newBenchCmd(cfgFile *string) *cobra.Command {
	bc := app.BenchConfig{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "runs the synthetic workload against the LRU cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.BuildConfig(*cfgFile)
			if err != nil {
				return err
			}
			res, err := app.Bench(cmd.Context(), cfg, bc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().IntVar(&bc.Ops, "ops", 1000000, "number of operations")
	cmd.Flags().IntVar(&bc.Keys, "keys", 10000, "number of distinct keys")
	cmd.Flags().Float64Var(&bc.ReadRatio, "read-ratio", 0.9, "share of get operations")
	cmd.Flags().StringVar(&bc.KeyGen, "keygen", app.KeyGenSeq, "keys generator: seq, ulid or uuid")
	cmd.Flags().Float64Var(&bc.Zipf, "zipf", 0, "keys popularity skew, > 1 enables the zipf distribution")
	cmd.Flags().Int64Var(&bc.Seed, "seed", 1, "random seed")
	return cmd
}
