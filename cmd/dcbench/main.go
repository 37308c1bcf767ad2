// Command dcbench compares default conversion callbacks for JSON encoding
// and prints a timing table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		configPath string
		flags      = DefaultConfig()
	)

	cmd := &cobra.Command{
		Use:   "dcbench",
		Short: "Benchmark default conversion callbacks for JSON encoding",
		Long: `dcbench encodes a fixture of nested records with every configured method,
checks that all methods agree, then times each one and prints:

  Method        | Time    | Time /JSON Cached

Times are seconds for all iterations of a method. With --store, each round is
saved and the previous round's timings are shown in a Prev column.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := Load(configPath)
			if err != nil {
				return err
			}
			cfg.applyFlags(cmd.Flags(), flags)
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, flush, err := newLogger(cfg.Logging, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer flush()

			return run(cmd.Context(), cfg, cmd.OutOrStdout(), log, newHooks(cfg.Logging, cmd.ErrOrStderr()))
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file")
	f.IntVar(&flags.Iterations, "iterations", flags.Iterations, "encode calls per method")
	f.IntVar(&flags.Objects, "objects", flags.Objects, "objects in the fixture")
	f.IntVar(&flags.Members, "members", flags.Members, "members per object")
	f.BoolVar(&flags.Extended, "extended", false, "also time sonic, go-json and protojson")
	f.BoolVar(&flags.Binary, "binary", false, "also time msgpack and cbor")
	f.StringVar(&flags.Baseline, "baseline", flags.Baseline, "method the ratio column is relative to")
	f.IntVar(&flags.Rounds, "rounds", flags.Rounds, "times to repeat the whole benchmark")
	f.BoolVar(&flags.PauseGC, "pause-gc", false, "disable the garbage collector during each trial")
	f.StringVar(&flags.Store.Kind, "store", flags.Store.Kind, "history store: none, ristretto, bigcache or redis")
	f.StringVar(&flags.Store.RedisAddr, "redis-addr", flags.Store.RedisAddr, "redis address for --store redis")
	f.StringVar(&flags.Store.Codec, "codec", flags.Store.Codec, "history encoding: msgpack or cbor")
	f.StringVar(&flags.Logging.Backend, "log", flags.Logging.Backend, "log backend: zap, logrus or slog")
	f.BoolVarP(&flags.Logging.Verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
