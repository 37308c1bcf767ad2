package main

import (
	"context"
	"fmt"
	"io"

	jd "github.com/unkn0wn-root/jsondefaults"
	"github.com/unkn0wn-root/jsondefaults/store"
)

// run benchmarks cfg.Rounds times and prints one table per round to out.
// History problems are reported through hooks and never fail the run.
func run(ctx context.Context, cfg *Config, out io.Writer, log jd.Logger, hooks jd.Hooks) error {
	b, err := jd.New(jd.Options{
		Iterations: cfg.Iterations,
		Methods:    cfg.Methods(),
		Baseline:   cfg.Baseline,
		PauseGC:    cfg.PauseGC,
		Logger:     log,
		Hooks:      hooks,
	})
	if err != nil {
		return err
	}

	hist, err := openHistory(ctx, cfg.Store, log, hooks)
	if err != nil {
		hooks.HistoryError("open", err)
		log.Warn("running without history", jd.Fields{"err": err})
		hist = nil
	}
	if hist != nil {
		defer hist.Close(context.WithoutCancel(ctx))
	}

	input := jd.Fixture(cfg.Objects, cfg.Members)
	log.Info("fixture built", jd.Fields{"objects": cfg.Objects, "members": cfg.Members, "methods": len(b.Methods())})

	for round := 1; round <= cfg.Rounds; round++ {
		rep, err := b.Run(ctx, input)
		if err != nil {
			return err
		}
		rep = remember(ctx, hist, rep, hooks)

		if cfg.Rounds > 1 {
			if round > 1 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "Round %d/%d\n", round, cfg.Rounds)
		}
		if err := jd.WriteTable(out, rep); err != nil {
			return err
		}
	}
	return nil
}

// remember attaches the previous report to rep and saves rep as the latest.
func remember(ctx context.Context, hist store.History[jd.Report], rep jd.Report, hooks jd.Hooks) jd.Report {
	if hist == nil {
		return rep
	}
	prev, _, ok, err := hist.Latest(ctx)
	if err != nil {
		hooks.HistoryError("load", err)
	} else if ok {
		rep = rep.WithPrevious(prev)
	}
	if _, err := hist.Save(ctx, rep); err != nil {
		hooks.HistoryError("save", err)
	}
	return rep
}
