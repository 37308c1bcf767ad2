// Package sloghooks reports bench events through log/slog.
package sloghooks

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/jsondefaults"
)

type Options struct {
	// Sampling to avoid floods across many rounds; 0/1 = log all.
	TrialEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	trialCtr atomic.Uint64
}

var _ jsondefaults.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) TrialFinished(method string, elapsed time.Duration, iterations int) {
	if h.l == nil || !sample(h.opts.TrialEvery, &h.trialCtr) {
		return
	}
	per := time.Duration(0)
	if iterations > 0 {
		per = elapsed / time.Duration(iterations)
	}
	h.l.Debug("jsondefaults.trial_finished",
		"method", method,
		"elapsed", elapsed,
		"per_op", per,
		"iterations", iterations)
}

func (h *Hooks) VerifyFailed(method, reference string, check jsondefaults.Check) {
	if h.l == nil {
		return
	}
	h.l.Error("jsondefaults.verify_failed",
		"method", method,
		"reference", reference,
		"check", check.String())
}

func (h *Hooks) HistoryError(op string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("jsondefaults.history_error",
		"op", op,
		"err", err)
}
