package jsondefaults

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/google/go-cmp/cmp"
)

// Result is one timed method.
type Result struct {
	Name    string        `json:"name"`
	Elapsed time.Duration `json:"elapsed"`
	Ratio   float64       `json:"ratio"` // Elapsed / baseline Elapsed
	Bytes   int           `json:"bytes"` // size of one encoded output
}

// Report is the outcome of one Run.
type Report struct {
	Baseline   string    `json:"baseline"`
	Iterations int       `json:"iterations"`
	StartedAt  time.Time `json:"started_at"`
	Results    []Result  `json:"results"`

	// Previous maps method names to the elapsed time of an earlier run.
	// It is only used for display and never stored.
	Previous map[string]time.Duration `json:"-"`
}

// WithPrevious returns r annotated with the timings of prev.
func (r Report) WithPrevious(prev Report) Report {
	r.Previous = make(map[string]time.Duration, len(prev.Results))
	for _, res := range prev.Results {
		r.Previous[res.Name] = res.Elapsed
	}
	return r
}

// Ratio returns t relative to base. It is NaN when base is zero.
func Ratio(t, base time.Duration) float64 {
	if base == 0 {
		return math.NaN()
	}
	return float64(t) / float64(base)
}

// Verify encodes input once per method and checks the outputs agree: exact
// methods byte for byte, semantic methods after decoding. The first exact
// method (or, without one, the first semantic method) is the reference.
func (b *Bench) Verify(ctx context.Context, input any) error {
	outs := make([][]byte, len(b.methods))
	ref := -1
	for i, m := range b.methods {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := m.Encoder.Encode(input)
		if err != nil {
			return &TrialError{Method: m.Name, Err: err}
		}
		outs[i] = out
		if ref < 0 && m.Check == CheckExact {
			ref = i
		}
	}
	if ref < 0 {
		for i, m := range b.methods {
			if m.Check == CheckSemantic {
				ref = i
				break
			}
		}
	}
	if ref < 0 {
		b.log.Debug("nothing to verify", Fields{"methods": len(b.methods)})
		return nil
	}

	refName := b.methods[ref].Name
	var refValue any
	decoded := false
	for i, m := range b.methods {
		if i == ref {
			continue
		}
		switch m.Check {
		case CheckExact:
			if !bytes.Equal(outs[i], outs[ref]) {
				b.hooks.VerifyFailed(m.Name, refName, m.Check)
				return &MismatchError{Method: m.Name, Reference: refName, Check: m.Check, Offset: firstDiff(outs[i], outs[ref])}
			}
		case CheckSemantic:
			if !decoded {
				if err := json.Unmarshal(outs[ref], &refValue); err != nil {
					return &TrialError{Method: refName, Err: err}
				}
				decoded = true
			}
			var got any
			if err := json.Unmarshal(outs[i], &got); err != nil {
				return &TrialError{Method: m.Name, Err: err}
			}
			if !cmp.Equal(refValue, got) {
				b.hooks.VerifyFailed(m.Name, refName, m.Check)
				return &MismatchError{Method: m.Name, Reference: refName, Check: m.Check, Offset: -1, Diff: cmp.Diff(refValue, got)}
			}
		}
		b.log.Debug("method verified", methodFields(m, Fields{"reference": refName}))
	}
	return nil
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Run verifies the methods, then times each one in order and reports the
// elapsed times and ratios against the baseline.
func (b *Bench) Run(ctx context.Context, input any) (Report, error) {
	if err := b.Verify(ctx, input); err != nil {
		return Report{}, err
	}

	rep := Report{
		Baseline:   b.Baseline(),
		Iterations: b.iterations,
		StartedAt:  time.Now().UTC(),
		Results:    make([]Result, 0, len(b.methods)),
	}
	for _, m := range b.methods {
		elapsed, size, err := b.trial(ctx, m, input)
		if err != nil {
			return Report{}, err
		}
		rep.Results = append(rep.Results, Result{Name: m.Name, Elapsed: elapsed, Bytes: size})
		b.hooks.TrialFinished(m.Name, elapsed, b.iterations)
		b.log.Debug("trial finished", methodFields(m, Fields{"elapsed": elapsed, "bytes": size}))
	}

	base := rep.Results[b.baseline].Elapsed
	for i := range rep.Results {
		rep.Results[i].Ratio = Ratio(rep.Results[i].Elapsed, base)
	}
	b.log.Info("run finished", Fields{"methods": len(rep.Results), "iterations": b.iterations, "baseline": rep.Baseline})
	return rep, nil
}

func (b *Bench) trial(ctx context.Context, m Method, input any) (time.Duration, int, error) {
	runtime.GC()
	if b.pauseGC {
		prev := debug.SetGCPercent(-1)
		defer debug.SetGCPercent(prev)
	}

	size := 0
	start := time.Now()
	for i := 0; i < b.iterations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}
		out, err := m.Encoder.Encode(input)
		if err != nil {
			return 0, 0, &TrialError{Method: m.Name, Err: err}
		}
		size = len(out)
	}
	return time.Since(start), size, nil
}
