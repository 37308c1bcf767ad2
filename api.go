package jsondefaults

import (
	"errors"
	"fmt"
)

// Options tune a Bench. The zero value runs StandardMethods 100 times each
// against the "JSON Cached" baseline.
type Options struct {
	Iterations int      // encode calls per method; 0 => 100
	Methods    []Method // nil => StandardMethods()
	Baseline   string   // method name ratios are relative to; "" => DefaultBaseline
	PauseGC    bool     // disable the garbage collector during each trial

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used
}

const defaultIterations = 100

// Bench verifies and times a fixed list of methods, one after another.
type Bench struct {
	iterations int
	methods    []Method
	baseline   int
	pauseGC    bool
	log        Logger
	hooks      Hooks
}

func New(opts Options) (*Bench, error) {
	if opts.Iterations < 0 {
		return nil, fmt.Errorf("jsondefaults: iterations must be >= 0, got %d", opts.Iterations)
	}

	b := &Bench{
		iterations: coalesce(opts.Iterations, defaultIterations),
		pauseGC:    opts.PauseGC,
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
	}

	methods := opts.Methods
	if methods == nil {
		methods = StandardMethods()
	}
	if len(methods) == 0 {
		return nil, errors.New("jsondefaults: at least one method is required")
	}
	seen := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		if m.Name == "" {
			return nil, errors.New("jsondefaults: method name is required")
		}
		if m.Encoder == nil {
			return nil, fmt.Errorf("jsondefaults: method %q has no encoder", m.Name)
		}
		if _, dup := seen[m.Name]; dup {
			return nil, fmt.Errorf("jsondefaults: duplicate method %q", m.Name)
		}
		seen[m.Name] = struct{}{}
	}
	b.methods = append([]Method(nil), methods...)

	baseline := coalesce(opts.Baseline, DefaultBaseline)
	b.baseline = -1
	for i, m := range b.methods {
		if m.Name == baseline {
			b.baseline = i
			break
		}
	}
	if b.baseline < 0 {
		return nil, fmt.Errorf("jsondefaults: baseline %q is not one of the methods", baseline)
	}
	return b, nil
}

// Methods returns a copy of the configured methods in run order.
func (b *Bench) Methods() []Method { return append([]Method(nil), b.methods...) }

// Iterations returns the number of encode calls per trial.
func (b *Bench) Iterations() int { return b.iterations }

// Baseline returns the baseline method name.
func (b *Bench) Baseline() string { return b.methods[b.baseline].Name }
