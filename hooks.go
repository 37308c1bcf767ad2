package jsondefaults

import "time"

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap; they run between trials.
type Hooks interface {
	// A method finished its timed trial.
	TrialFinished(method string, elapsed time.Duration, iterations int)

	// Verify found method's output disagreeing with reference.
	VerifyFailed(method, reference string, check Check)

	// Saving or loading run history failed; the run itself is unaffected.
	// op ∈ {"open", "load", "save"}
	HistoryError(op string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) TrialFinished(string, time.Duration, int) {}
func (NopHooks) VerifyFailed(string, string, Check)       {}
func (NopHooks) HistoryError(string, error)               {}
