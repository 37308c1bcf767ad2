package jsondefaults

import (
	"fmt"
)

// MismatchError is returned by Verify when a method's output disagrees with
// the reference method.
type MismatchError struct {
	Method    string
	Reference string
	Check     Check
	// Offset is the first differing byte for exact checks, -1 otherwise.
	Offset int
	// Diff is a go-cmp diff of the decoded values for semantic checks.
	Diff string
}

func (e *MismatchError) Error() string {
	if e.Check == CheckExact {
		return fmt.Sprintf("jsondefaults: %s output differs from %s at byte %d", e.Method, e.Reference, e.Offset)
	}
	return fmt.Sprintf("jsondefaults: %s output does not decode to the same value as %s", e.Method, e.Reference)
}

// TrialError wraps an encoding failure with the method that hit it.
type TrialError struct {
	Method string
	Err    error
}

func (e *TrialError) Error() string {
	return fmt.Sprintf("jsondefaults: %s: %v", e.Method, e.Err)
}

func (e *TrialError) Unwrap() error { return e.Err }
