// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 19th 2026
// Project: Monte Carlo Replication Engine for Econometrics Examples
// Class: 02-613 at Caregie Mellon University

package montecarlo

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a run was aborted.
type ErrorKind string

const (
	// KindConfiguration: invalid parameters or an unsupported strategy
	// request. Always reported before any trial runs.
	KindConfiguration ErrorKind = "configuration"

	// KindTrialFailure: a trial returned an error or panicked.
	KindTrialFailure ErrorKind = "trial_failure"

	// KindResourceExhaustion: the worker pool could not be sized as requested.
	KindResourceExhaustion ErrorKind = "resource_exhaustion"
)

// Sentinels for errors.Is.
var (
	ErrConfiguration      = &Error{Kind: KindConfiguration}
	ErrTrialFailure       = &Error{Kind: KindTrialFailure}
	ErrResourceExhaustion = &Error{Kind: KindResourceExhaustion}
)

// Error is returned by every failed run. It carries enough context to
// reproduce the failure.
type Error struct {
	Kind     ErrorKind
	Strategy StrategyName

	// Replication index for trial failures, -1 otherwise
	Index int

	// Worker counts for resource exhaustion
	Requested int
	Available int

	Err error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindTrialFailure:
		if e.Index < 0 {
			msg = fmt.Sprintf("montecarlo: trial failure (strategy=%s, whole batch)", e.Strategy)
		} else {
			msg = fmt.Sprintf("montecarlo: trial failure (strategy=%s, replication=%d)", e.Strategy, e.Index)
		}
	case KindResourceExhaustion:
		msg = fmt.Sprintf("montecarlo: resource exhaustion (strategy=%s, requested=%d workers, available=%d)",
			e.Strategy, e.Requested, e.Available)
	default:
		msg = fmt.Sprintf("montecarlo: %s error (strategy=%s)", e.Kind, e.Strategy)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// FailedIndex extracts the failing replication index from an error chain.
func FailedIndex(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindTrialFailure && e.Index >= 0 {
		return e.Index, true
	}
	return 0, false
}

func newConfigError(strategy StrategyName, err error) *Error {
	return &Error{Kind: KindConfiguration, Strategy: strategy, Index: -1, Err: err}
}

func newTrialError(strategy StrategyName, index int, err error) *Error {
	return &Error{Kind: KindTrialFailure, Strategy: strategy, Index: index, Err: err}
}

func newExhaustedError(strategy StrategyName, requested, available int) *Error {
	return &Error{
		Kind:      KindResourceExhaustion,
		Strategy:  strategy,
		Index:     -1,
		Requested: requested,
		Available: available,
	}
}
