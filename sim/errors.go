package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyEventList is reported when every event kind is scheduled at
	// Never, so no event can ever happen again.
	ErrEmptyEventList = errors.New("event list empty")

	// ErrCapacityExceeded is reported by models whose bounded storage
	// overflows.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidInput is wrapped by the errors models return for parameters
	// they cannot run with.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSchedulingInPast is returned when an event is scheduled before the
	// current simulated time.
	ErrSchedulingInPast = errors.New("cannot schedule event in the past")

	// ErrUnknownEventKind is returned when a kind outside the model's
	// declaration list is used.
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrTimeReversal is returned when the clock is asked to move backwards.
	ErrTimeReversal = errors.New("simulated time cannot move backwards")

	// ErrAlreadyRun is returned when Run is called on an engine that has
	// already left the NotStarted state.
	ErrAlreadyRun = errors.New("engine already run")

	// ErrNoModel is returned when an engine is built without a model.
	ErrNoModel = errors.New("no model registered")
)

// FatalKind classifies the unrecoverable conditions that stop a run.
type FatalKind int

// The fatal conditions a run can end with.
const (
	FatalEmptyEventList FatalKind = iota + 1
	FatalCapacityExceeded
	FatalInvalidInput
	FatalModel
)

func (k FatalKind) String() string {
	switch k {
	case FatalEmptyEventList:
		return "empty event list"
	case FatalCapacityExceeded:
		return "capacity exceeded"
	case FatalInvalidInput:
		return "invalid input"
	case FatalModel:
		return "model failure"
	default:
		return "unknown"
	}
}

// A FatalError stops a run. It records what went wrong and the simulated time
// at which it was detected.
type FatalError struct {
	Kind FatalKind
	Time VTimeInSec
	Err  error
}

// NewFatalError creates a FatalError.
func NewFatalError(kind FatalKind, t VTimeInSec, err error) *FatalError {
	return &FatalError{Kind: kind, Time: t, Err: err}
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s at time %g: %v", e.Kind, e.Time, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Overflow creates the fatal error a model reports when its bounded storage of
// the given capacity is exceeded at time t.
func Overflow(what string, capacity int, t VTimeInSec) *FatalError {
	return NewFatalError(FatalCapacityExceeded, t,
		fmt.Errorf("%s holds more than %d entries: %w",
			what, capacity, ErrCapacityExceeded))
}

// AsFatal extracts the FatalError from an error chain. Errors that are not
// fatal errors are classified as model failures at time t.
func AsFatal(err error, t VTimeInSec) *FatalError {
	var fatal *FatalError
	if errors.As(err, &fatal) {
		return fatal
	}

	return NewFatalError(FatalModel, t, err)
}
