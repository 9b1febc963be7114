package sim

import (
	"errors"

	"github.com/sarchlab/nextevent/variate"
)

// ErrTrackAfterInit is returned when a model tries to track a quantity after
// the simulation has started.
var ErrTrackAfterInit = errors.New("quantities can only be tracked during initialization")

// Env is the part of the engine a model is allowed to use while it initializes
// and handles events.
type Env interface {
	TimeTeller

	// Schedule sets the time at which kind is next due.
	Schedule(kind EventKind, t VTimeInSec) error

	// Cancel marks kind as not pending.
	Cancel(kind EventKind)

	// TimeOf returns the time kind is due, or Never.
	TimeOf(kind EventKind) VTimeInSec

	// Track registers a time-weighted quantity. Only valid during Initialize.
	Track(name string, q Quantity) error

	// Stream returns the shared random stream of the run.
	Stream() *variate.Stream

	// Note attaches a line of text to the trace record of the event being
	// dispatched.
	Note(format string, args ...any)
}

// A Model owns the domain state of a simulation and reacts to events.
type Model interface {
	// EventKinds returns the names of the event kinds, in declaration order.
	EventKinds() []string

	// Initialize resets the model state, schedules the first events and
	// registers the tracked quantities.
	Initialize(env Env) error

	// Handle reacts to an event of the given kind.
	Handle(env Env, kind EventKind) error

	// IsTerminal tells the engine whether the run is complete. It is queried
	// after every dispatched event.
	IsTerminal() bool

	// Report summarizes a completed run.
	Report(stats Stats) Summary
}

// Stats are the engine-side results of a completed run.
type Stats struct {
	Areas      map[string]float64
	Horizon    VTimeInSec
	EventCount uint64
}

// A Field is a named number in a summary.
type Field struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// A Summary is the domain-specific outcome of a run. Inputs echo the
// parameters; Outputs hold the measured performance.
type Summary struct {
	Title   string
	Label   string
	Inputs  []Field
	Outputs []Field
}

// Output returns the value of an output field.
func (s Summary) Output(name string) (float64, bool) {
	for _, f := range s.Outputs {
		if f.Name == name {
			return f.Value, true
		}
	}

	return 0, false
}
