package sim

import (
	"fmt"

	"github.com/sarchlab/nextevent/variate"
	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of an engine.
type State int

// The engine moves from NotStarted to Running, and then to either Terminated or
// Aborted. Both final states are permanent.
const (
	NotStarted State = iota
	Running
	Terminated
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "NotStarted"
	case Running:
		return "Running"
	case Terminated:
		return "Terminated"
	case Aborted:
		return "Aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// A SerialEngine runs the next-event time-advance loop for one model: pick the
// next event, advance the clock and the accumulators, let the model handle the
// event, repeat until the model reports completion.
type SerialEngine struct {
	*HookableBase

	model  Model
	stream *variate.Stream
	clock  *Clock
	events *EventList
	logger *logrus.Logger

	state        State
	initializing bool
	seq          uint64
	current      *Dispatch
}

// State returns the lifecycle state of the engine.
func (e *SerialEngine) State() State {
	return e.state
}

// Now returns the current simulated time.
func (e *SerialEngine) Now() VTimeInSec {
	return e.clock.Now()
}

// Schedule sets the time at which kind is next due.
func (e *SerialEngine) Schedule(kind EventKind, t VTimeInSec) error {
	return e.events.Schedule(kind, t)
}

// Cancel marks kind as not pending.
func (e *SerialEngine) Cancel(kind EventKind) {
	e.events.Cancel(kind)
}

// TimeOf returns the time kind is due.
func (e *SerialEngine) TimeOf(kind EventKind) VTimeInSec {
	return e.events.TimeOf(kind)
}

// Track registers a time-weighted quantity.
func (e *SerialEngine) Track(name string, q Quantity) error {
	if !e.initializing {
		return ErrTrackAfterInit
	}

	e.clock.Track(name, q)

	return nil
}

// Stream returns the random stream shared by the model's generators.
func (e *SerialEngine) Stream() *variate.Stream {
	return e.stream
}

// Note attaches a line to the trace record of the event being dispatched.
// Notes outside of an event dispatch are dropped.
func (e *SerialEngine) Note(format string, args ...any) {
	if e.current == nil {
		return
	}

	e.current.Notes = append(e.current.Notes, fmt.Sprintf(format, args...))
}

// Run initializes the model and processes events until the model reports that
// it is done. It returns the model's summary and the engine statistics. If the
// run stops on a fatal condition, the returned error is a *FatalError and no
// summary is produced.
func (e *SerialEngine) Run() (Summary, Stats, error) {
	if e.state != NotStarted {
		return Summary{}, Stats{}, ErrAlreadyRun
	}

	if err := e.initialize(); err != nil {
		return Summary{}, Stats{}, e.abort(err)
	}

	e.logger.WithFields(logrus.Fields{
		"kinds": e.model.EventKinds(),
	}).Info("simulation started")

	for !e.model.IsTerminal() {
		if err := e.step(); err != nil {
			return Summary{}, Stats{}, e.abort(err)
		}
	}

	e.state = Terminated
	stats := e.stats()

	e.logger.WithFields(logrus.Fields{
		"sim_time": stats.Horizon,
		"events":   stats.EventCount,
	}).Info("simulation terminated")

	return e.model.Report(stats), stats, nil
}

func (e *SerialEngine) initialize() error {
	e.state = Running
	e.seq = 0
	e.clock.Reset()
	e.events.Reset()

	e.initializing = true
	defer func() { e.initializing = false }()

	if err := e.model.Initialize(e); err != nil {
		return fmt.Errorf("initializing model: %w", err)
	}

	return nil
}

func (e *SerialEngine) step() error {
	kind, t, err := e.events.Next()
	if err != nil {
		return err
	}

	if err := e.clock.AdvanceTo(t); err != nil {
		return err
	}

	e.seq++
	e.current = &Dispatch{
		Seq:  e.seq,
		Time: t,
		Kind: kind,
		Name: e.events.Name(kind),
	}

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   *e.current,
	}
	e.InvokeHook(hookCtx)

	if err := e.model.Handle(e, kind); err != nil {
		return fmt.Errorf("handling %s: %w", e.current.Name, err)
	}

	hookCtx.Pos = HookPosAfterEvent
	hookCtx.Item = *e.current
	e.InvokeHook(hookCtx)

	e.current = nil

	return nil
}

func (e *SerialEngine) abort(err error) error {
	fatal := AsFatal(err, e.clock.Now())
	e.state = Aborted

	e.logger.WithFields(logrus.Fields{
		"sim_time": fatal.Time,
		"kind":     fatal.Kind.String(),
	}).WithError(fatal.Err).Error("simulation aborted")

	hookCtx := HookCtx{
		Domain: e,
		Pos:    HookPosAbort,
		Item:   fatal,
	}
	if e.current != nil {
		hookCtx.Detail = *e.current
	}
	e.InvokeHook(hookCtx)

	e.current = nil

	return fatal
}

func (e *SerialEngine) stats() Stats {
	return Stats{
		Areas:      e.clock.Areas(),
		Horizon:    e.clock.Now(),
		EventCount: e.seq,
	}
}
