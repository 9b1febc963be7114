// Package tracing records the order in which a simulation dispatches its
// events.
package tracing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sarchlab/nextevent/sim"
)

// A Record is one line of an event trace. A record with a non-empty Fatal is
// the trailer written when a run aborts.
type Record struct {
	Run   string
	Seq   uint64
	Time  float64
	Event string
	Notes []string
	Fatal string
}

// NotesText joins the notes of the record.
func (r Record) NotesText() string {
	return strings.Join(r.Notes, "; ")
}

// A TraceWriter stores records. Writers may buffer; Close flushes.
type TraceWriter interface {
	Write(r Record) error
	Flush() error
	Close() error
}

// A Tracer is a hook that turns the dispatches of an engine into trace
// records. Write errors do not interrupt the simulation; the first one is kept
// and returned by Err and Close.
type Tracer struct {
	writer  TraceWriter
	run     string
	lastSeq uint64
	err     error
}

// NewTracer creates a tracer that writes to w.
func NewTracer(w TraceWriter) *Tracer {
	return &Tracer{writer: w}
}

// SetRun labels the records of the following dispatches, so that the traces
// of several runs can share a writer.
func (t *Tracer) SetRun(label string) {
	t.run = label
	t.lastSeq = 0
}

// Func records the dispatched event, or the abort trailer.
func (t *Tracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosAfterEvent:
		t.writeDispatch(ctx.Item.(sim.Dispatch))
	case sim.HookPosAbort:
		if d, ok := ctx.Detail.(sim.Dispatch); ok {
			t.writeDispatch(d)
		}
		t.writeFatal(ctx.Item.(*sim.FatalError))
	}
}

func (t *Tracer) writeDispatch(d sim.Dispatch) {
	t.lastSeq = d.Seq
	t.write(Record{
		Run:   t.run,
		Seq:   d.Seq,
		Time:  d.Time,
		Event: d.Name,
		Notes: d.Notes,
	})
}

func (t *Tracer) writeFatal(f *sim.FatalError) {
	r := Record{
		Run:   t.run,
		Seq:   t.lastSeq,
		Time:  f.Time,
		Event: "abort",
		Fatal: f.Kind.String(),
	}

	if f.Err != nil {
		r.Notes = []string{f.Err.Error()}
	}

	t.write(r)

	if err := t.writer.Flush(); err != nil && t.err == nil {
		t.err = err
	}
}

func (t *Tracer) write(r Record) {
	if t.err != nil {
		return
	}

	if err := t.writer.Write(r); err != nil {
		t.err = fmt.Errorf("writing trace record %d: %w", r.Seq, err)
	}
}

// Err returns the first write error.
func (t *Tracer) Err() error {
	return t.err
}

// Close closes the writer and reports the first error seen.
func (t *Tracer) Close() error {
	return errors.Join(t.err, t.writer.Close())
}
