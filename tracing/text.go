package tracing

import (
	"bufio"
	"fmt"
	"io"

	"github.com/sarchlab/nextevent/sim"
)

// TextTraceWriter writes a human-readable list of the events in dispatch
// order.
type TextTraceWriter struct {
	w       *bufio.Writer
	closer  io.Closer
	lastRun string
}

// NewTextTraceWriter creates a TextTraceWriter. If w is an io.Closer, Close
// closes it.
func NewTextTraceWriter(w io.Writer) *TextTraceWriter {
	t := &TextTraceWriter{w: bufio.NewWriter(w)}

	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}

	return t
}

// Write writes a record.
func (t *TextTraceWriter) Write(r Record) error {
	if r.Run != t.lastRun {
		t.lastRun = r.Run
		fmt.Fprintf(t.w, "\n=========Run %s=========\n\n", r.Run)
	}

	if r.Fatal != "" {
		_, err := fmt.Fprintf(t.w, "---------%s--------\n\n", fatalLine(r))
		return err
	}

	fmt.Fprintf(t.w, "%d. Next event: %s at %.6f\n", r.Seq, r.Event, r.Time)

	for _, n := range r.Notes {
		fmt.Fprintf(t.w, "    %s\n", n)
	}

	return nil
}

func fatalLine(r Record) string {
	switch r.Fatal {
	case sim.FatalEmptyEventList.String():
		return fmt.Sprintf("Event list empty at time %g", r.Time)
	case sim.FatalCapacityExceeded.String():
		return fmt.Sprintf("Overflow at %g: %s", r.Time, r.NotesText())
	default:
		return fmt.Sprintf("Aborted (%s) at time %g: %s", r.Fatal, r.Time, r.NotesText())
	}
}

// Flush writes the buffered text.
func (t *TextTraceWriter) Flush() error {
	return t.w.Flush()
}

// Close flushes and closes the underlying writer.
func (t *TextTraceWriter) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}

	if t.closer != nil {
		return t.closer.Close()
	}

	return nil
}
