package tracing

import (
	"encoding/csv"
	"io"
	"strconv"
)

// CSVTraceWriter writes records as CSV rows with a header line.
type CSVTraceWriter struct {
	w          *csv.Writer
	closer     io.Closer
	headerDone bool
}

// NewCSVTraceWriter creates a CSVTraceWriter. If w is an io.Closer, Close
// closes it.
func NewCSVTraceWriter(w io.Writer) *CSVTraceWriter {
	t := &CSVTraceWriter{w: csv.NewWriter(w)}

	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}

	return t
}

// CSVHeader is the first row of a CSV trace.
var CSVHeader = []string{"Run", "Seq", "Time", "Event", "Notes", "Fatal"}

// Write writes a record.
func (t *CSVTraceWriter) Write(r Record) error {
	if !t.headerDone {
		t.headerDone = true

		if err := t.w.Write(CSVHeader); err != nil {
			return err
		}
	}

	return t.w.Write([]string{
		r.Run,
		strconv.FormatUint(r.Seq, 10),
		strconv.FormatFloat(r.Time, 'f', 10, 64),
		r.Event,
		r.NotesText(),
		r.Fatal,
	})
}

// Flush writes the buffered rows.
func (t *CSVTraceWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}

// Close flushes and closes the underlying writer.
func (t *CSVTraceWriter) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}

	if t.closer != nil {
		return t.closer.Close()
	}

	return nil
}
