package tracing

import (
	"github.com/sarchlab/nextevent/datarecording"
)

// TraceTable is the table SQLite traces are stored in.
const TraceTable = "trace"

// SQLiteRecord is the row layout of the trace table.
type SQLiteRecord struct {
	Run   string
	Seq   uint64
	Time  float64
	Event string
	Notes string
	Fatal string
}

// SQLiteTraceWriter stores records through a data recorder.
type SQLiteTraceWriter struct {
	recorder datarecording.DataRecorder
}

// NewSQLiteTraceWriter creates the trace table in the recorder.
func NewSQLiteTraceWriter(recorder datarecording.DataRecorder) (*SQLiteTraceWriter, error) {
	if err := recorder.CreateTable(TraceTable, SQLiteRecord{}); err != nil {
		return nil, err
	}

	return &SQLiteTraceWriter{recorder: recorder}, nil
}

// Write buffers a record.
func (t *SQLiteTraceWriter) Write(r Record) error {
	return t.recorder.InsertData(TraceTable, SQLiteRecord{
		Run:   r.Run,
		Seq:   r.Seq,
		Time:  r.Time,
		Event: r.Event,
		Notes: r.NotesText(),
		Fatal: r.Fatal,
	})
}

// Flush writes the buffered records.
func (t *SQLiteTraceWriter) Flush() error {
	return t.recorder.Flush()
}

// Close flushes and closes the recorder.
func (t *SQLiteTraceWriter) Close() error {
	return t.recorder.Close()
}
