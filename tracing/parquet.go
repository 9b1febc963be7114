package tracing

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"
)

// ParquetRecord is the row layout of a parquet trace.
type ParquetRecord struct {
	Run   string  `parquet:"name=run, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Seq   int64   `parquet:"name=seq, type=INT64"`
	Time  float64 `parquet:"name=time, type=DOUBLE"`
	Event string  `parquet:"name=event, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Notes string  `parquet:"name=notes, type=BYTE_ARRAY, convertedtype=UTF8"`
	Fatal string  `parquet:"name=fatal, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetTraceWriter writes records into a parquet file.
type ParquetTraceWriter struct {
	file source.ParquetFile
	pw   *writer.ParquetWriter
}

// NewParquetTraceWriter creates the parquet file at path.
func NewParquetTraceWriter(path string) (*ParquetTraceWriter, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}

	return NewParquetTraceWriterWithFile(fw)
}

// NewParquetTraceWriterWithFile writes into an already opened parquet file.
func NewParquetTraceWriterWithFile(fw source.ParquetFile) (*ParquetTraceWriter, error) {
	pw, err := writer.NewParquetWriter(fw, new(ParquetRecord), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	return &ParquetTraceWriter{file: fw, pw: pw}, nil
}

// Write buffers a record.
func (t *ParquetTraceWriter) Write(r Record) error {
	return t.pw.Write(ParquetRecord{
		Run:   r.Run,
		Seq:   int64(r.Seq),
		Time:  r.Time,
		Event: r.Event,
		Notes: r.NotesText(),
		Fatal: r.Fatal,
	})
}

// Flush writes the current row group.
func (t *ParquetTraceWriter) Flush() error {
	return t.pw.Flush(true)
}

// Close writes the footer and closes the file.
func (t *ParquetTraceWriter) Close() error {
	if err := t.pw.WriteStop(); err != nil {
		return err
	}

	return t.file.Close()
}
