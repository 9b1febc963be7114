package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sarchlab/nextevent/config"
	"github.com/sarchlab/nextevent/datarecording"
	"github.com/sarchlab/nextevent/report"
	"github.com/sarchlab/nextevent/tracing"
)

// stdoutWriter hides the Close of the process stdout from the writers that
// close what they write to.
type stdoutWriter struct {
	io.Writer
}

func openOutput(path string, stdout io.Writer) (io.Writer, error) {
	if path == "" || path == "-" {
		return stdoutWriter{stdout}, nil
	}

	return os.Create(path)
}

func (s *study) openTrace(ctx context.Context) error {
	if !s.cfg.Trace.Enabled {
		return nil
	}

	w, err := newTraceWriter(ctx, s.cfg.Trace, s.id, s.stdout)
	if err != nil {
		return fmt.Errorf("%w: opening %s trace: %w", ErrOutput, s.cfg.Trace.Format, err)
	}

	s.tracer = tracing.NewTracer(w)

	return nil
}

func newTraceWriter(
	_ context.Context,
	t config.Trace,
	id string,
	stdout io.Writer,
) (tracing.TraceWriter, error) {
	switch t.Format {
	case "text":
		w, err := openOutput(t.Path, stdout)
		if err != nil {
			return nil, err
		}
		return tracing.NewTextTraceWriter(w), nil
	case "csv":
		w, err := openOutput(t.Path, stdout)
		if err != nil {
			return nil, err
		}
		return tracing.NewCSVTraceWriter(w), nil
	case "parquet":
		path := t.Path
		if path == "" {
			path = "nextevent_" + id + ".parquet"
		}
		return tracing.NewParquetTraceWriter(path)
	case "kafka":
		producer, err := tracing.NewKafkaProducer(t.Kafka.Brokers)
		if err != nil {
			return nil, err
		}
		return tracing.NewKafkaTraceWriter(producer, t.Kafka.Topic), nil
	case "sqlite":
		recorder, err := datarecording.New(t.Path)
		if err != nil {
			return nil, err
		}
		return tracing.NewSQLiteTraceWriter(recorder)
	default:
		return nil, fmt.Errorf("unknown trace format %q", t.Format)
	}
}

// publish writes the report to its file or stdout, then to every configured
// store.
func (s *study) publish(ctx context.Context, r *report.Report) (err error) {
	if err := s.writeReport(r); err != nil {
		return fmt.Errorf("%w: writing report: %w", ErrOutput, err)
	}

	publishers, closers, err := s.publishers(ctx)
	defer func() {
		for _, c := range closers {
			if cerr := c(); cerr != nil {
				err = errors.Join(err, fmt.Errorf("%w: %w", ErrOutput, cerr))
			}
		}
	}()

	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	for _, p := range publishers {
		if err := p.Publish(ctx, r); err != nil {
			return fmt.Errorf("%w: publishing to %s: %w", ErrOutput, p.name, err)
		}

		s.logger.WithField("run_id", s.id).Infof("report published to %s", p.name)
	}

	return nil
}

func (s *study) writeReport(r *report.Report) error {
	w, err := openOutput(s.cfg.Report.Path, s.stdout)
	if err != nil {
		return err
	}

	err = report.Render(w, r, s.cfg.Report.Format)

	if c, ok := w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}

	return err
}

type namedPublisher struct {
	report.Publisher
	name string
}

func (s *study) publishers(ctx context.Context) (
	[]namedPublisher,
	[]func() error,
	error,
) {
	var (
		publishers []namedPublisher
		closers    []func() error
	)

	c := s.cfg.Report

	if c.S3.Bucket != "" {
		client, err := report.NewS3Client(ctx, c.S3.Region)
		if err != nil {
			return nil, closers, err
		}

		publishers = append(publishers, namedPublisher{
			report.NewS3Publisher(client, c.S3.Bucket, c.S3.Prefix, c.Format), "s3"})
	}

	if c.Postgres.DSN != "" {
		pool, err := report.NewPostgresPool(ctx, c.Postgres.DSN)
		if err != nil {
			return nil, closers, err
		}

		closers = append(closers, func() error { pool.Close(); return nil })
		publishers = append(publishers, namedPublisher{
			report.NewPostgresPublisher(pool), "postgres"})
	}

	if c.SQLite.Path != "" {
		recorder, err := datarecording.New(c.SQLite.Path)
		if err != nil {
			return nil, closers, err
		}

		exec, err := datarecording.NewExecRecorder(recorder)
		if err != nil {
			_ = recorder.Close()
			return nil, closers, err
		}

		exec.Start(
			datarecording.ExecInfo{Property: "Run ID", Value: s.id},
			datarecording.ExecInfo{Property: "Model", Value: s.model},
			datarecording.ExecInfo{Property: "Seed", Value: strconv.FormatUint(s.cfg.Seed, 10)},
		)
		closers = append(closers, func() error {
			return errors.Join(exec.End(), recorder.Close())
		})

		p, err := report.NewSQLitePublisher(recorder)
		if err != nil {
			return nil, closers, err
		}

		publishers = append(publishers, namedPublisher{p, "sqlite"})
	}

	return publishers, closers, nil
}
