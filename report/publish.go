package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sarchlab/nextevent/datarecording"
)

// A Publisher stores a report outside the process.
type Publisher interface {
	Publish(ctx context.Context, r *Report) error
}

// ObjectPutter is the part of the S3 client the S3 publisher needs.
type ObjectPutter interface {
	PutObject(
		ctx context.Context,
		params *s3.PutObjectInput,
		optFns ...func(*s3.Options),
	) (*s3.PutObjectOutput, error)
}

// S3Publisher uploads the rendered report as one object per report.
type S3Publisher struct {
	client ObjectPutter
	bucket string
	prefix string
	format string
}

// NewS3Client creates an S3 client for the region from the default AWS
// credential chain.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(cfg), nil
}

// NewS3Publisher creates a publisher that renders reports in format and
// stores them under prefix in bucket.
func NewS3Publisher(client ObjectPutter, bucket, prefix, format string) *S3Publisher {
	return &S3Publisher{
		client: client,
		bucket: bucket,
		prefix: prefix,
		format: format,
	}
}

// Key returns the object key of a report.
func (p *S3Publisher) Key(r *Report) string {
	return p.prefix + r.ID + extension(p.format)
}

// Publish renders and uploads the report.
func (p *S3Publisher) Publish(ctx context.Context, r *Report) error {
	var buf bytes.Buffer
	if err := Render(&buf, r, p.format); err != nil {
		return err
	}

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(p.bucket),
		Key:    aws.String(p.Key(r)),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("unable to upload report to S3: %w", err)
	}

	return nil
}

func extension(format string) string {
	switch format {
	case "yaml":
		return ".yaml"
	case "json":
		return ".json"
	default:
		return ".txt"
	}
}

// Execer is the part of a pgx pool the Postgres publisher needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPostgresPool connects to the database named by dsn.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}

	return pool, nil
}

const (
	createRunsTable = `CREATE TABLE IF NOT EXISTS nextevent_runs (
	id TEXT PRIMARY KEY,
	model TEXT NOT NULL,
	title TEXT NOT NULL,
	seed BIGINT NOT NULL,
	generator TEXT NOT NULL,
	replications INTEGER NOT NULL,
	document JSONB NOT NULL
)`

	createStatisticsTable = `CREATE TABLE IF NOT EXISTS nextevent_statistics (
	run_id TEXT NOT NULL REFERENCES nextevent_runs(id),
	label TEXT NOT NULL,
	name TEXT NOT NULL,
	unit TEXT NOT NULL,
	mean DOUBLE PRECISION NOT NULL,
	stddev DOUBLE PRECISION NOT NULL,
	half_width DOUBLE PRECISION NOT NULL,
	replications INTEGER NOT NULL
)`

	insertRun = `INSERT INTO nextevent_runs (
	id, model, title, seed, generator, replications, document
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertStatistic = `INSERT INTO nextevent_statistics (
	run_id, label, name, unit, mean, stddev, half_width, replications
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
)

// PostgresPublisher stores the report document and one row per statistic.
type PostgresPublisher struct {
	db Execer
}

// NewPostgresPublisher creates a publisher on a pool or connection.
func NewPostgresPublisher(db Execer) *PostgresPublisher {
	return &PostgresPublisher{db: db}
}

// Publish creates the tables if needed and inserts the report.
func (p *PostgresPublisher) Publish(ctx context.Context, r *Report) error {
	for _, stmt := range []string{createRunsTable, createStatisticsTable} {
		if _, err := p.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("unable to create report tables: %w", err)
		}
	}

	document, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(ctx, insertRun,
		r.ID, r.Model, r.Title, int64(r.Seed), r.Generator, r.Replications, document)
	if err != nil {
		return fmt.Errorf("unable to insert report %s: %w", r.ID, err)
	}

	for _, row := range Rows(r) {
		_, err = p.db.Exec(ctx, insertStatistic,
			row.ReportID, row.Label, row.Name, row.Unit,
			row.Mean, row.StdDev, row.HalfWidth, row.Replications)
		if err != nil {
			return fmt.Errorf("unable to insert statistic %q: %w", row.Name, err)
		}
	}

	return nil
}

// StatisticsTable is the table the SQLite publisher writes rows to.
const StatisticsTable = "statistics"

// SQLitePublisher stores one row per statistic through a data recorder.
type SQLitePublisher struct {
	recorder datarecording.DataRecorder
}

// NewSQLitePublisher creates the statistics table in the recorder.
func NewSQLitePublisher(recorder datarecording.DataRecorder) (*SQLitePublisher, error) {
	if err := recorder.CreateTable(StatisticsTable, Row{}); err != nil {
		return nil, err
	}

	return &SQLitePublisher{recorder: recorder}, nil
}

// Publish inserts the rows of the report and flushes them.
func (p *SQLitePublisher) Publish(_ context.Context, r *Report) error {
	for _, row := range Rows(r) {
		if err := p.recorder.InsertData(StatisticsTable, row); err != nil {
			return err
		}
	}

	return p.recorder.Flush()
}
