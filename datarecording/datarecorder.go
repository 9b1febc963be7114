// Package datarecording stores flat records in an SQLite database. Both the
// SQLite trace writer and the SQLite report publisher write through it.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

var (
	// ErrInvalidEntry is returned for entries that are not flat structs.
	ErrInvalidEntry = errors.New("entry is invalid")

	// ErrNoSuchTable is returned when inserting into a table that was not
	// created first.
	ErrNoSuchTable = errors.New("table does not exist")

	// ErrFileExists is returned when the database file is already there.
	ErrFileExists = errors.New("database file already exists")
)

// DataRecorder is a backend that can record and store data
type DataRecorder interface {
	// CreateTable creates a new table whose columns are the fields of the
	// sample entry.
	CreateTable(tableName string, sampleEntry any) error

	// InsertData buffers an entry of a table that already exists.
	InsertData(tableName string, entry any) error

	// ListTables returns the names of the created tables, in creation order.
	ListTables() []string

	// Flush writes all the buffered entries into the database.
	Flush() error

	// Close flushes and releases the database.
	Close() error
}

// DefaultBatchSize is the number of buffered entries that triggers a flush.
const DefaultBatchSize = 100000

// New creates a DataRecorder that writes a new SQLite file. An empty path
// picks a unique name in the working directory. The file is flushed when the
// process exits through atexit.
func New(path string) (DataRecorder, error) {
	if path == "" {
		path = "nextevent_" + xid.New().String()
	}

	if filepath.Ext(path) == "" {
		path += ".sqlite3"
	}

	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrFileExists, path)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	w := newSQLiteWriter(db)
	w.path = path

	atexit.Register(func() { _ = w.Close() })

	return w, nil
}

// NewWithDB creates a new DataRecorder with a given database. The caller owns
// the database; Close only flushes.
func NewWithDB(db *sql.DB) DataRecorder {
	w := newSQLiteWriter(db)
	w.borrowed = true

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// sqliteWriter is the writer that writes data into SQLite database
type sqliteWriter struct {
	*sql.DB

	path       string
	borrowed   bool
	closed     bool
	tables     map[string]*table
	tableNames []string
	batchSize  int
	entryCount int
}

func newSQLiteWriter(db *sql.DB) *sqliteWriter {
	return &sqliteWriter{
		DB:        db,
		tables:    make(map[string]*table),
		batchSize: DefaultBatchSize,
	}
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)
	if types == nil || types.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a struct", ErrInvalidEntry, entry)
	}

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !field.IsExported() || !isAllowedType(field.Type.Kind()) {
			return fmt.Errorf("%w: field %s of %T", ErrInvalidEntry, field.Name, entry)
		}
	}

	return nil
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) error {
	if err := checkStructFields(sampleEntry); err != nil {
		return err
	}

	n := structs.Names(sampleEntry)
	for i := range n {
		n[i] = quote(n[i])
	}
	fields := strings.Join(n, ", \n\t")

	createTableSQL := `CREATE TABLE ` + quote(tableName) +
		` (` + "\n\t" + fields + "\n" + `);`
	if _, err := t.Exec(createTableSQL); err != nil {
		return fmt.Errorf("creating table %s: %w", tableName, err)
	}

	t.tables[tableName] = &table{structType: reflect.TypeOf(sampleEntry)}
	t.tableNames = append(t.tableNames, tableName)

	return nil
}

func (t *sqliteWriter) InsertData(tableName string, entry any) error {
	table, exists := t.tables[tableName]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoSuchTable, tableName)
	}

	if reflect.TypeOf(entry) != table.structType {
		return fmt.Errorf("%w: %T does not match table %s",
			ErrInvalidEntry, entry, tableName)
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		return t.Flush()
	}

	return nil
}

func (t *sqliteWriter) ListTables() []string {
	return append([]string(nil), t.tableNames...)
}

func (t *sqliteWriter) Flush() error {
	if t.entryCount == 0 {
		return nil
	}

	tx, err := t.Begin()
	if err != nil {
		return err
	}

	for _, tableName := range t.tableNames {
		if err := t.flushTable(tx, tableName, t.tables[tableName]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	t.entryCount = 0

	return nil
}

func (t *sqliteWriter) flushTable(tx *sql.Tx, tableName string, table *table) error {
	if len(table.entries) == 0 {
		return nil
	}

	stmt, err := tx.Prepare(insertStatement(tableName, table.entries[0]))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, entry := range table.entries {
		v := []any{}

		values := reflect.ValueOf(entry)
		for i := 0; i < values.NumField(); i++ {
			v = append(v, values.Field(i).Interface())
		}

		if _, err := stmt.Exec(v...); err != nil {
			return fmt.Errorf("inserting into %s: %w", tableName, err)
		}
	}

	table.entries = nil

	return nil
}

func insertStatement(tableName string, entry any) string {
	n := structs.Names(entry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	entryToFill := "(" + strings.Join(n, ", ") + ")"

	return "INSERT INTO " + quote(tableName) + " VALUES " + entryToFill
}

func (t *sqliteWriter) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true

	err := t.Flush()
	if t.borrowed {
		return err
	}

	return errors.Join(err, t.DB.Close())
}
