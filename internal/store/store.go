package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/phonebook/internal/queryir"
	"github.com/roach88/phonebook/internal/querysql"
	"github.com/roach88/phonebook/internal/record"
)

//go:embed schema.sql
var schemaSQL string

// Supported database/sql driver names.
const (
	// DriverCGO is github.com/mattn/go-sqlite3. Default.
	DriverCGO = "sqlite3"

	// DriverPure is modernc.org/sqlite, which needs no C toolchain.
	DriverPure = "sqlite"
)

// Store provides durable storage for phonebook records.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db       *sql.DB
	compiler *querysql.SQLCompiler
	driver   string
}

type options struct {
	driver string
}

// Option configures Open.
type Option func(*options)

// WithDriver selects the database/sql driver (DriverCGO or DriverPure).
// An empty name keeps the default.
func WithDriver(name string) Option {
	return func(o *options) {
		if name != "" {
			o.driver = name
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// The path ":memory:" opens a private in-memory database.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times on one file.
func Open(path string, opts ...Option) (*Store, error) {
	o := options{driver: DriverCGO}
	for _, opt := range opts {
		opt(&o)
	}
	if o.driver != DriverCGO && o.driver != DriverPure {
		return nil, fmt.Errorf("unsupported sqlite driver %q", o.driver)
	}

	db, err := sql.Open(o.driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time. A single connection also
	// keeps an in-memory database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db, compiler: querysql.NewSQLCompiler(), driver: o.driver}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Driver returns the database/sql driver name the store was opened with.
func (s *Store) Driver() string {
	return s.driver
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return record.NewStorageError("ping", err)
	}
	return nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// withTx runs fn inside a transaction, committing if fn returns nil.
func (s *Store) withTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return record.NewStorageError(op, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return record.NewStorageError(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// exec compiles and executes a write statement, returning rows affected.
func (s *Store) exec(ctx context.Context, q querier, op string, query queryir.Query) (int64, error) {
	stmt, params, err := s.compiler.Compile(query)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	res, err := q.ExecContext(ctx, stmt, params...)
	if err != nil {
		return 0, record.NewStorageError(op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, record.NewStorageError(op, err)
	}
	return n, nil
}

// selectRecords compiles and runs a select over kind's columns.
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) selectRecords(ctx context.Context, q querier, op string, kind record.Kind, filter queryir.Predicate) ([]record.Record, error) {
	stmt, params, err := s.compiler.Compile(queryir.Select{
		From:    kind.Table,
		Columns: kind.Columns(),
		Filter:  filter,
		OrderBy: kind.NameColumn,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := q.QueryContext(ctx, stmt, params...)
	if err != nil {
		return nil, record.NewStorageError(op, err)
	}
	defer rows.Close()

	records := []record.Record{}
	for rows.Next() {
		rec := record.Record{Kind: kind}
		if err := rows.Scan(rec.ScanTargets()...); err != nil {
			return nil, record.NewStorageError(op, fmt.Errorf("scan: %w", err))
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, record.NewStorageError(op, fmt.Errorf("iterate: %w", err))
	}

	return records, nil
}

// exists reports whether any row of table matches filter.
func (s *Store) exists(ctx context.Context, q querier, op, table string, filter queryir.Predicate) (bool, error) {
	stmt, params, err := s.compiler.Compile(queryir.Select{
		From:    table,
		Columns: []string{"id"},
		Filter:  filter,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := q.QueryContext(ctx, stmt, params...)
	if err != nil {
		return false, record.NewStorageError(op, err)
	}
	defer rows.Close()

	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, record.NewStorageError(op, err)
	}
	return found, nil
}
