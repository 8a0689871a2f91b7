// Package sqlite opens embedded SQLite databases and translates driver
// errors into the SafeLite error taxonomy.
//
// It is the only package that knows which driver is in use; everything
// above it works against database/sql handles and *sqlerr.Error values.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/safelite/safelite/sqlerr"
	"github.com/safelite/safelite/statement"
)

// Options controls how a database file is opened.
type Options struct {
	// ReadOnly opens the database in query-only mode.
	ReadOnly bool
	// DisableOptimizations skips the startup performance pragmas
	// (WAL journal, relaxed synchronous, larger cache), allowing
	// manual tuning.
	DisableOptimizations bool
}

// createDSN builds the driver DSN for path with the standard pragmas.
func createDSN(path string, opts Options) string {
	qp := url.Values{}
	qp.Add("_foreign_keys", "true")
	qp.Add("_busy_timeout", "5000")

	if opts.ReadOnly {
		qp.Add("_query_only", "true")
	}

	if !opts.DisableOptimizations {
		qp.Add("_journal_mode", "WAL")
		qp.Add("_synchronous", "NORMAL")
		qp.Add("_cache_size", "10000")
	}

	return fmt.Sprintf("file:%s?%s", path, qp.Encode())
}

// Open opens the SQLite database at path, creating the file if it does
// not exist, and verifies the connection with a ping.
//
// The special path ":memory:" opens an in-memory database; its pool is
// limited to a single connection so every statement sees the same data.
func Open(path string, opts Options) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("database path is required")
	}

	db, err := sql.Open("sqlite3", createDSN(path, opts))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == ":memory:" {
		db.SetMaxIdleConns(1)
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Classify maps a driver error into the SafeLite taxonomy.
//
// Constraint failures (uniqueness, primary key, NOT NULL) become
// ConstraintViolation, a missing table becomes TableNotFound, and
// everything else becomes a Driver error. The original error stays in
// the cause chain; nothing is masked or retried.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var already *sqlerr.Error
	if errors.As(err, &already) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code == sqlite3.ErrConstraint {
			return sqlerr.Wrap(
				sqlerr.KindConstraintViolation, "constraint violated", err,
			)
		}
	}

	// SQLite reports a missing table as a generic SQLITE_ERROR; the
	// message prefix is the only signal.
	if strings.Contains(err.Error(), "no such table") {
		return sqlerr.Wrap(sqlerr.KindTableNotFound, "table not found", err)
	}

	return sqlerr.Wrap(sqlerr.KindDriver, "driver error", err)
}

// Execer is the subset of database/sql handles needed to execute a
// statement. *sql.DB, *sql.Conn, and *sql.Tx all satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Exec runs a bound statement and classifies any failure, tagging it
// with the statement kind so the caller can diagnose without
// re-executing.
func Exec(ctx context.Context, e Execer, b statement.Bound) (sql.Result, error) {
	res, err := e.ExecContext(ctx, b.SQL, b.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %s statement: %w", b.Kind.Value, Classify(err))
	}
	return res, nil
}
