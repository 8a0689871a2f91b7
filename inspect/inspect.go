// Package inspect produces summary statistics for tables in an embedded
// SQLite database: row counts, column metadata, and per-column non-null
// counts.
//
// Every statement it runs is produced by the statement builder from
// validated identifiers, so a table name coming straight from user
// input is safe to pass in. All operations are read-only and stateless;
// the caller owns the connection and its lifecycle.
package inspect

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/sqlerr"
	"github.com/safelite/safelite/sqlite"
	"github.com/safelite/safelite/statement"
)

// Querier is the subset of database/sql handles needed for
// introspection. *sql.DB, *sql.Conn, and *sql.Tx all satisfy it.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ColumnDescriptor describes one column of a table, straight from
// PRAGMA table_info.
type ColumnDescriptor struct {
	// ID is the ordinal position reported by the engine, starting at 0.
	ID int
	// Name is the column name.
	Name string
	// Type is the declared type, possibly empty for untyped columns.
	Type string
	// NotNull reports whether the column carries a NOT NULL constraint.
	NotNull bool
	// Default is the declared default value, if any.
	Default sql.NullString
	// PrimaryKey reports whether the column is part of the primary key.
	PrimaryKey bool
}

// TableSummary aggregates the introspection results for one table.
// It is built fresh per call and not mutated afterwards.
type TableSummary struct {
	// Table is the summarized table name.
	Table string
	// RowCount is the total number of rows.
	RowCount int64
	// Columns lists the table's columns in engine order.
	Columns []ColumnDescriptor
	// NonNull maps each column name to its non-null row count. Iterate
	// Columns to visit it in engine order.
	NonNull map[string]int64
}

// Summarize builds the TableSummary for table.
//
// The name is validated first, so raw user input is acceptable; a name
// that fails the identifier grammar is rejected before any SQL is
// built. A validated name for a table that does not exist fails with a
// TableNotFound error.
//
// Cost is O(columns) round-trips to the engine, which can be slow on
// wide tables with large row counts. There is no partial success: the
// result is either complete or an error naming the failed step.
func Summarize(ctx context.Context, q Querier, table string) (TableSummary, error) {
	id, err := ident.New(table)
	if err != nil {
		return TableSummary{}, err
	}

	rowCount, err := countRows(ctx, q, id)
	if err != nil {
		return TableSummary{}, fmt.Errorf("failed to count rows of %q: %w", table, err)
	}

	columns, err := tableInfo(ctx, q, id)
	if err != nil {
		return TableSummary{}, fmt.Errorf("failed to read columns of %q: %w", table, err)
	}

	nonNull := make(map[string]int64, len(columns))
	for _, col := range columns {
		colID, err := ident.New(col.Name)
		if err != nil {
			return TableSummary{}, fmt.Errorf("failed to validate column name of %q: %w", table, err)
		}

		count, err := countNonNull(ctx, q, id, colID)
		if err != nil {
			return TableSummary{}, fmt.Errorf("failed to count non-null rows of %q.%q: %w", table, col.Name, err)
		}
		nonNull[col.Name] = count
	}

	return TableSummary{
		Table:    table,
		RowCount: rowCount,
		Columns:  columns,
		NonNull:  nonNull,
	}, nil
}

// countRows runs the COUNT_ROWS template for table.
func countRows(ctx context.Context, q Querier, table ident.Identifier) (int64, error) {
	b, err := statement.Build(statement.CountRows, []ident.Identifier{table}, nil)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.QueryRowContext(ctx, b.SQL, b.Args...).Scan(&count); err != nil {
		return 0, sqlite.Classify(err)
	}
	return count, nil
}

// countNonNull runs the COUNT_NONNULL template for one column.
func countNonNull(ctx context.Context, q Querier, table, column ident.Identifier) (int64, error) {
	b, err := statement.Build(
		statement.CountNonNull, []ident.Identifier{table, column}, nil,
	)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.QueryRowContext(ctx, b.SQL, b.Args...).Scan(&count); err != nil {
		return 0, sqlite.Classify(err)
	}
	return count, nil
}

// tableInfo runs PRAGMA table_info and maps each row to a
// ColumnDescriptor, preserving the engine's ordinal order.
func tableInfo(ctx context.Context, q Querier, table ident.Identifier) ([]ColumnDescriptor, error) {
	b, err := statement.Build(
		statement.PragmaTableInfo, []ident.Identifier{table}, nil,
	)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, b.SQL, b.Args...)
	if err != nil {
		return nil, sqlite.Classify(err)
	}
	defer rows.Close()

	columns := []ColumnDescriptor{}
	for rows.Next() {
		var (
			col     ColumnDescriptor
			notNull int
			pk      int
		)
		if err := rows.Scan(
			&col.ID, &col.Name, &col.Type, &notNull, &col.Default, &pk,
		); err != nil {
			return nil, fmt.Errorf("failed to scan table_info row: %w", err)
		}
		col.NotNull = notNull != 0
		col.PrimaryKey = pk > 0
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, sqlite.Classify(err)
	}

	// PRAGMA table_info returns zero rows for a missing table instead
	// of an error.
	if len(columns) == 0 {
		return nil, sqlerr.Newf(
			sqlerr.KindTableNotFound, "table %q not found", table.String(),
		)
	}

	return columns, nil
}

// TableNames returns the names of all user tables, excluding SQLite's
// internal sqlite_* tables, ordered by name.
func TableNames(ctx context.Context, q Querier) ([]string, error) {
	const query = `SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, sqlite.Classify(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SummarizeAll summarizes every user table in name order. The progress
// callback, if not nil, is invoked with each table name after its
// summary completes.
func SummarizeAll(
	ctx context.Context, q Querier, progress func(table string),
) ([]TableSummary, error) {
	names, err := TableNames(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	summaries := make([]TableSummary, 0, len(names))
	for _, name := range names {
		summary, err := Summarize(ctx, q, name)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)

		if progress != nil {
			progress(name)
		}
	}

	return summaries, nil
}
