// Package seed creates a small demo schema and fills it with sample
// data, exercising every DDL and DML template the statement builder
// offers. It is safe to run repeatedly against the same database.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/inspect"
	"github.com/safelite/safelite/internal/log"
	"github.com/safelite/safelite/sqlite"
	"github.com/safelite/safelite/statement"
)

// TableName is the name of the demo table.
const TableName = "students"

type student struct {
	id   int64
	name string
	gpa  float64
}

var students = []student{
	{id: 1, name: "Alice", gpa: 3.8},
	{id: 2, name: "Bob", gpa: 3.1},
	{id: 3, name: "Carol", gpa: 3.6},
}

// Run creates the students table, inserts the sample rows, adds an
// email column, backfills it, and builds an index on the name column.
//
// Inserts use INSERT OR IGNORE and DDL uses IF NOT EXISTS where the
// engine supports it, so a second run leaves the database unchanged.
func Run(ctx context.Context, db *sql.DB, logger log.Logger) error {
	if err := createTable(ctx, db); err != nil {
		return err
	}
	logger.InfoNs(log.NsSeed, "table ready", log.KV{"table": TableName})

	inserted, err := insertStudents(ctx, db)
	if err != nil {
		return err
	}
	logger.InfoNs(log.NsSeed, "sample rows inserted", log.KV{"rows": inserted})

	added, err := addEmailColumn(ctx, db)
	if err != nil {
		return err
	}
	if added {
		logger.InfoNs(log.NsSeed, "email column added and backfilled")
	}

	if err := createNameIndex(ctx, db); err != nil {
		return err
	}
	logger.InfoNs(log.NsSeed, "name index ready")

	return nil
}

func createTable(ctx context.Context, db *sql.DB) error {
	ids, err := ident.NewAll(
		TableName,
		"id", "INTEGER_PRIMARY_KEY",
		"name", "TEXT",
		"gpa", "REAL",
		"enrollment_token", "TEXT",
		"created_at", "TIMESTAMP",
	)
	if err != nil {
		return err
	}

	b, err := statement.Build(statement.CreateTable, ids, nil)
	if err != nil {
		return err
	}

	if _, err := sqlite.Exec(ctx, db, b); err != nil {
		return fmt.Errorf("failed to create %s table: %w", TableName, err)
	}
	return nil
}

func insertStudents(ctx context.Context, db *sql.DB) (int64, error) {
	ids, err := ident.NewAll(
		TableName, "id", "name", "gpa", "enrollment_token", "created_at",
	)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.DateTime)

	var inserted int64
	for _, s := range students {
		b, err := statement.Build(statement.InsertOrIgnore, ids, []any{
			s.id, s.name, s.gpa, uuid.NewString(), now,
		})
		if err != nil {
			return 0, err
		}

		res, err := sqlite.Exec(ctx, db, b)
		if err != nil {
			return 0, fmt.Errorf("failed to insert student %q: %w", s.name, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		inserted += affected
	}

	return inserted, nil
}

// addEmailColumn adds the email column if it is missing and backfills
// it for the sample rows. Returns whether the column was added.
func addEmailColumn(ctx context.Context, db *sql.DB) (bool, error) {
	summary, err := inspect.Summarize(ctx, db, TableName)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s table: %w", TableName, err)
	}
	for _, col := range summary.Columns {
		if col.Name == "email" {
			return false, nil
		}
	}

	ids, err := ident.NewAll(TableName, "email", "TEXT")
	if err != nil {
		return false, err
	}
	b, err := statement.Build(statement.AddColumn, ids, nil)
	if err != nil {
		return false, err
	}
	if _, err := sqlite.Exec(ctx, db, b); err != nil {
		return false, fmt.Errorf("failed to add email column: %w", err)
	}

	updateIDs, err := ident.NewAll(TableName, "email", "name")
	if err != nil {
		return false, err
	}
	for _, s := range students {
		email := fmt.Sprintf("%s@example.edu", s.name)
		b, err := statement.Build(statement.UpdateWhere, updateIDs, []any{email, s.name})
		if err != nil {
			return false, err
		}
		if _, err := sqlite.Exec(ctx, db, b); err != nil {
			return false, fmt.Errorf("failed to backfill email for %q: %w", s.name, err)
		}
	}

	return true, nil
}

func createNameIndex(ctx context.Context, db *sql.DB) error {
	ids, err := ident.NewAll("idx_students_name", TableName, "name")
	if err != nil {
		return err
	}
	b, err := statement.Build(statement.CreateIndex, ids, nil)
	if err != nil {
		return err
	}
	if _, err := sqlite.Exec(ctx, db, b); err != nil {
		return fmt.Errorf("failed to create name index: %w", err)
	}
	return nil
}
