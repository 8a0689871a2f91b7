package inspect

import (
	"context"
	"database/sql"
	"testing"

	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/sqlerr"
	"github.com/safelite/safelite/sqlite"
	"github.com/safelite/safelite/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB opens an in-memory database with a students table holding
// one row: (1, "Alice").
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(":memory:", sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})

	createIDs, err := ident.NewAll(
		"students", "id", "INTEGER_PRIMARY_KEY", "name", "TEXT",
	)
	require.NoError(t, err)
	create, err := statement.Build(statement.CreateTable, createIDs, nil)
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, create)
	require.NoError(t, err)

	insertIDs, err := ident.NewAll("students", "id", "name")
	require.NoError(t, err)
	insert, err := statement.Build(statement.Insert, insertIDs, []any{1, "Alice"})
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, insert)
	require.NoError(t, err)

	return db
}

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	summary, err := Summarize(ctx, db, "students")
	require.NoError(t, err)

	assert.Equal(t, "students", summary.Table)
	assert.EqualValues(t, 1, summary.RowCount)

	require.Len(t, summary.Columns, 2)
	assert.Equal(t, "id", summary.Columns[0].Name)
	assert.Equal(t, 0, summary.Columns[0].ID)
	assert.Equal(t, "INTEGER", summary.Columns[0].Type)
	assert.True(t, summary.Columns[0].PrimaryKey)
	assert.Equal(t, "name", summary.Columns[1].Name)
	assert.Equal(t, 1, summary.Columns[1].ID)
	assert.Equal(t, "TEXT", summary.Columns[1].Type)
	assert.False(t, summary.Columns[1].PrimaryKey)

	assert.Equal(t, map[string]int64{"id": 1, "name": 1}, summary.NonNull)
}

func TestSummarizeCountsNullsPerColumn(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	insertIDs, err := ident.NewAll("students", "id", "name")
	require.NoError(t, err)
	insert, err := statement.Build(statement.Insert, insertIDs, []any{2, nil})
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, insert)
	require.NoError(t, err)

	summary, err := Summarize(ctx, db, "students")
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.RowCount)
	assert.Equal(t, map[string]int64{"id": 2, "name": 1}, summary.NonNull)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first, err := Summarize(ctx, db, "students")
	require.NoError(t, err)
	second, err := Summarize(ctx, db, "students")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSummarizeDuplicatePrimaryKey(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	insertIDs, err := ident.NewAll("students", "id", "name")
	require.NoError(t, err)

	// A plain INSERT with a duplicate primary key must surface the
	// conflict and leave the table unchanged.
	insert, err := statement.Build(statement.Insert, insertIDs, []any{1, "Bob"})
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, insert)
	assert.Error(t, err)
	assert.True(t, sqlerr.IsConstraintViolation(err))

	summary, err := Summarize(ctx, db, "students")
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.RowCount)

	// INSERT OR IGNORE swallows the same conflict by design.
	ignore, err := statement.Build(statement.InsertOrIgnore, insertIDs, []any{1, "Bob"})
	require.NoError(t, err)
	res, err := sqlite.Exec(ctx, db, ignore)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)
}

func TestSummarizeRejectsInvalidName(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := Summarize(ctx, db, "robert'); DROP TABLE students;--")
	assert.Error(t, err)
	assert.True(t, sqlerr.IsInvalidIdentifier(err))

	// The students table must be untouched.
	summary, err := Summarize(ctx, db, "students")
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.RowCount)
}

func TestSummarizeTableNotFound(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	// A name that passes validation but names no table.
	_, err := Summarize(ctx, db, "alumni")
	assert.Error(t, err)
	assert.True(t, sqlerr.IsTableNotFound(err))
}

func TestTableNames(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	createIDs, err := ident.NewAll("courses", "code", "TEXT")
	require.NoError(t, err)
	create, err := statement.Build(statement.CreateTable, createIDs, nil)
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, create)
	require.NoError(t, err)

	names, err := TableNames(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, []string{"courses", "students"}, names)
}

func TestSummarizeAll(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	createIDs, err := ident.NewAll("courses", "code", "TEXT")
	require.NoError(t, err)
	create, err := statement.Build(statement.CreateTable, createIDs, nil)
	require.NoError(t, err)
	_, err = sqlite.Exec(ctx, db, create)
	require.NoError(t, err)

	var visited []string
	summaries, err := SummarizeAll(ctx, db, func(table string) {
		visited = append(visited, table)
	})
	require.NoError(t, err)

	require.Len(t, summaries, 2)
	assert.Equal(t, "courses", summaries[0].Table)
	assert.EqualValues(t, 0, summaries[0].RowCount)
	assert.Equal(t, "students", summaries[1].Table)
	assert.EqualValues(t, 1, summaries[1].RowCount)
	assert.Equal(t, []string{"courses", "students"}, visited)
}

func TestSummarizeWorksThroughConnAndTx(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer func() {
		_ = tx.Rollback()
	}()

	summary, err := Summarize(ctx, tx, "students")
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.RowCount)
}
