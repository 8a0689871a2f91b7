package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/sqlerr"
	"github.com/safelite/safelite/statement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDSN(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		opts          Options
		expectParts   []string
		unwantedParts []string
	}{
		{
			name:          "defaults",
			path:          "data.sqlite",
			opts:          Options{},
			expectParts:   []string{"file:data.sqlite?", "_busy_timeout=5000", "_foreign_keys=true", "_journal_mode=WAL", "_synchronous=NORMAL", "_cache_size=10000"},
			unwantedParts: []string{"_query_only"},
		},
		{
			name:          "read only",
			path:          "data.sqlite",
			opts:          Options{ReadOnly: true},
			expectParts:   []string{"_query_only=true"},
			unwantedParts: nil,
		},
		{
			name:          "optimizations disabled",
			path:          "data.sqlite",
			opts:          Options{DisableOptimizations: true},
			expectParts:   []string{"_busy_timeout=5000", "_foreign_keys=true"},
			unwantedParts: []string{"_journal_mode", "_synchronous", "_cache_size"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := createDSN(tt.path, tt.opts)
			for _, part := range tt.expectParts {
				assert.Contains(t, dsn, part)
			}
			for _, part := range tt.unwantedParts {
				assert.NotContains(t, dsn, part)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	t.Run("EmptyPath", func(t *testing.T) {
		db, err := Open("", Options{})
		assert.Error(t, err)
		assert.Nil(t, db)
	})

	t.Run("Memory", func(t *testing.T) {
		db, err := Open(":memory:", Options{})
		require.NoError(t, err)
		defer db.Close()
		assert.NoError(t, db.Ping())
	})

	t.Run("CreatesFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.sqlite")
		db, err := Open(path, Options{})
		require.NoError(t, err)
		defer db.Close()
		assert.NoError(t, db.Ping())
	})
}

func TestClassify(t *testing.T) {
	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, Classify(nil))
	})

	t.Run("Constraint", func(t *testing.T) {
		err := Classify(sqlite3.Error{Code: sqlite3.ErrConstraint})
		assert.True(t, sqlerr.IsConstraintViolation(err))
	})

	t.Run("NoSuchTable", func(t *testing.T) {
		err := Classify(errors.New("no such table: students"))
		assert.True(t, sqlerr.IsTableNotFound(err))
	})

	t.Run("Generic", func(t *testing.T) {
		err := Classify(errors.New("database is locked"))
		assert.True(t, sqlerr.IsDriver(err))
	})

	t.Run("AlreadyClassifiedPassesThrough", func(t *testing.T) {
		orig := sqlerr.New(sqlerr.KindTableNotFound, "table not found")
		assert.Equal(t, error(orig), Classify(orig))
	})
}

func TestExec(t *testing.T) {
	ctx := context.Background()

	db, err := Open(":memory:", Options{})
	require.NoError(t, err)
	defer db.Close()

	createIDs, err := ident.NewAll("notes", "id", "INTEGER_PRIMARY_KEY", "body", "TEXT")
	require.NoError(t, err)
	create, err := statement.Build(statement.CreateTable, createIDs, nil)
	require.NoError(t, err)
	_, err = Exec(ctx, db, create)
	require.NoError(t, err)

	insertIDs, err := ident.NewAll("notes", "id", "body")
	require.NoError(t, err)
	insert, err := statement.Build(statement.Insert, insertIDs, []any{1, "hello"})
	require.NoError(t, err)

	res, err := Exec(ctx, db, insert)
	require.NoError(t, err)
	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	// The same insert again violates the primary key and must surface
	// as a classified error naming the statement kind.
	_, err = Exec(ctx, db, insert)
	assert.Error(t, err)
	assert.True(t, sqlerr.IsConstraintViolation(err))
	assert.Contains(t, err.Error(), "insert")
}
