package render

import (
	"database/sql"
	"testing"

	"github.com/safelite/safelite/inspect"
	"github.com/stretchr/testify/assert"
)

func TestSummary(t *testing.T) {
	s := inspect.TableSummary{
		Table:    "students",
		RowCount: 1234,
		Columns: []inspect.ColumnDescriptor{
			{ID: 0, Name: "id", Type: "INTEGER", PrimaryKey: true},
			{ID: 1, Name: "name", Type: "TEXT", NotNull: true, Default: sql.NullString{String: "'unknown'", Valid: true}},
		},
		NonNull: map[string]int64{"id": 1234, "name": 1200},
	}

	out := Summary(s)

	assert.Contains(t, out, "students")
	assert.Contains(t, out, "INTEGER")
	assert.Contains(t, out, "'unknown'")
	assert.Contains(t, out, "1,234")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "Total rows")
}

func TestTableNames(t *testing.T) {
	out := TableNames([]string{"courses", "students"})

	assert.Contains(t, out, "Table")
	assert.Contains(t, out, "courses")
	assert.Contains(t, out, "students")
}
