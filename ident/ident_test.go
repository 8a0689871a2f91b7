package ident

import (
	"strings"
	"testing"

	"github.com/safelite/safelite/sqlerr"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectValid bool
	}{
		{name: "simple lowercase", input: "students", expectValid: true},
		{name: "mixed case", input: "StudentGrades", expectValid: true},
		{name: "leading underscore", input: "_internal", expectValid: true},
		{name: "digits after first", input: "table2", expectValid: true},
		{name: "single letter", input: "t", expectValid: true},
		{name: "single underscore", input: "_", expectValid: true},
		{name: "max length", input: strings.Repeat("a", MaxLength), expectValid: true},

		{name: "empty", input: "", expectValid: false},
		{name: "leading digit", input: "2fast", expectValid: false},
		{name: "space", input: "student grades", expectValid: false},
		{name: "semicolon", input: "students;", expectValid: false},
		{name: "single quote", input: "o'brien", expectValid: false},
		{name: "double quote", input: `stu"dents`, expectValid: false},
		{name: "dash", input: "student-grades", expectValid: false},
		{name: "dot", input: "main.students", expectValid: false},
		{name: "injection attempt", input: "robert'); DROP TABLE students;--", expectValid: false},
		{name: "over max length", input: strings.Repeat("a", MaxLength+1), expectValid: false},
		{name: "non ascii", input: "estudiantés", expectValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := New(tt.input)

			if !tt.expectValid {
				assert.Error(t, err)
				assert.True(t, sqlerr.IsInvalidIdentifier(err))
				assert.True(t, id.IsZero())
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
			assert.Equal(t, `"`+tt.input+`"`, id.Quoted())
			assert.False(t, id.IsZero())
		})
	}
}

func TestNewAll(t *testing.T) {
	t.Run("AllValid", func(t *testing.T) {
		ids, err := NewAll("students", "id", "name")
		assert.NoError(t, err)
		assert.Len(t, ids, 3)
		assert.Equal(t, "students", ids[0].String())
		assert.Equal(t, "name", ids[2].String())
	})

	t.Run("FirstInvalidFailsAll", func(t *testing.T) {
		ids, err := NewAll("students", "drop table", "name")
		assert.Error(t, err)
		assert.True(t, sqlerr.IsInvalidIdentifier(err))
		assert.Nil(t, ids)
	})

	t.Run("Empty", func(t *testing.T) {
		ids, err := NewAll()
		assert.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestZeroIdentifier(t *testing.T) {
	var id Identifier
	assert.True(t, id.IsZero())
	assert.Equal(t, "", id.String())
}
