// Package statement composes parameterized SQL statements from validated
// identifiers and bound values.
//
// It is the only place in SafeLite where literal SQL text is produced.
// Every template is a fixed skeleton: identifier slots are filled with
// pre-validated ident.Identifier values (engines cannot bind identifiers
// through placeholders), and every data value becomes a placeholder. A
// caller-supplied value never appears as literal text in the output.
package statement

import (
	"strings"

	"github.com/orsinium-labs/enum"
	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/sqlerr"
)

// Kind identifies one of the fixed statement templates.
type Kind enum.Member[string]

var (
	SelectAll       = Kind{Value: "select_all"}
	SelectColumns   = Kind{Value: "select_columns"}
	SelectOlderThan = Kind{Value: "select_older_than"}
	Insert          = Kind{Value: "insert"}
	InsertOrIgnore  = Kind{Value: "insert_or_ignore"}
	UpdateWhere     = Kind{Value: "update_where"}
	CreateTable     = Kind{Value: "create_table"}
	AddColumn       = Kind{Value: "add_column"}
	CreateIndex     = Kind{Value: "create_index"}
	DropIndex       = Kind{Value: "drop_index"}
	PragmaTableInfo = Kind{Value: "pragma_table_info"}
	CountRows       = Kind{Value: "count_rows"}
	CountNonNull    = Kind{Value: "count_nonnull"}

	// Kinds is the closed set of supported templates.
	Kinds = enum.New(
		SelectAll, SelectColumns, SelectOlderThan,
		Insert, InsertOrIgnore, UpdateWhere,
		CreateTable, AddColumn, CreateIndex, DropIndex,
		PragmaTableInfo, CountRows, CountNonNull,
	)
)

// columnTypeSQL maps the column type tokens accepted by CreateTable and
// AddColumn to the SQL fragment they stand for. The tokens themselves
// pass identifier validation, so they travel through the same
// identifier slots as names.
var columnTypeSQL = map[string]string{
	"TEXT":                "TEXT",
	"INTEGER":             "INTEGER",
	"REAL":                "REAL",
	"BLOB":                "BLOB",
	"NUMERIC":             "NUMERIC",
	"TIMESTAMP":           "TIMESTAMP",
	"INTEGER_PRIMARY_KEY": "INTEGER PRIMARY KEY",
}

// Bound is an SQL template containing only validated identifiers plus
// placeholders, paired with the values to bind in order. It is meant to
// be passed to the driver immediately, not persisted.
type Bound struct {
	Kind Kind
	SQL  string
	Args []any
}

// Build assembles the statement for kind from the given identifiers and
// values.
//
// Each template declares how many identifiers and values it needs; see
// the per-kind build functions. Build fails with an UnsupportedTemplate
// error for an unknown kind and an ArityMismatch error when the counts
// disagree with the template.
func Build(kind Kind, identifiers []ident.Identifier, values []any) (Bound, error) {
	if !Kinds.Contains(kind) {
		return Bound{}, sqlerr.Newf(
			sqlerr.KindUnsupportedTemplate,
			"unknown statement template %q", kind.Value,
		)
	}

	for _, id := range identifiers {
		if id.IsZero() {
			return Bound{}, sqlerr.New(
				sqlerr.KindInvalidIdentifier,
				"zero identifier passed to statement builder",
			)
		}
	}

	var (
		sql  string
		args []any
		err  error
	)

	switch kind {
	case SelectAll:
		sql, args, err = buildSelectAll(identifiers, values)
	case SelectColumns:
		sql, args, err = buildSelectColumns(identifiers, values)
	case SelectOlderThan:
		sql, args, err = buildSelectOlderThan(identifiers, values)
	case Insert, InsertOrIgnore:
		sql, args, err = buildInsert(kind, identifiers, values)
	case UpdateWhere:
		sql, args, err = buildUpdateWhere(identifiers, values)
	case CreateTable:
		sql, args, err = buildCreateTable(identifiers, values)
	case AddColumn:
		sql, args, err = buildAddColumn(identifiers, values)
	case CreateIndex:
		sql, args, err = buildCreateIndex(identifiers, values)
	case DropIndex:
		sql, args, err = buildDropIndex(identifiers, values)
	case PragmaTableInfo:
		sql, args, err = buildPragmaTableInfo(identifiers, values)
	case CountRows:
		sql, args, err = buildCountRows(identifiers, values)
	case CountNonNull:
		sql, args, err = buildCountNonNull(identifiers, values)
	}
	if err != nil {
		return Bound{}, err
	}

	return Bound{Kind: kind, SQL: sql, Args: args}, nil
}

// arityError builds the ArityMismatch error for a template.
func arityError(kind Kind, want string, gotIdents, gotValues int) error {
	return sqlerr.Newf(
		sqlerr.KindArityMismatch,
		"%s expects %s, got %d identifiers and %d values",
		kind.Value, want, gotIdents, gotValues,
	)
}

// quotedList joins the quoted forms of ids with ", ".
func quotedList(ids []ident.Identifier) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.Quoted()
	}
	return strings.Join(parts, ", ")
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ", ")
}

// typeKeyword resolves a column type token to its SQL fragment.
func typeKeyword(id ident.Identifier) (string, error) {
	sql, ok := columnTypeSQL[strings.ToUpper(id.String())]
	if !ok {
		return "", sqlerr.Newf(
			sqlerr.KindInvalidIdentifier,
			"unknown column type %q", id.String(),
		)
	}
	return sql, nil
}

// SELECT * FROM "t"
func buildSelectAll(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 1 || len(values) != 0 {
		return "", nil, arityError(SelectAll, "1 identifier (table) and 0 values", len(ids), len(values))
	}
	return "SELECT * FROM " + ids[0].Quoted(), nil, nil
}

// SELECT "a", "b" FROM "t"
func buildSelectColumns(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) < 2 || len(values) != 0 {
		return "", nil, arityError(SelectColumns, "a table plus at least 1 column and 0 values", len(ids), len(values))
	}
	return "SELECT " + quotedList(ids[1:]) + " FROM " + ids[0].Quoted(), nil, nil
}

// SELECT * FROM "t" WHERE datetime("c") <= datetime('now', ?)
//
// The single value is an SQLite datetime modifier such as "-1 day". It
// is bound, not interpolated, so the age threshold stays data.
func buildSelectOlderThan(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 2 || len(values) != 1 {
		return "", nil, arityError(SelectOlderThan, "2 identifiers (table, time column) and 1 value (age modifier)", len(ids), len(values))
	}
	sql := "SELECT * FROM " + ids[0].Quoted() +
		" WHERE datetime(" + ids[1].Quoted() + ") <= datetime('now', ?)"
	return sql, values, nil
}

// INSERT [OR IGNORE] INTO "t" ("a", "b") VALUES (?, ?)
func buildInsert(kind Kind, ids []ident.Identifier, values []any) (string, []any, error) {
	cols := len(ids) - 1
	if cols < 1 || len(values) != cols {
		return "", nil, arityError(kind, "a table plus N columns and N values", len(ids), len(values))
	}

	verb := "INSERT INTO "
	if kind == InsertOrIgnore {
		verb = "INSERT OR IGNORE INTO "
	}

	sql := verb + ids[0].Quoted() +
		" (" + quotedList(ids[1:]) + ") VALUES (" + placeholders(cols) + ")"
	return sql, values, nil
}

// UPDATE "t" SET "a" = ?, "b" = ? WHERE "w" = ?
//
// The last identifier is the WHERE column; the last value is the WHERE
// value.
func buildUpdateWhere(ids []ident.Identifier, values []any) (string, []any, error) {
	setCols := len(ids) - 2
	if setCols < 1 || len(values) != setCols+1 {
		return "", nil, arityError(UpdateWhere, "a table plus N set columns plus a where column, and N+1 values", len(ids), len(values))
	}

	assignments := make([]string, setCols)
	for i, id := range ids[1 : 1+setCols] {
		assignments[i] = id.Quoted() + " = ?"
	}

	whereCol := ids[len(ids)-1]
	sql := "UPDATE " + ids[0].Quoted() +
		" SET " + strings.Join(assignments, ", ") +
		" WHERE " + whereCol.Quoted() + " = ?"
	return sql, values, nil
}

// CREATE TABLE IF NOT EXISTS "t" ("id" INTEGER PRIMARY KEY, "name" TEXT)
//
// Identifiers after the table come in (column, type token) pairs.
func buildCreateTable(ids []ident.Identifier, values []any) (string, []any, error) {
	pairs := len(ids) - 1
	if pairs < 2 || pairs%2 != 0 || len(values) != 0 {
		return "", nil, arityError(CreateTable, "a table plus (column, type) pairs and 0 values", len(ids), len(values))
	}

	defs := make([]string, 0, pairs/2)
	for i := 1; i < len(ids); i += 2 {
		typeSQL, err := typeKeyword(ids[i+1])
		if err != nil {
			return "", nil, err
		}
		defs = append(defs, ids[i].Quoted()+" "+typeSQL)
	}

	sql := "CREATE TABLE IF NOT EXISTS " + ids[0].Quoted() +
		" (" + strings.Join(defs, ", ") + ")"
	return sql, nil, nil
}

// ALTER TABLE "t" ADD COLUMN "c" TEXT
func buildAddColumn(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 3 || len(values) != 0 {
		return "", nil, arityError(AddColumn, "3 identifiers (table, column, type) and 0 values", len(ids), len(values))
	}
	typeSQL, err := typeKeyword(ids[2])
	if err != nil {
		return "", nil, err
	}
	sql := "ALTER TABLE " + ids[0].Quoted() +
		" ADD COLUMN " + ids[1].Quoted() + " " + typeSQL
	return sql, nil, nil
}

// CREATE INDEX IF NOT EXISTS "i" ON "t" ("a", "b")
func buildCreateIndex(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) < 3 || len(values) != 0 {
		return "", nil, arityError(CreateIndex, "an index name, a table, at least 1 column, and 0 values", len(ids), len(values))
	}
	sql := "CREATE INDEX IF NOT EXISTS " + ids[0].Quoted() +
		" ON " + ids[1].Quoted() + " (" + quotedList(ids[2:]) + ")"
	return sql, nil, nil
}

// DROP INDEX "i"
func buildDropIndex(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 1 || len(values) != 0 {
		return "", nil, arityError(DropIndex, "1 identifier (index) and 0 values", len(ids), len(values))
	}
	return "DROP INDEX " + ids[0].Quoted(), nil, nil
}

// PRAGMA table_info("t")
func buildPragmaTableInfo(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 1 || len(values) != 0 {
		return "", nil, arityError(PragmaTableInfo, "1 identifier (table) and 0 values", len(ids), len(values))
	}
	return "PRAGMA table_info(" + ids[0].Quoted() + ")", nil, nil
}

// SELECT COUNT(*) FROM "t"
func buildCountRows(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 1 || len(values) != 0 {
		return "", nil, arityError(CountRows, "1 identifier (table) and 0 values", len(ids), len(values))
	}
	return "SELECT COUNT(*) FROM " + ids[0].Quoted(), nil, nil
}

// SELECT COUNT("c") FROM "t"
//
// COUNT(column) skips NULLs, which is exactly the non-null count the
// summary reporter needs.
func buildCountNonNull(ids []ident.Identifier, values []any) (string, []any, error) {
	if len(ids) != 2 || len(values) != 0 {
		return "", nil, arityError(CountNonNull, "2 identifiers (table, column) and 0 values", len(ids), len(values))
	}
	return "SELECT COUNT(" + ids[1].Quoted() + ") FROM " + ids[0].Quoted(), nil, nil
}
