// Package render turns inspection results into styled terminal tables.
package render

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/safelite/safelite/inspect"
	"github.com/safelite/safelite/internal/styled"
	"github.com/safelite/safelite/internal/util/numutil"
)

// Summary renders a TableSummary as a terminal table: one row per
// column with its metadata and non-null count, plus a footer carrying
// the total row count.
func Summary(s inspect.TableSummary) string {
	tw := styled.NewTableWriter()
	tw.SetTitle(s.Table)
	tw.AppendHeader(table.Row{
		"#", "Column", "Type", "Not Null", "Default", "PK", "Non-Null Rows",
	})

	for _, col := range s.Columns {
		defaultValue := ""
		if col.Default.Valid {
			defaultValue = col.Default.String
		}

		tw.AppendRow(table.Row{
			col.ID,
			col.Name,
			col.Type,
			yesNo(col.NotNull),
			defaultValue,
			yesNo(col.PrimaryKey),
			numutil.IntWithCommas(int(s.NonNull[col.Name])),
		})
	}

	tw.AppendFooter(table.Row{
		"", "Total rows", numutil.IntWithCommas(int(s.RowCount)),
	})

	return tw.Render()
}

// TableNames renders a plain list of table names.
func TableNames(names []string) string {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table"})
	for _, name := range names {
		tw.AppendRow(table.Row{name})
	}
	return tw.Render()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
