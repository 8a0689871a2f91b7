package repl

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/safelite/safelite/ident"
	"github.com/safelite/safelite/inspect"
	"github.com/safelite/safelite/internal/log"
	"github.com/safelite/safelite/internal/render"
	"github.com/safelite/safelite/internal/seed"
	"github.com/safelite/safelite/internal/styled"
	"github.com/safelite/safelite/internal/util/numutil"
	"github.com/safelite/safelite/sqlite"
	"github.com/safelite/safelite/statement"
)

// printError renders an error as a one-cell table, matching the output
// style of the regular commands.
func printError(err error) {
	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Error"})
	tw.AppendRow(table.Row{err.Error()})
	fmt.Println(tw.Render())
}

func cmdTables(r *Repl) {
	names, err := inspect.TableNames(r.ctx, r.db)
	if err != nil {
		printError(err)
		return
	}
	fmt.Println(render.TableNames(names))
}

func cmdSummary(r *Repl, name string) {
	summary, err := inspect.Summarize(r.ctx, r.db, name)
	if err != nil {
		printError(err)
		return
	}
	fmt.Println(render.Summary(summary))
}

func cmdColumns(r *Repl, name string) {
	summary, err := inspect.Summarize(r.ctx, r.db, name)
	if err != nil {
		printError(err)
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"#", "Column", "Type"})
	for _, col := range summary.Columns {
		tw.AppendRow(table.Row{col.ID, col.Name, col.Type})
	}
	fmt.Println(tw.Render())
}

func cmdCount(r *Repl, name string) {
	id, err := ident.New(name)
	if err != nil {
		printError(err)
		return
	}

	b, err := statement.Build(statement.CountRows, []ident.Identifier{id}, nil)
	if err != nil {
		printError(err)
		return
	}

	var count int64
	if err := r.db.QueryRowContext(r.ctx, b.SQL, b.Args...).Scan(&count); err != nil {
		printError(sqlite.Classify(err))
		return
	}

	tw := styled.NewTableWriter()
	tw.AppendHeader(table.Row{"Table", "Rows"})
	tw.AppendRow(table.Row{name, numutil.IntWithCommas(int(count))})
	fmt.Println(tw.Render())
}

func cmdSeed(r *Repl) {
	if err := seed.Run(r.ctx, r.db, r.logger); err != nil {
		printError(err)
		return
	}
	r.logger.InfoNs(log.NsShell, "seed completed", log.KV{"table": seed.TableName})
	cmdSummary(r, seed.TableName)
}
