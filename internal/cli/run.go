// Package cli wires the safelite command line tool together.
package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/safelite/safelite/inspect"
	"github.com/safelite/safelite/internal/cli/config"
	"github.com/safelite/safelite/internal/log"
	"github.com/safelite/safelite/internal/pooler"
	"github.com/safelite/safelite/internal/progress"
	"github.com/safelite/safelite/internal/render"
	"github.com/safelite/safelite/internal/repl"
	"github.com/safelite/safelite/internal/seed"
	"github.com/safelite/safelite/sqlite"
)

// Run runs the safelite CLI.
func Run(ctx context.Context) error {
	conf := config.MustParse(os.Args)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.NewLogger(os.Stderr)

	db, err := sqlite.Open(conf.Database, sqlite.Options{
		ReadOnly:             conf.ReadOnly,
		DisableOptimizations: conf.DisableOptimizations,
	})
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", conf.Database, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.ErrorNs(log.NsDatabase, "error closing database", log.KV{"error": err.Error()})
		}
	}()

	if err := dispatch(ctx, stop, conf, db, logger); err != nil {
		errorId := uuid.NewString()
		logger.ErrorNs(log.NsCLI, "command failed", log.KV{
			"id":    errorId,
			"error": err.Error(),
		})
		return fmt.Errorf("command failed (id %s): %w", errorId, err)
	}

	return nil
}

// dispatch runs the selected subcommand. With no subcommand the
// interactive shell starts.
func dispatch(
	ctx context.Context,
	stop context.CancelFunc,
	conf config.Config,
	db *sql.DB,
	logger log.Logger,
) error {
	switch {
	case conf.Summary != nil && conf.Summary.Table != "":
		return runSummary(ctx, db, conf.Summary.Table)
	case conf.Summary != nil:
		return runSummaryAll(ctx, conf, db)
	case conf.Tables != nil:
		return runTables(ctx, db)
	case conf.Seed != nil:
		return seed.Run(ctx, db, logger)
	default:
		shell := repl.NewRepl(ctx, stop, db, logger, conf.Database)
		return shell.Start()
	}
}

func runSummary(ctx context.Context, db *sql.DB, table string) error {
	summary, err := inspect.Summarize(ctx, db, table)
	if err != nil {
		return err
	}
	fmt.Println(render.Summary(summary))
	return nil
}

func runTables(ctx context.Context, db *sql.DB) error {
	names, err := inspect.TableNames(ctx, db)
	if err != nil {
		return err
	}
	fmt.Println(render.TableNames(names))
	return nil
}

// runSummaryAll summarizes every user table, spreading the work over a
// pool of dedicated connections so wide databases finish faster.
func runSummaryAll(ctx context.Context, conf config.Config, db *sql.DB) error {
	names, err := inspect.TableNames(ctx, db)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("No tables found")
		return nil
	}

	workers := min(conf.Workers, len(names))
	if conf.Database == ":memory:" {
		// An in-memory database has a single connection; more workers
		// would starve waiting for it.
		workers = 1
	}

	pool, err := pooler.NewPool(pooler.Config[*sql.Conn]{
		MaxItems:  workers,
		MaxIdle:   workers,
		NewFunc:   func() (*sql.Conn, error) { return db.Conn(ctx) },
		CloseFunc: func(c *sql.Conn) error { return c.Close() },
	})
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer func() {
		_ = pool.Close()
	}()

	bar := progress.NewBar("Summarizing tables", len(names))

	type result struct {
		summary inspect.TableSummary
		err     error
	}

	namesChan := make(chan string)
	resultsChan := make(chan result, len(names))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range namesChan {
				conn, err := pool.Get()
				if err != nil {
					resultsChan <- result{err: err}
					continue
				}

				summary, err := inspect.Summarize(ctx, conn, name)
				_ = pool.Put(conn)

				resultsChan <- result{summary: summary, err: err}
				bar.Inc()
			}
		}()
	}

	for _, name := range names {
		namesChan <- name
	}
	close(namesChan)
	wg.Wait()
	close(resultsChan)
	bar.Finish()

	byName := make(map[string]inspect.TableSummary, len(names))
	for res := range resultsChan {
		if res.err != nil {
			return res.err
		}
		byName[res.summary.Table] = res.summary
	}

	// Render in listing order, not completion order.
	for _, name := range names {
		fmt.Println(render.Summary(byName[name]))
	}

	return nil
}
