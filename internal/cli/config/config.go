// Package config parses the command line configuration for the
// safelite CLI.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/alexflint/go-arg"
	"github.com/safelite/safelite/internal/version"
)

// SummaryCmd summarizes one table, or every user table when the
// positional argument is omitted.
type SummaryCmd struct {
	Table string `arg:"positional" help:"Table to summarize; summarizes every table when omitted"`
}

// TablesCmd lists all user tables in the database.
type TablesCmd struct{}

// ShellCmd starts the interactive schema-safe shell.
type ShellCmd struct{}

// SeedCmd creates the demo students table with sample data.
type SeedCmd struct{}

// Config represents the configuration for the safelite CLI.
type Config struct {
	Database             string `arg:"-d,--database,env:SAFELITE_DATABASE" help:"Path to the SQLite database file; use :memory: for a throwaway database" default:"./safelite.db"`
	ReadOnly             bool   `arg:"--read-only,env:SAFELITE_READ_ONLY" help:"Open the database in query-only mode" default:"false"`
	DisableOptimizations bool   `arg:"--disable-optimizations,env:SAFELITE_DISABLE_OPTIMIZATIONS" help:"Disable performance optimizations at startup for the underlying SQLite database, allowing manual tuning" default:"false"`
	Workers              int    `arg:"--workers,env:SAFELITE_WORKERS" help:"Concurrent workers used when summarizing every table" default:"4"`

	Summary *SummaryCmd `arg:"subcommand:summary" help:"Show row count, columns, and non-null counts"`
	Tables  *TablesCmd  `arg:"subcommand:tables" help:"List all tables in the database"`
	Shell   *ShellCmd   `arg:"subcommand:shell" help:"Start the interactive shell"`
	Seed    *SeedCmd    `arg:"subcommand:seed" help:"Create the demo students table with sample data"`
}

func (Config) Version() string {
	return fmt.Sprintf("%s\n", version.CLIVersion())
}

// MustParse parses and validates the configuration from the command
// line arguments. It returns a Config struct or exits the program
// with an error.
func MustParse(args []string) Config {
	cfg := Config{}

	parser, err := arg.NewParser(
		arg.Config{},
		&cfg,
	)
	if err != nil {
		log.Fatal(err)
	}
	parser.MustParse(args[1:])

	if err := validateDatabase(cfg.Database); err != nil {
		log.Fatal(err)
	}

	if err := validateWorkers(cfg.Workers); err != nil {
		log.Fatal(err)
	}

	return cfg
}

// validateDatabase validates that a database path was provided.
func validateDatabase(path string) error {
	if path == "" {
		return errors.New("database path must not be empty")
	}
	return nil
}

// validateWorkers validates that the worker count is greater than zero.
func validateWorkers(workers int) error {
	if workers <= 0 {
		return errors.New("workers must be greater than zero")
	}
	return nil
}
