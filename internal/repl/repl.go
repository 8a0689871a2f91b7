// Package repl implements the interactive SafeLite shell.
//
// Unlike a general SQL shell, it accepts no free-form SQL: every
// command maps to a statement produced by the statement builder from
// validated identifiers, so the shell cannot be used to smuggle raw SQL
// text into the engine.
package repl

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/safelite/safelite/internal/log"
	"github.com/safelite/safelite/internal/styled"
	"github.com/safelite/safelite/internal/util/sysutil"
	"github.com/safelite/safelite/internal/version"
)

type Repl struct {
	db           *sql.DB
	logger       log.Logger
	ctx          context.Context
	stop         context.CancelFunc
	databasePath string
	historyPath  string
}

func NewRepl(
	ctx context.Context,
	stop context.CancelFunc,
	db *sql.DB,
	logger log.Logger,
	databasePath string,
) Repl {
	return Repl{
		db:           db,
		logger:       logger,
		ctx:          ctx,
		stop:         stop,
		databasePath: databasePath,
		historyPath:  filepath.Join(os.TempDir(), ".safelite_history"),
	}
}

func (r *Repl) Start() error {
	fmt.Println()
	fmt.Printf("Connected to %s using SafeLite %s\n", r.databasePath, version.Version)
	fmt.Println(`Enter ".help" for usage hints and ".quit" or "CTRL+C" to quit`)
	styled.DimmedColor().Println("This shell only runs schema-safe commands, not free-form SQL")
	fmt.Println()

	for {
		select {
		case <-r.ctx.Done():
			return nil
		default:
			input := r.prompt()

			if input == "" {
				continue
			}

			if input == "exit" || input == ".exit" || input == ".quit" {
				r.Shutdown()
				return nil
			}

			if input == "clear" || input == ".clear" {
				sysutil.ClearTerminal()
				continue
			}

			if input == "help" || input == ".help" {
				cmdHelp()
				continue
			}

			if input == ".tables" {
				cmdTables(r)
				continue
			}

			if input == ".seed" {
				cmdSeed(r)
				continue
			}

			if name, ok := strings.CutPrefix(input, ".summary"); ok {
				cmdSummary(r, strings.TrimSpace(name))
				continue
			}

			if name, ok := strings.CutPrefix(input, ".columns"); ok {
				cmdColumns(r, strings.TrimSpace(name))
				continue
			}

			if name, ok := strings.CutPrefix(input, ".count"); ok {
				cmdCount(r, strings.TrimSpace(name))
				continue
			}

			if strings.HasPrefix(input, ".") {
				fmt.Println("Unknown command, type .help for usage hints")
				continue
			}

			fmt.Println("Free-form SQL is not accepted here, type .help for the available commands")
		}
	}
}

// Shutdown stops the REPL.
func (r *Repl) Shutdown() {
	r.stop()
}

// prompt shows the prompt and reads the input from the user.
func (r *Repl) prompt() string {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(cmdHelpCompleter)

	if file, err := os.Open(r.historyPath); err == nil {
		_, _ = line.ReadHistory(file)
		file.Close()
	}

	prompt, err := line.Prompt("SafeLite> ")
	if err != nil {
		if err == liner.ErrPromptAborted {
			fmt.Println("CTRL+C pressed, exiting...")
			return ".quit"
		}
		return ""
	}

	line.AppendHistory(prompt)
	if file, err := os.Create(r.historyPath); err == nil {
		_, _ = line.WriteHistory(file)
		file.Close()
	}

	return strings.TrimSpace(prompt)
}
