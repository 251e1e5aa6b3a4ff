// Command successpath records meals, transactions and lesson completions in
// the local SQLite ledger and prints the derived summaries.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/google/subcommands"

	"successpath/internal/cli"
	"successpath/internal/config"
	"successpath/internal/learning"
	"successpath/internal/log"
	"successpath/internal/services"
	"successpath/internal/storage"
)

var dbPath = flag.String("db", "", "Path to the SQLite ledger. Defaults to SQLITE_DB_PATH.")

// stdout is swapped in tests.
var stdout io.Writer = os.Stdout

// openLedger returns a hydrated ledger and the function that releases it.
var openLedger = func(ctx context.Context) (*services.Ledger, func() error, error) {
	p := *dbPath
	if p == "" {
		p = config.Load().SQLiteDBPath
	}
	repo, err := storage.NewSQLiteRepository(p)
	if err != nil {
		return nil, nil, fmt.Errorf("open ledger %q: %w", p, err)
	}
	ledger := services.NewLedger(repo, learning.DefaultCatalog())
	if err := ledger.Load(ctx); err != nil {
		repo.Close()
		return nil, nil, err
	}
	return ledger, repo.Close, nil
}

// withLedger runs fn against an open ledger and maps errors to exit codes.
func withLedger(ctx context.Context, fn func(*services.Ledger) error) subcommands.ExitStatus {
	ledger, closeFn, err := openLedger(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeFn()

	if err := fn(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&addMealCmd{}, "nutrition")
	c.Register(&mealsCmd{}, "nutrition")
	c.Register(&macrosCmd{}, "nutrition")

	c.Register(&addTxCmd{}, "finance")
	c.Register(&transactionsCmd{}, "finance")
	c.Register(&totalsCmd{}, "finance")

	c.Register(&modulesCmd{}, "learning")
	c.Register(&completeLessonCmd{}, "learning")
}

func main() {
	cli.LoadEnvFile()
	log.SetDefault(log.New(os.Stderr, log.ParseLevel(os.Getenv("LOG_LEVEL")), log.ComponentCLI))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
