package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/nvetter/fieldline/internal/cli"
	"github.com/nvetter/fieldline/internal/db"
	"github.com/nvetter/fieldline/internal/repository"
	"github.com/nvetter/fieldline/internal/service"
	"github.com/nvetter/fieldline/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.fieldline/fieldline.db
	dbPath := os.Getenv("FIELDLINE_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".fieldline", "fieldline.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	threadRepo := repository.NewSQLiteThreadRepo(database)
	fieldRepo := repository.NewSQLiteFieldRepo(database)
	entryRepo := repository.NewSQLiteEntryRepo(database)
	valueRepo := repository.NewSQLiteFieldValueRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	fields := store.NewFieldStore(fieldRepo, uow)

	app := &cli.App{
		Threads: service.NewThreadService(threadRepo),
		Entries: service.NewEntryService(entryRepo, fields, uow),
		Export:  service.NewExportService(fields, entryRepo, valueRepo),
		Fields:  fields,
	}

	// Detect interactive terminal for the entry form.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
