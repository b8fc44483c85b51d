package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/arbor/internal/cli"
	"github.com/alexanderramin/arbor/internal/config"
	"github.com/alexanderramin/arbor/internal/db"
	"github.com/alexanderramin/arbor/internal/logging"
	"github.com/alexanderramin/arbor/internal/repository"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.FilePath())
	if err != nil {
		return err
	}

	var closers []io.Closer
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	app := &cli.App{
		Config: *cfg,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	}

	// Setup runs once flags are parsed, so the store and logger follow the
	// effective configuration.
	app.Setup = func(app *cli.App, withStore bool) error {
		logger, err := logging.New(os.Stderr, app.Config.LogLevel, app.Config.LogFormat)
		if err != nil {
			return err
		}
		app.Logger = logger
		if !withStore {
			return nil
		}

		var repo repository.ListRepo
		switch app.Config.Store {
		case config.StoreMemory:
			repo = repository.NewMemoryListRepo()
		default:
			database, err := db.OpenDB(app.Config.DBPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			closers = append(closers, database)
			repo = repository.NewSQLiteListRepo(database)
		}
		logger.Debug("store ready", "store", app.Config.Store, "db", app.Config.DBPath)

		app.Lists = service.NewListService(repo, service.NewLogUseCaseObserver(logger))
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
