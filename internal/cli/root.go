package cli

import (
	"log/slog"

	"github.com/alexanderramin/arbor/internal/config"
	"github.com/alexanderramin/arbor/internal/logging"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/spf13/cobra"
)

// App holds what commands need. Setup, when set, runs after flag parsing to
// fill Logger, and Lists when the command works on the local store, from the
// effective configuration.
type App struct {
	Lists  service.ListService
	Config config.Config
	Logger *slog.Logger

	Setup func(app *App, withStore bool) error

	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question.
	Confirm func(title, description string) (bool, error)
}

// annotationRemote marks commands that talk to a server instead of the
// local store.
const annotationRemote = "remote"

// NewRootCmd creates the top-level "arbor" command.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "arbor",
		Short:         "Hierarchical checklists with derived completion",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := config.BindFlags(root.PersistentFlags())

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		flags.Apply(&app.Config)
		if err := app.Config.Validate(); err != nil {
			return err
		}
		if app.Setup != nil {
			return app.Setup(app, cmd.Annotations[annotationRemote] == "")
		}
		return nil
	}

	root.AddCommand(
		newServeCmd(app),
		newListsCmd(app),
		newListCmd(app),
		newShowCmd(app),
		newParentsCmd(app),
		newItemCmd(app),
		newResetCmd(app),
		newTUICmd(app),
	)
	return root
}

func (app *App) logger() *slog.Logger {
	if app.Logger == nil {
		return logging.Discard()
	}
	return app.Logger
}
