package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/arbor/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := web.NewServer(web.ServerConfig{
				Addr:           app.Config.Addr,
				AllowedOrigins: app.Config.AllowedOrigins,
				Lists:          app.Lists,
				Logger:         app.logger(),
			})
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
}
