package cli

import (
	"fmt"

	"github.com/alexanderramin/arbor/internal/client"
	"github.com/alexanderramin/arbor/internal/logging"
	"github.com/alexanderramin/arbor/internal/optimistic"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var listArg string
	cmd := &cobra.Command{
		Use:         "tui",
		Short:       "Interactive checklist against a running arbor server",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationRemote: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c := client.New(app.Config.ServerURL)
			if err := c.Health(ctx); err != nil {
				return fmt.Errorf("connecting to %s: %w", app.Config.ServerURL, err)
			}

			listID, err := resolveRemoteListID(cmd, c, listArg)
			if err != nil {
				return err
			}

			var p *tea.Program
			wake := func() {
				if p != nil {
					go p.Send(refreshMsg{})
				}
			}
			// Failures reach the user through the notice line; stderr would
			// draw over the alt screen.
			m := newTUIModel(c, listID, optimistic.Options{
				CreateDebounce: app.Config.CreateDebounce,
				Logger:         logging.Discard(),
			}, wake)
			defer m.coord.Close()

			p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&listArg, "list", "l", "", "List ID or unique prefix to open (default: first list)")
	return cmd
}

// resolveRemoteListID matches input against the server's lists the way
// resolveListID does locally.
func resolveRemoteListID(cmd *cobra.Command, c *client.Client, input string) (string, error) {
	ctx := cmd.Context()
	if input == "" {
		return c.DefaultListID(ctx)
	}
	lists, err := c.ListSummaries(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(lists))
	for i, l := range lists {
		ids[i] = l.ID
	}
	return matchID(ids, input)
}
