package cli

import (
	"fmt"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var completed bool
	cmd := &cobra.Command{
		Use:   "show [list]",
		Short: "Show a list as a tree (defaults to the first list)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := listArgOrDefault(cmd, app, args)
			if err != nil {
				return err
			}
			l, err := app.Lists.GetListByID(ctx, id)
			if err != nil {
				return err
			}
			mode := domain.ViewPending
			if completed {
				mode = domain.ViewCompleted
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatList(l, mode))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&completed, "completed", "c", false, "Show completed items instead of pending ones")
	return cmd
}

func newParentsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "parents <list>",
		Short: "Show the items new items can be nested under",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Lists.GetListByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatParentOptions(tree.BuildParentOptions(l.Items)))
			return nil
		},
	}
}

// listArgOrDefault resolves args[0] when present, otherwise the first list.
func listArgOrDefault(cmd *cobra.Command, app *App, args []string) (string, error) {
	if len(args) > 0 {
		return resolveListID(cmd.Context(), app, args[0])
	}
	id, err := app.Lists.GetDefaultListID(cmd.Context())
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no lists yet: create one with 'arbor list add'")
	}
	return id, nil
}
