package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "lists",
		Aliases: []string{"ls"},
		Short:   "Show all lists",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := app.Lists.GetListSummaries(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatListSummaries(lists))
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage lists",
	}
	cmd.AddCommand(
		newListAddCmd(app),
		newListRenameCmd(app),
		newListRemoveCmd(app),
	)
	return cmd
}

func newListAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add [title]",
		Short: "Create a list",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := app.Lists.CreateList(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created list %s [%s]\n", l.Title, formatter.TruncID(l.ID))
			return nil
		},
	}
}

func newListRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <list> <title>",
		Short: "Rename a list",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			l, err := app.Lists.UpdateListTitle(ctx, id, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed list to %s\n", l.Title)
			return nil
		},
	}
}

func newListRemoveCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <list>",
		Aliases: []string{"remove"},
		Short:   "Delete a list and all of its items",
		Args:    cobra.ExactArgs(1),
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
			ok, err := app.confirm(yes, fmt.Sprintf("Delete %q?", l.Title), "All of its items are deleted too.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
				return nil
			}
			if _, err := app.Lists.DeleteList(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted list %s\n", l.Title)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
