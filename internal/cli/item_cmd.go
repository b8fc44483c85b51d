package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/arbor/internal/domain"
	"github.com/alexanderramin/arbor/internal/service"
	"github.com/alexanderramin/arbor/internal/tree"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage the items of a list",
	}
	cmd.AddCommand(
		newItemAddCmd(app),
		newItemToggleCmd(app),
		newItemEditCmd(app),
		newItemRemoveCmd(app),
	)
	return cmd
}

// itemNotFound rewrites a missing-item error for the terminal.
func itemNotFound(err error, id string) error {
	if errors.Is(err, service.ErrNotFound) {
		return fmt.Errorf("item %q not found", id)
	}
	return err
}

func newItemAddCmd(app *App) *cobra.Command {
	var parentID string
	cmd := &cobra.Command{
		Use:   "add <list> <title>",
		Short: "Add an item at the top of the list or under --parent",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[1:], " ")
			if _, err := app.Lists.CreateItem(ctx, listID, title, parentID); err != nil {
				if parentID != "" {
					return itemNotFound(err, parentID)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", strings.TrimSpace(title))
			return nil
		},
	}
	cmd.Flags().StringVarP(&parentID, "parent", "p", "", "Nest the item under this item ID")
	return cmd
}

func newItemToggleCmd(app *App) *cobra.Command {
	var done, yes bool
	cmd := &cobra.Command{
		Use:   "toggle <list> <item>",
		Short: "Mark an item done or pending",
		Long: `Mark an item done or pending. Without --done the item flips.
Completing or reopening an item with children applies to its whole subtree
and asks for confirmation first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			itemID := args[1]
			node, err := app.Lists.GetNodeByID(ctx, listID, itemID)
			if err != nil {
				return itemNotFound(err, itemID)
			}
			completed := !node.Completed
			if cmd.Flags().Changed("done") {
				completed = done
			}

			switch tree.ToggleConfirmation(node, completed) {
			case tree.ConfirmComplete:
				ok, err := app.confirm(yes, fmt.Sprintf("Complete %q and everything under it?", node.Title),
					fmt.Sprintf("%d nested items will be marked done.", tree.CountNodes(node.Children)))
				if err != nil || !ok {
					return cancelled(cmd, err)
				}
				_, err = app.Lists.CompleteParent(ctx, listID, itemID)
				if err != nil {
					return itemNotFound(err, itemID)
				}
			case tree.ConfirmUncheck:
				ok, err := app.confirm(yes, fmt.Sprintf("Reopen %q and everything under it?", node.Title),
					fmt.Sprintf("%d nested items will be marked pending.", tree.CountNodes(node.Children)))
				if err != nil || !ok {
					return cancelled(cmd, err)
				}
				_, err = app.Lists.UncheckParent(ctx, listID, itemID)
				if err != nil {
					return itemNotFound(err, itemID)
				}
			default:
				if _, err := app.Lists.ToggleItem(ctx, listID, itemID, completed); err != nil {
					return itemNotFound(err, itemID)
				}
			}

			verb := "Reopened"
			if completed {
				verb = "Completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, node.Title)
			return nil
		},
	}
	cmd.Flags().BoolVar(&done, "done", true, "Target state (default: flip the current state)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt for items with children")
	return cmd
}

func newItemEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <list> <item> <title>",
		Short: "Rename an item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			title := strings.Join(args[2:], " ")
			if _, err := app.Lists.UpdateItemTitle(ctx, listID, args[1], title); err != nil {
				return itemNotFound(err, args[1])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed to %s\n", strings.TrimSpace(title))
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <list> <item>",
		Aliases: []string{"remove"},
		Short:   "Delete an item and everything under it",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			node, err := app.Lists.GetNodeByID(ctx, listID, args[1])
			if err != nil {
				return itemNotFound(err, args[1])
			}
			if _, err := app.Lists.DeleteItem(ctx, listID, node.ID); err != nil {
				return itemNotFound(err, node.ID)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d items)\n", node.Title, tree.CountNodes(domain.Forest{node}))
			return nil
		},
	}
}

func newResetCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset <list>",
		Short: "Mark every item of a list pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			listID, err := resolveListID(ctx, app, args[0])
			if err != nil {
				return err
			}
			ok, err := app.confirm(yes, "Reset every item to pending?", "Completed items cannot be restored afterwards.")
			if err != nil || !ok {
				return cancelled(cmd, err)
			}
			forest, err := app.Lists.ResetCompletedItems(ctx, listID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d items\n", tree.CountNodes(forest))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// cancelled passes err through, or reports a declined prompt.
func cancelled(cmd *cobra.Command, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
	return nil
}
