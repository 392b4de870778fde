package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchlist/triage/internal/columns"
	"github.com/watchlist/triage/internal/domain"
	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/ledger"
)

// rowAction runs one item action against a row of the current page.
type rowAction func(ctx context.Context, a *ledger.Actions, row domain.ItemRow, args []string) error

func newActionCmds(app *App) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "favorite <item-id>",
			Short: "Toggle the favorite flag of an item on the current page",
			Args:  cobra.ExactArgs(1),
			RunE: runRowAction(app, func(ctx context.Context, a *ledger.Actions, row domain.ItemRow, _ []string) error {
				return a.ToggleFavorite(ctx, row)
			}),
		},
		{
			Use:   "hide <item-id>",
			Short: "Toggle the hidden flag of an item on the current page",
			Args:  cobra.ExactArgs(1),
			RunE: runRowAction(app, func(ctx context.Context, a *ledger.Actions, row domain.ItemRow, _ []string) error {
				return a.ToggleHidden(ctx, row)
			}),
		},
		{
			Use:   "note <item-id> [text...]",
			Short: "Set the note of an item on the current page; no text clears it",
			Args:  cobra.MinimumNArgs(1),
			RunE: runRowAction(app, func(ctx context.Context, a *ledger.Actions, row domain.ItemRow, args []string) error {
				return a.UpdateNote(ctx, row, strings.Join(args[1:], " "))
			}),
		},
		{
			Use:   "refresh <item-id>",
			Short: "Re-fetch the listing data of an item on the current page",
			Args:  cobra.ExactArgs(1),
			RunE: runRowAction(app, func(ctx context.Context, a *ledger.Actions, row domain.ItemRow, _ []string) error {
				return a.Refresh(ctx, row.ItemID)
			}),
		},
	}
}

func runRowAction(app *App, action rowAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		c, err := startQuery(ctx, app)
		if err != nil {
			return err
		}
		snap := c.Snapshot()
		if snap.Error != "" {
			return &domainerrors.Error{Code: domainerrors.CodeTransport, Message: snap.Error}
		}
		row, err := findRow(snap.Result, args[0])
		if err != nil {
			return err
		}

		actions, err := service[*ledger.Actions](app)
		if err != nil {
			return err
		}
		if err := action(ctx, actions, row, args); err != nil {
			writeError(cmd.ErrOrStderr(), actions.ActionError())
			return err
		}
		return printRow(cmd, app, actions.Ledger().ProjectRow(row))
	}
}

func findRow(rs *domain.ResultSet, itemID string) (domain.ItemRow, error) {
	i := slices.IndexFunc(rs.Items, func(r domain.ItemRow) bool { return r.ItemID == itemID })
	if i < 0 {
		return domain.ItemRow{}, domainerrors.NotFoundf("item %s is not on the current page", itemID)
	}
	return rs.Items[i], nil
}

func printRow(cmd *cobra.Command, app *App, row domain.ItemRow) error {
	out := cmd.OutOrStdout()
	if app.JSON {
		return writeJSON(out, row)
	}
	store, err := service[*columns.Store](app)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, itemsTable([]domain.ItemRow{row}, store.Columns()))
	if row.Text != nil {
		fmt.Fprintf(out, "note: %s\n", *row.Text)
	}
	return nil
}
