package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchlist/triage/internal/columns"
	domainerrors "github.com/watchlist/triage/internal/errors"
)

func newColumnsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Show or change the visible dense-table columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printColumns(cmd, app)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <column>...",
			Short: "Show exactly the given columns (unknown names are dropped)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*columns.Store](app)
				if err != nil {
					return err
				}
				store.SetColumns(columns.Normalize(args))
				return printColumns(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "toggle <column>",
			Short: "Show or hide one column; the last visible column stays",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				k := columns.Key(args[0])
				if !k.Valid() {
					return domainerrors.Validationf("unknown column %q", args[0])
				}
				store, err := service[*columns.Store](app)
				if err != nil {
					return err
				}
				store.ToggleColumn(k)
				return printColumns(cmd, app)
			},
		},
		newPresetCmd(app),
	)
	return cmd
}

func newPresetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List, save, apply and delete column presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := service[*columns.Store](app)
			if err != nil {
				return err
			}
			presets := store.Presets()
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), presets)
			}
			active := store.ActivePreset()
			rows := make([][]string, len(presets))
			for i, p := range presets {
				mark := ""
				if p.ID == active {
					mark = "●"
				}
				rows[i] = []string{mark, p.ID, p.Label, joinKeys(p.Columns)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), keyValueTable([]string{"", "ID", "Label", "Columns"}, rows))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save <label>",
			Short: "Save the visible columns as a preset",
			Args:  cobra.ArbitraryArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*columns.Store](app)
				if err != nil {
					return err
				}
				p := store.SavePreset(strings.Join(args, " "), store.Columns())
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", p.ID, p.Label)
				return nil
			},
		},
		&cobra.Command{
			Use:   "apply <id>",
			Short: "Show the columns of a preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*columns.Store](app)
				if err != nil {
					return err
				}
				if _, err := store.ApplyPreset(args[0]); err != nil {
					return err
				}
				return printColumns(cmd, app)
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a user preset",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*columns.Store](app)
				if err != nil {
					return err
				}
				if err := store.DeletePreset(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func printColumns(cmd *cobra.Command, app *App) error {
	store, err := service[*columns.Store](app)
	if err != nil {
		return err
	}
	cols := store.Columns()
	active := store.ActivePreset()

	out := cmd.OutOrStdout()
	if app.JSON {
		return writeJSON(out, struct {
			Columns []columns.Key `json:"columns"`
			Preset  string        `json:"preset"`
		}{cols, active})
	}
	if active == columns.CustomSelection {
		active = "custom selection"
	}
	fmt.Fprintf(out, "%s\npreset: %s\n", joinKeys(cols), active)
	return nil
}

func joinKeys(keys []columns.Key) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ",")
}
