package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/prefs"
)

func newThemeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the theme override",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := service[*prefs.Preferences](app)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				switch t := prefs.Theme(args[0]); {
				case args[0] == "system":
					p.SetTheme(nil)
				case t.Valid():
					p.SetTheme(&t)
				default:
					return domainerrors.Validationf("unknown theme %q", args[0])
				}
			}
			theme, ok := p.Theme()
			if !ok {
				theme = "system"
			}
			fmt.Fprintln(cmd.OutOrStdout(), theme)
			return nil
		},
	}
}

func newSidebarCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "sidebar [open|closed]",
		Short:     "Show or set whether the filter sidebar starts open",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"open", "closed"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := service[*prefs.Preferences](app)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				switch args[0] {
				case "open":
					p.SetSidebarOpen(true)
				case "closed":
					p.SetSidebarOpen(false)
				default:
					return domainerrors.Validationf("unknown sidebar state %q", args[0])
				}
			}
			state := "open"
			if !p.SidebarOpen() {
				state = "closed"
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
}
