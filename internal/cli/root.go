// Package cli implements the triage command line: browsing the items query,
// item actions, and the stored column, view and display preferences.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/di"
)

// App carries the global flags and the container of one invocation.
type App struct {
	Overrides config.Overrides
	JSON      bool

	injector *do.RootScope
}

// Execute runs the command line with args and releases the container
// afterwards, whether or not the command succeeded.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	app := &App{}
	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(ctx)
	app.Close()
	return err
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "triage",
		Short:        "Triage watched auction listings from the terminal",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Show the current page of items
  triage items

  # Narrow to one seller and search text
  triage tag add seller alice_shop
  triage items --q tele

  # Favorites screen
  triage --base-path /favorites items
`),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			app.injector = di.NewContainer(app.Overrides)
			return di.Bootstrap(app.injector)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.Overrides.Environment, "env", "", "Environment (development|staging|production)")
	flags.StringVar(&app.Overrides.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	flags.StringVar(&app.Overrides.APIBaseURL, "api-url", "", "Listings API base URL")
	flags.StringVar(&app.Overrides.APITimeout, "api-timeout", "", "Per-request API timeout (e.g. 15s)")
	flags.StringVar(&app.Overrides.StoragePath, "storage", "", "Preference database directory (empty keeps preferences in memory)")
	flags.StringVar(&app.Overrides.BasePath, "base-path", "", "Items route: / or /favorites")
	flags.StringVar(&app.Overrides.EnvFile, "env-file", "", "Path to a .env file (default .env)")
	flags.BoolVar(&app.JSON, "json", false, "Print JSON instead of tables")

	cmd.AddCommand(newItemsCmd(app))
	cmd.AddCommand(newTagCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newActionCmds(app)...)
	cmd.AddCommand(newColumnsCmd(app))
	cmd.AddCommand(newViewsCmd(app))
	cmd.AddCommand(newSearchesCmd(app))
	cmd.AddCommand(newThemeCmd(app))
	cmd.AddCommand(newSidebarCmd(app))

	return cmd
}

// Close shuts the container down. It is safe to call when no command ran.
func (app *App) Close() {
	if app.injector == nil {
		return
	}
	_ = app.injector.Shutdown()
	app.injector = nil
}

func service[T any](app *App) (T, error) {
	return do.Invoke[T](app.injector)
}
