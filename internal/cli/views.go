package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/watchlist/triage/internal/config"
	"github.com/watchlist/triage/internal/di/providers"
	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/query"
	"github.com/watchlist/triage/internal/querysync"
	"github.com/watchlist/triage/internal/savedviews"
)

func newViewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "List, save, apply and delete saved filter views",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := service[*savedviews.Store](app)
			if err != nil {
				return err
			}
			views := store.Views()
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			rows := make([][]string, len(views))
			for i, v := range views {
				rows[i] = []string{v.ID, v.Name, querysync.BasePath(v.RouteMode)}
			}
			fmt.Fprintln(cmd.OutOrStdout(), keyValueTable([]string{"ID", "Name", "Route"}, rows))
			return nil
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "save <name>",
			Short: "Save the current filters under name",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, c, mode, err := viewDeps(app)
				if err != nil {
					return err
				}
				v, err := store.SaveView(strings.Join(args, " "), mode, c.State())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", v.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "apply <id>",
			Short: "Restore the filters of a saved view",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, c, mode, err := viewDeps(app)
				if err != nil {
					return err
				}
				v, err := store.View(args[0])
				if err != nil {
					return err
				}
				if v.RouteMode != mode {
					return domainerrors.Validationf("view %s belongs to %s; run with --base-path %s",
						v.ID, querysync.BasePath(v.RouteMode), querysync.BasePath(v.RouteMode))
				}
				c.UpdateQuery(v.Apply())
				fmt.Fprintln(cmd.OutOrStdout(), c.Href())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a saved view",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*savedviews.Store](app)
				if err != nil {
					return err
				}
				if err := store.DeleteView(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func viewDeps(app *App) (*savedviews.Store, *providers.QueryControllerHandle, query.RouteMode, error) {
	store, err := service[*savedviews.Store](app)
	if err != nil {
		return nil, nil, "", err
	}
	c, err := service[*providers.QueryControllerHandle](app)
	if err != nil {
		return nil, nil, "", err
	}
	cfg, err := service[*config.Config](app)
	if err != nil {
		return nil, nil, "", err
	}
	mode := query.RouteAll
	if cfg.FavoritesOnly() {
		mode = query.RouteFavorites
	}
	return store, c, mode, nil
}

func newSearchesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "searches",
		Short: "List, save, run and delete watched searches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := service[*savedviews.Store](app)
			if err != nil {
				return err
			}
			searches := store.Searches()
			if app.JSON {
				return writeJSON(cmd.OutOrStdout(), searches)
			}
			rows := make([][]string, len(searches))
			for i, s := range searches {
				maxPrice := ""
				if s.MaxPrice != nil {
					maxPrice = *s.MaxPrice
				}
				rows[i] = []string{s.ID, s.Name, s.Q, strings.Join(s.MainCategory, ","), strings.Join(s.Category, ","), maxPrice}
			}
			fmt.Fprintln(cmd.OutOrStdout(), keyValueTable([]string{"ID", "Name", "Query", "Main category", "Category", "Max price"}, rows))
			return nil
		},
	}

	var (
		q            string
		mainCategory []string
		category     []string
		maxPrice     string
	)
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a watched search",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := service[*savedviews.Store](app)
			if err != nil {
				return err
			}
			s, err := store.SaveSearch(strings.Join(args, " "), q, mainCategory, category, maxPrice)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", s.ID)
			return nil
		},
	}
	save.Flags().StringVar(&q, "q", "", "Search text")
	save.Flags().StringSliceVar(&mainCategory, "main-category", nil, "Main categories")
	save.Flags().StringSliceVar(&category, "category", nil, "Categories")
	save.Flags().StringVar(&maxPrice, "max-price", "", "Price ceiling")

	cmd.AddCommand(
		save,
		&cobra.Command{
			Use:   "run <id>",
			Short: "Apply a watched search to the current query",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*savedviews.Store](app)
				if err != nil {
					return err
				}
				var found *savedviews.WatchedSearch
				for _, s := range store.Searches() {
					if s.ID == args[0] {
						found = &s
						break
					}
				}
				if found == nil {
					return domainerrors.NotFoundf("watched search %q not found", args[0])
				}
				c, err := service[*providers.QueryControllerHandle](app)
				if err != nil {
					return err
				}
				c.UpdateQuery(found.Apply())
				fmt.Fprintln(cmd.OutOrStdout(), c.Href())
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a watched search",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := service[*savedviews.Store](app)
				if err != nil {
					return err
				}
				if err := store.DeleteSearch(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
