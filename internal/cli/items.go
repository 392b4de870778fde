package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/watchlist/triage/internal/columns"
	"github.com/watchlist/triage/internal/di/providers"
	domainerrors "github.com/watchlist/triage/internal/errors"
	"github.com/watchlist/triage/internal/filtertags"
	"github.com/watchlist/triage/internal/query"
)

type itemsFlags struct {
	q          string
	sort       string
	view       string
	page       int
	pageSize   int
	favorite   bool
	showHidden bool
	showEnded  bool
	last24h    bool
	phone      bool
	next       bool
	prev       bool
	reset      bool
}

func newItemsCmd(app *App) *cobra.Command {
	var f itemsFlags

	cmd := &cobra.Command{
		Use:   "items",
		Short: "Show the current page of items, optionally changing the query first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patches, err := f.patches(cmd)
			if err != nil {
				return err
			}
			c, err := startQuery(cmd.Context(), app, patches...)
			if err != nil {
				return err
			}
			return printItems(cmd, app, c)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.q, "q", "", "Search text (resets to page 1)")
	fs.StringVar(&f.sort, "sort", "", "Sort: newest|ending_soon_active|price_low|price_high|bids_desc")
	fs.StringVar(&f.view, "view", "", "View: table|hybrid|cards")
	fs.BoolVar(&f.phone, "phone", false, "Resolve --view for a phone viewport")
	fs.IntVar(&f.page, "page", 0, "Page number")
	fs.IntVar(&f.pageSize, "page-size", 0, "Items per page")
	fs.BoolVar(&f.favorite, "favorite", false, "Only favorites")
	fs.BoolVar(&f.showHidden, "show-hidden", false, "Include hidden items")
	fs.BoolVar(&f.showEnded, "show-ended", false, "Include ended listings")
	fs.BoolVar(&f.last24h, "last-24h", false, "Only listings posted in the last 24 hours")
	fs.BoolVar(&f.next, "next", false, "Go to the next page")
	fs.BoolVar(&f.prev, "prev", false, "Go to the previous page")
	fs.BoolVar(&f.reset, "reset", false, "Reset every filter before applying the other flags")

	return cmd
}

// patches turns the changed flags into query patches, in a fixed order.
func (f itemsFlags) patches(cmd *cobra.Command) ([]query.Patch, error) {
	changed := cmd.Flags().Changed
	var out []query.Patch

	if f.reset {
		out = append(out, func(s *query.State) { *s = query.Default() })
	}
	if changed("q") {
		out = append(out, query.WithQ(f.q), query.ResetPage())
	}
	if changed("favorite") {
		out = append(out, query.WithFavorite(f.favorite), query.ResetPage())
	}
	if changed("show-hidden") {
		out = append(out, query.WithShowHidden(f.showHidden), query.ResetPage())
	}
	if changed("show-ended") {
		out = append(out, query.WithShowEnded(f.showEnded), query.ResetPage())
	}
	if changed("last-24h") {
		out = append(out, query.WithLast24h(f.last24h), query.ResetPage())
	}
	if changed("sort") {
		sort := query.Sort(f.sort)
		if !sort.Valid() {
			return nil, domainerrors.Validationf("unknown sort %q", f.sort)
		}
		out = append(out, query.ChangeSort(sort))
	}
	if changed("view") {
		view := query.View(f.view)
		if !view.Valid() {
			return nil, domainerrors.Validationf("unknown view %q", f.view)
		}
		out = append(out, query.ChangeView(view, f.phone))
	}
	if changed("page-size") {
		out = append(out, query.WithPageSize(f.pageSize))
	}
	if changed("page") {
		out = append(out, query.WithPage(f.page))
	}
	if f.next {
		out = append(out, query.NextPage())
	}
	if f.prev {
		out = append(out, query.PrevPage())
	}
	return out, nil
}

// startQuery applies patches to the stored query, starts the controller and
// waits for the first page.
func startQuery(ctx context.Context, app *App, patches ...query.Patch) (*providers.QueryControllerHandle, error) {
	c, err := service[*providers.QueryControllerHandle](app)
	if err != nil {
		return nil, err
	}
	if len(patches) > 0 {
		c.UpdateQuery(patches...)
	}
	c.Start(ctx)
	c.Wait()
	return c, nil
}

func printItems(cmd *cobra.Command, app *App, c *providers.QueryControllerHandle) error {
	snap := c.Snapshot()
	out := cmd.OutOrStdout()

	if snap.Error != "" {
		return &domainerrors.Error{Code: domainerrors.CodeTransport, Message: snap.Error}
	}
	if app.JSON {
		return writeJSON(out, snap.Result)
	}

	store, err := service[*columns.Store](app)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, c.Href())
	fmt.Fprintln(out, itemsTable(snap.Result.Items, store.Columns()))
	fmt.Fprintln(out, pageFooter(snap.Result))
	return nil
}

func newTagCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Add or remove seller, category and main category filter tags",
	}

	edit := func(use, short string, patch func(filtertags.Field, string) query.Patch) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <seller|category|main_category> <value>",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				field, err := parseField(args[0])
				if err != nil {
					return err
				}
				c, err := service[*providers.QueryControllerHandle](app)
				if err != nil {
					return err
				}
				if p := patch(field, args[1]); p != nil {
					c.UpdateQuery(p)
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.Href())
				return nil
			},
		}
	}

	cmd.AddCommand(
		edit("add", "Add a filter tag (repeats are ignored)", filtertags.AddTag),
		edit("remove", "Remove a filter tag", filtertags.RemoveTag),
	)
	return cmd
}

func parseField(raw string) (filtertags.Field, error) {
	field := filtertags.Field(raw)
	if !field.Valid() {
		return "", domainerrors.Validationf("unknown filter field %q", raw)
	}
	return field, nil
}

func newSuggestCmd(app *App) *cobra.Command {
	var (
		scope []string
		apply bool
	)

	cmd := &cobra.Command{
		Use:   "suggest <seller|category|main_category> <input>",
		Short: "List autocomplete suggestions for a filter field",
		Long: `List autocomplete suggestions for a filter field.

With --apply the input is added as a filter tag when it matches one of the
suggestions exactly, ignoring case.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := parseField(args[0])
			if err != nil {
				return err
			}
			all, err := service[*providers.Suggestions](app)
			if err != nil {
				return err
			}
			s := all.For(field)

			ctx := cmd.Context()
			if len(scope) > 0 {
				s.SetScope(ctx, scope)
			}
			s.SetInput(ctx, args[1])
			s.Wait()

			out := cmd.OutOrStdout()
			suggestions := s.Suggestions()
			if !apply {
				if app.JSON {
					return writeJSON(out, suggestions)
				}
				for _, sg := range suggestions {
					fmt.Fprintln(out, sg.Label)
				}
				return nil
			}

			patch := s.Commit()
			if patch == nil {
				return domainerrors.NotFoundf("no suggestion matches %q", args[1])
			}
			c, err := service[*providers.QueryControllerHandle](app)
			if err != nil {
				return err
			}
			c.UpdateQuery(patch)
			fmt.Fprintln(out, c.Href())
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&scope, "main-category", nil, "Main categories narrowing category suggestions")
	cmd.Flags().BoolVar(&apply, "apply", false, "Add the input as a tag when it matches a suggestion")
	return cmd
}
