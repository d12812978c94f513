package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/search"
	"github.com/spf13/cobra"
)

const (
	maxCastPrinted    = 10
	maxSimilarPrinted = 5
)

func newMoviesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movies",
		Aliases: []string{"m"},
		Short:   "Browse the movie catalog",
	}
	cmd.AddCommand(
		newMoviesListCmd(opts),
		newMoviesShowCmd(opts),
		newMoviesSearchCmd(opts),
		newMoviesDiscoverCmd(opts),
		newMoviesGenresCmd(opts),
		newMoviesPersonCmd(opts),
	)
	return cmd
}

// withCatalog runs fn with a configured catalog and a context bounded by the catalog timeout
func withCatalog(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, a *app) error) error {
	return withApp(opts, func(a *app) error {
		if err := a.requireCatalog(); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Catalog.Timeout)
		defer cancel()
		return fn(ctx, a)
	})
}

func newMoviesListCmd(opts *globalOptions) *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:       "list [popular|top-rated|upcoming]",
		Short:     "List popular, top rated or upcoming movies",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"popular", "top-rated", "upcoming"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "popular"
			if len(args) == 1 {
				which = args[0]
			}
			pick, err := homeListSelector(which)
			if err != nil {
				return err
			}

			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				var home *catalog.Home
				if cached {
					var ok bool
					if home, ok = a.catalog.CachedHome(); !ok {
						return fmt.Errorf("no cached listings; run without --cached first")
					}
				} else if home, err = a.catalog.Home(ctx); err != nil {
					return fmt.Errorf("failed to fetch movies: %w", err)
				}
				return printMovies(cmd.OutOrStdout(), pick(home))
			})
		},
	}
	cmd.Flags().BoolVar(&cached, "cached", false, "Use the last fetched listings without contacting the catalog")
	return cmd
}

func homeListSelector(name string) (func(*catalog.Home) []domain.Movie, error) {
	switch strings.ToLower(name) {
	case "popular":
		return func(h *catalog.Home) []domain.Movie { return h.Popular }, nil
	case "top-rated", "top_rated", "toprated":
		return func(h *catalog.Home) []domain.Movie { return h.TopRated }, nil
	case "upcoming":
		return func(h *catalog.Home) []domain.Movie { return h.Upcoming }, nil
	default:
		return nil, fmt.Errorf("unknown list %q (use popular, top-rated or upcoming)", name)
	}
}

func newMoviesShowCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <movie-id>",
		Short: "Show a movie with its cast, similar titles and reviews",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				detail, err := a.catalog.MovieDetail(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to fetch movie %d: %w", id, err)
				}

				// Reviews are best effort; the companion API may be down
				reviews, err := a.reviews.Reviews(ctx, id)
				if err != nil {
					a.logger.Warn("failed to fetch reviews", "error", err, "movieID", id)
				}

				printMovieDetail(cmd.OutOrStdout(), detail, a.watchlist.Contains(id), reviews)
				return nil
			})
		},
	}
}

func printMovieDetail(w io.Writer, d *catalog.MovieDetail, inWatchlist bool, reviews []domain.Review) {
	m := d.Movie
	title := m.Title
	if inWatchlist {
		title += " ♥"
	}
	fmt.Fprintln(w, title)

	var meta []string
	if y := m.Year(); y > 0 {
		meta = append(meta, fmt.Sprint(y))
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if g := m.GenreNames(); g != "" {
		meta = append(meta, g)
	}
	if m.VoteCount > 0 {
		meta = append(meta, fmt.Sprintf("★ %.1f (%d votes)", m.VoteAverage, m.VoteCount))
	}
	if len(meta) > 0 {
		fmt.Fprintln(w, strings.Join(meta, " · "))
	}
	if m.Overview != "" {
		fmt.Fprintf(w, "\n%s\n", m.Overview)
	}

	if len(d.Cast) > 0 {
		fmt.Fprintln(w, "\nCast:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for i, c := range d.Cast {
			if i == maxCastPrinted {
				break
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\n", c.ID, c.Name, c.Character)
		}
		tw.Flush()
	}

	if len(d.Similar) > 0 {
		fmt.Fprintln(w, "\nSimilar:")
		for i, s := range d.Similar {
			if i == maxSimilarPrinted {
				break
			}
			fmt.Fprintf(w, "  %d  %s\n", s.ID, s.Title)
		}
	}

	if len(reviews) > 0 {
		fmt.Fprintln(w, "\nReviews:")
		for _, r := range reviews {
			fmt.Fprintf(w, "  %s %s: %s\n", r.Stars(), r.Username, r.Content)
		}
	}
}

func newMoviesSearchCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				results, err := a.catalog.Search(ctx, query)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "No results for %q\n", query)
					return nil
				}
				return printMovies(cmd.OutOrStdout(), search.Rank(query, results))
			})
		},
	}
}

func newMoviesDiscoverCmd(opts *globalOptions) *cobra.Command {
	var f domain.DiscoverFilters

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find movies by genre, year and rating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				results, err := a.catalog.Discover(ctx, f)
				if err != nil {
					return fmt.Errorf("discover failed: %w", err)
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No movies match these filters")
					return nil
				}
				return printMovies(cmd.OutOrStdout(), results)
			})
		},
	}
	cmd.Flags().Int64VarP(&f.GenreID, "genre", "g", 0, "Genre ID (see cinescope movies genres)")
	cmd.Flags().IntVarP(&f.Year, "year", "y", 0, "Primary release year")
	cmd.Flags().StringVarP(&f.SortBy, "sort", "s", "popularity.desc", "Sort order, e.g. vote_average.desc")
	cmd.Flags().IntVar(&f.MinVotes, "min-votes", 0, "Minimum vote count")
	cmd.Flags().IntVarP(&f.Page, "page", "p", 1, "Result page")
	return cmd
}

func newMoviesGenresCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List movie genres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				genres, err := a.catalog.Genres(ctx)
				if err != nil {
					return fmt.Errorf("failed to fetch genres: %w", err)
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, g := range genres {
					fmt.Fprintf(tw, "%d\t%s\n", g.ID, g.Name)
				}
				return tw.Flush()
			})
		},
	}
}

func newMoviesPersonCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "person <person-id>",
		Short: "Show a cast or crew member and their movies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withCatalog(cmd, opts, func(ctx context.Context, a *app) error {
				pd, err := a.catalog.PersonDetail(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to fetch person %d: %w", id, err)
				}

				w := cmd.OutOrStdout()
				p := pd.Person
				fmt.Fprintln(w, p.Name)
				var meta []string
				for _, s := range []string{p.KnownForDepartment, p.Birthday, p.PlaceOfBirth} {
					if s != "" {
						meta = append(meta, s)
					}
				}
				if len(meta) > 0 {
					fmt.Fprintln(w, strings.Join(meta, " · "))
				}
				if p.Biography != "" {
					fmt.Fprintf(w, "\n%s\n", p.Biography)
				}
				if len(pd.Credits) == 0 {
					return nil
				}
				fmt.Fprintln(w)
				return printMovies(w, pd.Credits)
			})
		},
	}
}
