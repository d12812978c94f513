package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newWatchlistCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watchlist",
		Aliases: []string{"wl"},
		Short:   "Manage your watchlist",
		Long: `Manage the watchlist of the logged-in user. The watchlist is stored
locally and is erased when you log out.`,
	}
	cmd.AddCommand(
		newWatchlistListCmd(opts),
		newWatchlistAddCmd(opts),
		newWatchlistRemoveCmd(opts),
		newWatchlistExportCmd(opts),
	)
	return cmd
}

func newWatchlistListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List watchlist entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				items := a.watchlist.Items()
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Your watchlist is empty")
					return nil
				}
				return printMovies(cmd.OutOrStdout(), items)
			})
		},
	}
}

func newWatchlistAddCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <movie-id>",
		Short: "Add a movie by catalog ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				if a.watchlist.Contains(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "Movie %d is already on your watchlist\n", id)
					return nil
				}
				if err := a.requireCatalog(); err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.Catalog.Timeout)
				defer cancel()

				movie, err := a.catalogClient.Movie(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to fetch movie %d: %w", id, err)
				}
				a.watchlist.Add(*movie)
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s\n", movie.Title)
				return nil
			})
		},
	}
}

func newWatchlistRemoveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <movie-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie by catalog ID",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}
				if !a.watchlist.Remove(id) {
					fmt.Fprintf(cmd.OutOrStdout(), "Movie %d is not on your watchlist\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d\n", id)
				return nil
			})
		},
	}
}

func newWatchlistExportCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the watchlist as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, func(a *app) error {
				if err := requireLogin(a); err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return fmt.Errorf("failed to create output file: %w", err)
					}
					defer f.Close()
					w = f
				}
				if err := exportMovies(w, format, a.watchlist.Items()); err != nil {
					return err
				}
				if output != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d movies to %s\n", a.watchlist.Len(), output)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Export format: json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// exportEntry is the exported shape of a watchlist movie
type exportEntry struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	ReleaseDate string  `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	VoteAverage float64 `json:"vote_average" yaml:"vote_average"`
	Overview    string  `json:"overview,omitempty" yaml:"overview,omitempty"`
}

func exportMovies(w io.Writer, format string, movies []domain.Movie) error {
	entries := make([]exportEntry, len(movies))
	for i, m := range movies {
		entries[i] = exportEntry{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseDate: m.ReleaseDate,
			VoteAverage: m.VoteAverage,
			Overview:    m.Overview,
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}
}

func printMovies(w io.Writer, movies []domain.Movie) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tRATING")
	for _, m := range movies {
		year := "-"
		if y := m.Year(); y > 0 {
			year = strconv.Itoa(y)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\n", m.ID, m.Title, year, m.VoteAverage)
	}
	return tw.Flush()
}

func parseMovieID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid movie ID: %q", s)
	}
	return id, nil
}

func requireLogin(a *app) error {
	if !a.session.IsAuthenticated() {
		return fmt.Errorf("%w: run cinescope login first", domain.ErrNotAuthenticated)
	}
	return nil
}
