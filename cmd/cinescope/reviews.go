package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/spf13/cobra"
)

func newReviewsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read and post movie reviews",
	}
	cmd.AddCommand(newReviewsListCmd(opts), newReviewsPostCmd(opts))
	return cmd
}

func newReviewsListCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <movie-id>",
		Short: "List reviews for a movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.API.Timeout)
				defer cancel()

				list, err := a.reviews.Reviews(ctx, id)
				if err != nil {
					return fmt.Errorf("failed to fetch reviews: %w", err)
				}
				if len(list) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No reviews yet")
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, r := range list {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Stars(), r.Username, r.Content)
				}
				return tw.Flush()
			})
		},
	}
}

func newReviewsPostCmd(opts *globalOptions) *cobra.Command {
	var (
		rating  int
		content string
	)

	cmd := &cobra.Command{
		Use:   "post <movie-id>",
		Short: "Post a review as the logged-in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseMovieID(args[0])
			if err != nil {
				return err
			}
			return withApp(opts, func(a *app) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.API.Timeout)
				defer cancel()

				r, err := a.reviews.Post(ctx, id, rating, content)
				switch {
				case errors.Is(err, domain.ErrNotAuthenticated):
					return fmt.Errorf("%w: run cinescope login first", err)
				case err != nil:
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Posted %s review for movie %d\n", r.Stars(), id)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Star rating, 1 to 5")
	cmd.Flags().StringVarP(&content, "content", "m", "", "Review text")
	return cmd
}
