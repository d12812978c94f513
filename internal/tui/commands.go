package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/reviews"
	"github.com/mmcdole/cinescope/internal/search"
	"github.com/mmcdole/cinescope/internal/session"
)

// Command factories for async operations

// LoadHomeCmd loads the popular, top rated and upcoming listings
func LoadHomeCmd(svc *catalog.Service, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		home, err := svc.Home(ctx)
		if err != nil {
			return ErrMsg{Err: err, Context: "loading movies"}
		}
		return HomeLoadedMsg{Home: home}
	}
}

// LoadMovieDetailCmd loads a movie with its cast and similar movies
func LoadMovieDetailCmd(svc *catalog.Service, tok catalog.Token, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		detail, err := svc.MovieDetail(ctx, tok.ID)
		return MovieDetailMsg{Token: tok, Detail: detail, Err: err}
	}
}

// LoadReviewsCmd loads the reviews for a movie
func LoadReviewsCmd(svc *reviews.Service, movieID int64, timeout time.Duration) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		list, err := svc.Reviews(ctx, movieID)
		return ReviewsLoadedMsg{MovieID: movieID, Reviews: list, Err: err}
	}
}

// SearchCmd runs a remote title search and ranks the results
func SearchCmd(svc *catalog.Service, query string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		results, err := svc.Search(ctx, query)
		if err != nil {
			return ErrMsg{Err: err, Context: "searching"}
		}
		return SearchResultsMsg{Query: query, Results: search.Rank(query, results)}
	}
}

// LoginCmd authenticates through the session store
func LoginCmd(store *session.Store, username, password string, timeout time.Duration) tea.Cmd {
	username = strings.TrimSpace(username)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		err := store.Login(ctx, username, password)
		return LoginResultMsg{Username: username, Err: err}
	}
}

// ClearStatusCmd clears the status message after a delay
func ClearStatusCmd(seq int, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{seq: seq}
	})
}
