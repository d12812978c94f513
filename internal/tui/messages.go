package tui

import (
	"github.com/mmcdole/cinescope/internal/catalog"
	"github.com/mmcdole/cinescope/internal/domain"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// HomeLoadedMsg carries the curated listings
type HomeLoadedMsg struct {
	Home *catalog.Home
}

// MovieDetailMsg carries a movie's detail view data.
// Token identifies the request; stale tokens are dropped.
type MovieDetailMsg struct {
	Token  catalog.Token
	Detail *catalog.MovieDetail
	Err    error
}

// ReviewsLoadedMsg carries the reviews for a movie
type ReviewsLoadedMsg struct {
	MovieID int64
	Reviews []domain.Review
	Err     error
}

// SearchResultsMsg signals that remote search results are ready
type SearchResultsMsg struct {
	Query   string
	Results []domain.Movie
}

// LoginResultMsg reports the outcome of a login attempt
type LoginResultMsg struct {
	Username string
	Err      error
}

// SessionChangedMsg signals that the authentication state changed
type SessionChangedMsg struct {
	Session domain.Session
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct {
	seq int
}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
