package domain

import (
	"context"
)

// CatalogRepository provides read-only access to the movie metadata API
type CatalogRepository interface {
	// Popular, TopRated and Upcoming return one page of a curated listing
	Popular(ctx context.Context, page int) (*MoviePage, error)
	TopRated(ctx context.Context, page int) (*MoviePage, error)
	Upcoming(ctx context.Context, page int) (*MoviePage, error)

	// Movie returns full detail for a movie
	Movie(ctx context.Context, id int64) (*Movie, error)

	// Credits returns the cast of a movie
	Credits(ctx context.Context, id int64) (*Credits, error)

	// Similar returns movies similar to the given one
	Similar(ctx context.Context, id int64) (*MoviePage, error)

	// Search performs a title search
	Search(ctx context.Context, query string, page int) (*MoviePage, error)

	// Person returns a cast or crew member
	Person(ctx context.Context, id int64) (*Person, error)

	// PersonMovieCredits returns the movies a person is credited on
	PersonMovieCredits(ctx context.Context, id int64) (*PersonMovieCredits, error)

	// Genres returns all movie genres
	Genres(ctx context.Context) ([]Genre, error)

	// Discover returns movies matching the filters
	Discover(ctx context.Context, filters DiscoverFilters) (*MoviePage, error)
}

// DiscoverFilters narrows a discover query. Zero values are omitted.
type DiscoverFilters struct {
	GenreID  int64
	Year     int
	SortBy   string // e.g. "popularity.desc", "vote_average.desc"
	MinVotes int
	Page     int
}

// Authenticator verifies credentials and returns the identity on success.
// Failures are *AuthError.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*User, error)
}

// ReviewRepository stores and lists user reviews
type ReviewRepository interface {
	Reviews(ctx context.Context, movieID int64) ([]Review, error)
	PostReview(ctx context.Context, movieID int64, review Review) (*Review, error)
}

// AccountRepository registers new users
type AccountRepository interface {
	Register(ctx context.Context, username, password string) error
}
