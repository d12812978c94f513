package testutil

import "github.com/mmcdole/cinescope/internal/domain"

// Movie returns a minimal catalog movie
func Movie(id int64, title string) domain.Movie {
	return domain.Movie{
		ID:          id,
		Title:       title,
		Overview:    title + " overview",
		ReleaseDate: "2010-07-16",
		VoteAverage: 8.1,
		VoteCount:   1000,
	}
}
