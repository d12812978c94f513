package testutil

import (
	"context"
	"strings"

	"github.com/mmcdole/cinescope/internal/domain"
)

// FakeCatalog is a domain.CatalogRepository serving a fixed movie set.
// Every listing returns all movies; detail lookups miss with ErrNotFound.
type FakeCatalog struct {
	Movies []domain.Movie
}

func (f *FakeCatalog) page() *domain.MoviePage {
	return &domain.MoviePage{Page: 1, TotalPages: 1, TotalResults: len(f.Movies), Results: f.Movies}
}

func (f *FakeCatalog) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page(), nil
}

func (f *FakeCatalog) TopRated(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page(), nil
}

func (f *FakeCatalog) Upcoming(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page(), nil
}

func (f *FakeCatalog) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	for _, m := range f.Movies {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *FakeCatalog) Credits(ctx context.Context, id int64) (*domain.Credits, error) {
	return &domain.Credits{}, nil
}

func (f *FakeCatalog) Similar(ctx context.Context, id int64) (*domain.MoviePage, error) {
	return &domain.MoviePage{Page: 1}, nil
}

func (f *FakeCatalog) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	var out []domain.Movie
	for _, m := range f.Movies {
		if strings.Contains(strings.ToLower(m.Title), strings.ToLower(query)) {
			out = append(out, m)
		}
	}
	return &domain.MoviePage{Page: 1, Results: out}, nil
}

func (f *FakeCatalog) Person(ctx context.Context, id int64) (*domain.Person, error) {
	return nil, domain.ErrNotFound
}

func (f *FakeCatalog) PersonMovieCredits(ctx context.Context, id int64) (*domain.PersonMovieCredits, error) {
	return &domain.PersonMovieCredits{}, nil
}

func (f *FakeCatalog) Genres(ctx context.Context) ([]domain.Genre, error) {
	return nil, nil
}

func (f *FakeCatalog) Discover(ctx context.Context, filters domain.DiscoverFilters) (*domain.MoviePage, error) {
	return f.page(), nil
}
