package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/logging"
)

// fakeRepo serves canned catalog data
type fakeRepo struct {
	movies  map[int64]domain.Movie
	failOn  string
	credits domain.PersonMovieCredits
}

var errFake = errors.New("fake failure")

func (f *fakeRepo) page(op string, ms ...domain.Movie) (*domain.MoviePage, error) {
	if f.failOn == op {
		return nil, errFake
	}
	return &domain.MoviePage{Page: 1, Results: ms}, nil
}

func (f *fakeRepo) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page("popular", domain.Movie{ID: 1, Title: "Popular"})
}
func (f *fakeRepo) TopRated(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page("top_rated", domain.Movie{ID: 2, Title: "Top"}, domain.Movie{ID: 3, Title: "Top 2"})
}
func (f *fakeRepo) Upcoming(ctx context.Context, page int) (*domain.MoviePage, error) {
	return f.page("upcoming")
}
func (f *fakeRepo) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	if f.failOn == "movie" {
		return nil, errFake
	}
	m, ok := f.movies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}
func (f *fakeRepo) Credits(ctx context.Context, id int64) (*domain.Credits, error) {
	if f.failOn == "credits" {
		return nil, errFake
	}
	return &domain.Credits{Cast: []domain.Cast{{ID: 10, Name: "Actor", Character: "Hero"}}}, nil
}
func (f *fakeRepo) Similar(ctx context.Context, id int64) (*domain.MoviePage, error) {
	return f.page("similar", domain.Movie{ID: id + 100, Title: "Similar"})
}
func (f *fakeRepo) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	return f.page("search", domain.Movie{ID: 5, Title: query})
}
func (f *fakeRepo) Person(ctx context.Context, id int64) (*domain.Person, error) {
	if f.failOn == "person" {
		return nil, errFake
	}
	return &domain.Person{ID: id, Name: "Person"}, nil
}
func (f *fakeRepo) PersonMovieCredits(ctx context.Context, id int64) (*domain.PersonMovieCredits, error) {
	return &f.credits, nil
}
func (f *fakeRepo) Genres(ctx context.Context) ([]domain.Genre, error) {
	return []domain.Genre{{ID: 28, Name: "Action"}}, nil
}
func (f *fakeRepo) Discover(ctx context.Context, filters domain.DiscoverFilters) (*domain.MoviePage, error) {
	return f.page("discover", domain.Movie{ID: filters.GenreID})
}

func TestService_Home(t *testing.T) {
	svc := NewService(&fakeRepo{}, logging.NullLogger())
	home, err := svc.Home(context.Background())
	if err != nil {
		t.Fatalf("Home() error = %v", err)
	}
	if len(home.Popular) != 1 || len(home.TopRated) != 2 || len(home.Upcoming) != 0 {
		t.Errorf("Home() = %+v", home)
	}
}

func TestService_HomeFailsTogether(t *testing.T) {
	svc := NewService(&fakeRepo{failOn: "upcoming"}, logging.NullLogger())
	if _, err := svc.Home(context.Background()); !errors.Is(err, errFake) {
		t.Errorf("Home() error = %v, want errFake", err)
	}
}

func TestService_MovieDetail(t *testing.T) {
	repo := &fakeRepo{movies: map[int64]domain.Movie{42: {ID: 42, Title: "Answer"}}}
	svc := NewService(repo, logging.NullLogger())

	d, err := svc.MovieDetail(context.Background(), 42)
	if err != nil {
		t.Fatalf("MovieDetail() error = %v", err)
	}
	if d.Movie.Title != "Answer" || len(d.Cast) != 1 || len(d.Similar) != 1 || d.Similar[0].ID != 142 {
		t.Errorf("MovieDetail() = %+v", d)
	}

	repo.failOn = "credits"
	if _, err := svc.MovieDetail(context.Background(), 42); err == nil {
		t.Error("MovieDetail() should fail when credits fail")
	}
}

func TestService_PersonDetailMergesCredits(t *testing.T) {
	repo := &fakeRepo{credits: domain.PersonMovieCredits{
		Cast: []domain.Movie{{ID: 1, VoteCount: 10}, {ID: 2, VoteCount: 500}},
		Crew: []domain.Movie{{ID: 1, VoteCount: 10}, {ID: 3, VoteCount: 50}},
	}}
	svc := NewService(repo, logging.NullLogger())

	d, err := svc.PersonDetail(context.Background(), 7)
	if err != nil {
		t.Fatalf("PersonDetail() error = %v", err)
	}
	want := []int64{2, 3, 1}
	if len(d.Credits) != len(want) {
		t.Fatalf("Credits = %+v", d.Credits)
	}
	for i, id := range want {
		if d.Credits[i].ID != id {
			t.Errorf("Credits[%d].ID = %d, want %d", i, d.Credits[i].ID, id)
		}
	}
}

func TestService_SearchEmptyQuery(t *testing.T) {
	svc := NewService(&fakeRepo{failOn: "search"}, logging.NullLogger())
	got, err := svc.Search(context.Background(), "")
	if err != nil || got != nil {
		t.Errorf("Search(\"\") = %v, %v; want nil, nil", got, err)
	}
}
