package catalog

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mmcdole/cinescope/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Home holds the three curated listings shown on startup
type Home struct {
	Popular  []domain.Movie `json:"popular"`
	TopRated []domain.Movie `json:"top_rated"`
	Upcoming []domain.Movie `json:"upcoming"`
}

// MovieDetail is everything shown on a movie's detail view
type MovieDetail struct {
	Movie   domain.Movie
	Cast    []domain.Cast
	Similar []domain.Movie
}

// PersonDetail is everything shown on a person's detail view
type PersonDetail struct {
	Person  domain.Person
	Credits []domain.Movie // Cast and crew merged, unique, most voted first
}

// Service orchestrates catalog fetches
type Service struct {
	repo   domain.CatalogRepository
	cache  *HomeCache // Optional
	logger *slog.Logger
}

// NewService creates a new catalog service
func NewService(repo domain.CatalogRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// SetCache enables persisting home listings
func (s *Service) SetCache(c *HomeCache) {
	s.cache = c
}

// CachedHome returns the last stored home listings without touching the network
func (s *Service) CachedHome() (*Home, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get()
}

// Home fetches popular, top rated and upcoming movies in parallel.
// Any failure fails the whole call.
func (s *Service) Home(ctx context.Context) (*Home, error) {
	var home Home
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := s.repo.Popular(ctx, 1)
		if err != nil {
			return err
		}
		home.Popular = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := s.repo.TopRated(ctx, 1)
		if err != nil {
			return err
		}
		home.TopRated = page.Results
		return nil
	})
	g.Go(func() error {
		page, err := s.repo.Upcoming(ctx, 1)
		if err != nil {
			return err
		}
		home.Upcoming = page.Results
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch home listings", "error", err)
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Save(&home); err != nil {
			s.logger.Error("failed to cache home listings", "error", err)
		}
	}
	s.logger.Debug("fetched home listings",
		"popular", len(home.Popular),
		"topRated", len(home.TopRated),
		"upcoming", len(home.Upcoming),
	)
	return &home, nil
}

// MovieDetail fetches a movie with its cast and similar movies in parallel
func (s *Service) MovieDetail(ctx context.Context, id int64) (*MovieDetail, error) {
	var detail MovieDetail
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := s.repo.Movie(ctx, id)
		if err != nil {
			return err
		}
		detail.Movie = *m
		return nil
	})
	g.Go(func() error {
		credits, err := s.repo.Credits(ctx, id)
		if err != nil {
			return err
		}
		detail.Cast = credits.Cast
		return nil
	})
	g.Go(func() error {
		page, err := s.repo.Similar(ctx, id)
		if err != nil {
			return err
		}
		detail.Similar = page.Results
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch movie detail", "error", err, "movieID", id)
		return nil, err
	}
	return &detail, nil
}

// PersonDetail fetches a person and their movie credits in parallel
func (s *Service) PersonDetail(ctx context.Context, id int64) (*PersonDetail, error) {
	var (
		person  *domain.Person
		credits *domain.PersonMovieCredits
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		person, err = s.repo.Person(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		credits, err = s.repo.PersonMovieCredits(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to fetch person detail", "error", err, "personID", id)
		return nil, err
	}

	return &PersonDetail{
		Person:  *person,
		Credits: mergeCredits(credits.Cast, credits.Crew),
	}, nil
}

// Search returns the first page of title matches
func (s *Service) Search(ctx context.Context, query string) ([]domain.Movie, error) {
	if query == "" {
		return nil, nil
	}
	page, err := s.repo.Search(ctx, query, 1)
	if err != nil {
		s.logger.Error("search failed", "error", err, "query", query)
		return nil, err
	}
	s.logger.Debug("search complete", "query", query, "results", len(page.Results))
	return page.Results, nil
}

// Genres returns all genres
func (s *Service) Genres(ctx context.Context) ([]domain.Genre, error) {
	return s.repo.Genres(ctx)
}

// Discover returns movies matching the filters
func (s *Service) Discover(ctx context.Context, f domain.DiscoverFilters) ([]domain.Movie, error) {
	page, err := s.repo.Discover(ctx, f)
	if err != nil {
		s.logger.Error("discover failed", "error", err)
		return nil, err
	}
	return page.Results, nil
}

// mergeCredits combines cast and crew credits, keeps the first occurrence of
// each movie, and orders by vote count, highest first.
func mergeCredits(cast, crew []domain.Movie) []domain.Movie {
	seen := make(map[int64]bool, len(cast)+len(crew))
	merged := make([]domain.Movie, 0, len(cast)+len(crew))
	for _, list := range [][]domain.Movie{cast, crew} {
		for _, m := range list {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			merged = append(merged, m)
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].VoteCount > merged[j].VoteCount
	})
	return merged
}
