package reviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/cinescope/internal/domain"
)

// Sessions reports the current authentication state
type Sessions interface {
	Session() domain.Session
}

// Service lists reviews and posts them as the logged-in user
type Service struct {
	repo     domain.ReviewRepository
	sessions Sessions
	logger   *slog.Logger
}

// NewService creates a new review service
func NewService(repo domain.ReviewRepository, sessions Sessions, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sessions: sessions, logger: logger}
}

// Reviews returns the reviews for a movie
func (s *Service) Reviews(ctx context.Context, movieID int64) ([]domain.Review, error) {
	reviews, err := s.repo.Reviews(ctx, movieID)
	if err != nil {
		s.logger.Error("failed to fetch reviews", "error", err, "movieID", movieID)
		return nil, err
	}
	return reviews, nil
}

// Post submits a review authored by the current user.
// Returns domain.ErrNotAuthenticated when nobody is logged in.
func (s *Service) Post(ctx context.Context, movieID int64, rating int, content string) (*domain.Review, error) {
	sess := s.sessions.Session()
	if !sess.IsAuthenticated {
		return nil, domain.ErrNotAuthenticated
	}

	r := domain.Review{
		Username: sess.UserName(),
		Rating:   rating,
		Content:  strings.TrimSpace(content),
		MovieID:  movieID,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.repo.PostReview(ctx, movieID, r)
	if err != nil {
		s.logger.Error("failed to post review", "error", err, "movieID", movieID)
		return nil, fmt.Errorf("post review: %w", err)
	}
	s.logger.Info("posted review", "movieID", movieID, "rating", rating)
	return stored, nil
}
