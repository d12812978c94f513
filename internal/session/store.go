package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/mmcdole/cinescope/internal/domain"
)

// Store tracks who, if anyone, is authenticated.
//
// State lives in memory; the repository is the source of truth across
// restarts. Observers are notified after every authentication change,
// which is how the watchlist follows the session.
type Store struct {
	auth   domain.Authenticator
	repo   *Repository
	logger *slog.Logger

	// writeMu orders persist+set pairs so the stored record always
	// matches the in-memory session
	writeMu sync.Mutex

	mu        sync.RWMutex
	session   domain.Session
	observers []domain.SessionObserver
}

// NewStore creates an anonymous session store
func NewStore(auth domain.Authenticator, repo *Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{auth: auth, repo: repo, logger: logger}
}

// Subscribe registers an observer for authentication changes
func (s *Store) Subscribe(obs domain.SessionObserver) {
	s.mu.Lock()
	s.observers = append(s.observers, obs)
	s.mu.Unlock()
}

// Session returns a snapshot of the current session
func (s *Store) Session() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// IsAuthenticated reports whether a user is logged in
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

// Restore loads the persisted session. A missing or malformed record
// leaves the store anonymous. Never fails.
func (s *Store) Restore() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	rec, ok, err := s.repo.Load()
	if err != nil {
		s.logger.Warn("discarding persisted session", "error", err)
	}
	if !ok {
		rec = domain.Anonymous()
	}

	s.set(rec)
	if rec.IsAuthenticated {
		s.logger.Info("restored session", "user", rec.UserName())
	} else {
		s.logger.Debug("no persisted session")
	}
}

// Login verifies credentials and, on success, records the user and
// persists the session. On failure the state is unchanged and an
// *domain.AuthError is returned. Concurrent logins are not deduplicated;
// the last to resolve wins.
func (s *Store) Login(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return &domain.AuthError{
			Username: username,
			Message:  "username and password are required",
			Err:      domain.ErrAuthFailed,
		}
	}

	user, err := s.auth.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", "user", username, "error", err)
		if !domain.IsAuthError(err) {
			err = &domain.AuthError{Username: username, Err: err}
		}
		return err
	}

	name := username
	if user != nil && user.Name != "" {
		name = user.Name
	}
	rec := domain.Authenticated(name)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	// Persistence is best-effort; the login itself succeeded.
	if err := s.repo.Save(rec); err != nil {
		s.logger.Error("failed to persist session", "error", err, "key", s.repo.Key())
	}

	s.set(rec)
	s.logger.Info("logged in", "user", name)
	return nil
}

// Logout clears the session and its persisted record. Always succeeds.
func (s *Store) Logout() {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Clear(); err != nil {
		s.logger.Error("failed to remove persisted session", "error", err, "key", s.repo.Key())
	}
	prev := s.Session()
	s.set(domain.Anonymous())
	if prev.IsAuthenticated {
		s.logger.Info("logged out", "user", prev.UserName())
	}
}

// set replaces the in-memory session and notifies observers
func (s *Store) set(rec domain.Session) {
	s.mu.Lock()
	s.session = rec
	observers := make([]domain.SessionObserver, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	snapshot := copySession(rec)
	for _, obs := range observers {
		obs.OnSessionChange(snapshot)
	}
}

func copySession(rec domain.Session) domain.Session {
	if rec.User == nil {
		return rec
	}
	u := *rec.User
	rec.User = &u
	return rec
}
