package watchlist

import (
	"log/slog"
	"sync"

	"github.com/mmcdole/cinescope/internal/domain"
)

// Store holds the authenticated user's watchlist.
//
// Two states: anonymous (always empty) and authenticated (loaded from the
// repository). Entries are unique by movie ID and ordered newest first.
// Every effective mutation is saved; save failures are logged, never
// returned, and do not roll back memory. The persisted list belongs to one
// user; a login as someone else starts from an empty list.
type Store struct {
	repo   *Repository
	logger *slog.Logger

	mu            sync.RWMutex
	authenticated bool
	owner         string // User the list belongs to; "" until a session is seen
	items         []domain.Movie
}

// NewStore creates an anonymous, empty watchlist
func NewStore(repo *Repository, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{repo: repo, logger: logger}
}

// OnSessionChange implements domain.SessionObserver. A login that replaces
// another user's session without a logout in between erases the previous
// user's list instead of loading it.
func (s *Store) OnSessionChange(sess domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := sess.UserName()
	switched := sess.IsAuthenticated && s.owner != "" && s.owner != name
	s.owner = name

	if switched {
		s.logger.Info("user changed, starting a new watchlist", "user", name)
		s.authenticated = true
		s.items = nil
		s.erase()
		return
	}
	s.restore(sess.IsAuthenticated)
}

// Restore follows a change of authentication. Authenticated loads the
// persisted list; anonymous clears memory and erases the persisted list.
func (s *Store) Restore(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore(authenticated)
}

// restore implements Restore. Caller holds s.mu.
func (s *Store) restore(authenticated bool) {
	s.authenticated = authenticated
	if !authenticated {
		s.owner = ""
		s.items = nil
		s.erase()
		return
	}

	items, err := s.repo.Load()
	if err != nil {
		s.logger.Warn("discarding persisted watchlist", "error", err)
		items = nil
	}
	s.items = dedupe(items)
	s.logger.Debug("restored watchlist", "count", len(s.items))
}

// Add prepends item unless an entry with the same ID exists.
// Returns true if the list changed.
func (s *Store) Add(item domain.Movie) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.authenticated || s.indexOf(item.ID) >= 0 {
		return false
	}

	items := make([]domain.Movie, 0, len(s.items)+1)
	items = append(items, item)
	items = append(items, s.items...)
	s.items = items

	s.persist()
	s.logger.Debug("added to watchlist", "movieID", item.ID, "title", item.Title)
	return true
}

// Remove drops the entry with the given ID. Returns true if the list changed.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}

	items := make([]domain.Movie, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	s.items = items

	s.persist()
	s.logger.Debug("removed from watchlist", "movieID", id)
	return true
}

// Toggle adds item if absent, removes it if present.
// Returns whether the item is in the list afterwards.
func (s *Store) Toggle(item domain.Movie) bool {
	if s.Remove(item.ID) {
		return false
	}
	return s.Add(item)
}

// Contains reports whether an entry with id is in the list
func (s *Store) Contains(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(id) >= 0
}

// Items returns a copy of the list, newest first
func (s *Store) Items() []domain.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Movie, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of entries
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// persist saves the list. Caller holds s.mu.
func (s *Store) persist() {
	if !s.authenticated {
		return
	}
	if err := s.repo.Save(s.items); err != nil {
		s.logger.Error("failed to save watchlist", "error", err, "key", s.repo.Key(), "count", len(s.items))
	}
}

// erase removes the persisted list. Caller holds s.mu.
func (s *Store) erase() {
	if err := s.repo.Clear(); err != nil {
		s.logger.Error("failed to erase persisted watchlist", "error", err, "key", s.repo.Key())
	}
}

// indexOf returns the position of id, or -1. Caller holds s.mu.
func (s *Store) indexOf(id int64) int {
	for i, m := range s.items {
		if m.ID == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first occurrence of each ID
func dedupe(items []domain.Movie) []domain.Movie {
	seen := make(map[int64]bool, len(items))
	out := make([]domain.Movie, 0, len(items))
	for _, m := range items {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		out = append(out, m)
	}
	return out
}
