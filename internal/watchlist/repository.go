package watchlist

import (
	"encoding/json"

	"github.com/mmcdole/cinescope/internal/domain"
)

// KeyWatchlist is the session-scoped storage key for the saved list
const KeyWatchlist = "watchlist"

// Repository persists the watchlist in durable storage.
type Repository struct {
	kv  domain.KVStore
	key string
}

// NewRepository creates a watchlist repository. namespace prefixes the key.
func NewRepository(kv domain.KVStore, namespace string) *Repository {
	return &Repository{kv: kv, key: namespace + KeyWatchlist}
}

// Key returns the storage key in use
func (r *Repository) Key() string { return r.key }

// Load returns the persisted list, newest first. Nothing stored is an
// empty list, not an error.
func (r *Repository) Load() ([]domain.Movie, error) {
	raw, ok, err := r.kv.Get(r.key)
	if err != nil || !ok {
		return nil, err
	}
	var items []domain.Movie
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, &domain.StorageError{Op: "decode", Key: r.key, Err: err}
	}
	return items, nil
}

// Save writes the full list
func (r *Repository) Save(items []domain.Movie) error {
	if items == nil {
		items = []domain.Movie{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: r.key, Err: err}
	}
	return r.kv.Set(r.key, string(data))
}

// Clear erases the persisted list
func (r *Repository) Clear() error {
	return r.kv.Remove(r.key)
}
