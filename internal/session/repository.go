package session

import (
	"encoding/json"
	"fmt"

	"github.com/mmcdole/cinescope/internal/domain"
)

// KeySession is the storage key for the persisted session record
const KeySession = "session"

// Repository persists the session record in durable storage.
type Repository struct {
	kv  domain.KVStore
	key string
}

// NewRepository creates a session repository. namespace prefixes the key.
func NewRepository(kv domain.KVStore, namespace string) *Repository {
	return &Repository{kv: kv, key: namespace + KeySession}
}

// Key returns the storage key in use
func (r *Repository) Key() string { return r.key }

// Load returns the persisted session. ok is false when nothing is stored.
// A record that does not decode or violates the session invariant is a
// *domain.StorageError.
func (r *Repository) Load() (s domain.Session, ok bool, err error) {
	raw, found, err := r.kv.Get(r.key)
	if err != nil || !found {
		return domain.Session{}, false, err
	}

	var rec domain.Session
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return domain.Session{}, false, &domain.StorageError{Op: "decode", Key: r.key, Err: err}
	}
	if !rec.Valid() || !rec.IsAuthenticated {
		return domain.Session{}, false, &domain.StorageError{
			Op:  "decode",
			Key: r.key,
			Err: fmt.Errorf("malformed session record"),
		}
	}
	return rec, true, nil
}

// Save writes the session record
func (r *Repository) Save(s domain.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return &domain.StorageError{Op: "encode", Key: r.key, Err: err}
	}
	return r.kv.Set(r.key, string(data))
}

// Clear removes the session record
func (r *Repository) Clear() error {
	return r.kv.Remove(r.key)
}
