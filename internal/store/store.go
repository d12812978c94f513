package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mmcdole/cinescope/internal/config"
	"github.com/mmcdole/cinescope/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketKV = []byte("kv")
)

// BoltStore implements domain.KVStore using BoltDB.
type BoltStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string]string
	// gen counts writes; a disk read is promoted only if no write happened since
	gen uint64
}

// Open creates the store selected by cfg.Driver.
// An empty path gives a memory-only store.
func Open(cfg config.StorageConfig) (domain.KVStore, error) {
	if cfg.Path == "" {
		return NewBoltStore("")
	}
	switch cfg.Driver {
	case config.StorageDriverSQLite:
		return NewSQLiteStore(cfg.Path)
	case config.StorageDriverBolt, "":
		return NewBoltStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

// NewBoltStore opens (or creates) a bolt database at path.
// An empty path gives a memory-only store with no persistence.
func NewBoltStore(path string) (*BoltStore, error) {
	if path == "" {
		return &BoltStore{cache: make(map[string]string)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("failed to open bolt db: %w", err)}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		db.Close()
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	return &BoltStore{db: db, cache: make(map[string]string)}, nil
}

func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *BoltStore) Get(key string) (string, bool, error) {
	// Check memory cache first
	s.mu.RLock()
	if v, ok := s.cache[key]; ok {
		s.mu.RUnlock()
		return v, true, nil
	}
	gen := s.gen
	s.mu.RUnlock()

	if s.db == nil {
		return "", false, nil
	}

	var (
		value string
		found bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketKV)
		if b == nil {
			return nil
		}
		// Values are only valid for the life of the transaction; string() copies
		if v := b.Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		return "", false, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	if !found {
		return "", false, nil
	}

	// Promote to memory cache unless a Set or Remove raced with the read
	s.mu.Lock()
	if s.gen == gen {
		s.cache[key] = value
	}
	s.mu.Unlock()

	return value, true, nil
}

func (s *BoltStore) Set(key, value string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucketKV).Put([]byte(key), []byte(value))
		})
		if err != nil {
			return &domain.StorageError{Op: "set", Key: key, Err: err}
		}
	}

	s.mu.Lock()
	s.gen++
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

func (s *BoltStore) Remove(key string) error {
	if s.db != nil {
		err := s.db.Update(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketKV)
			if b == nil {
				return nil
			}
			return b.Delete([]byte(key))
		})
		if err != nil {
			return &domain.StorageError{Op: "remove", Key: key, Err: err}
		}
	}

	// Clear from memory cache
	s.mu.Lock()
	s.gen++
	delete(s.cache, key)
	s.mu.Unlock()
	return nil
}
