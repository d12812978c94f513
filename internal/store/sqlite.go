package store

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/cinescope/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements domain.KVStore on a single sqlite table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a sqlite database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &domain.StorageError{Op: "open", Err: fmt.Errorf("empty db path")}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	u := &url.URL{Scheme: "file", Path: abs}
	q := url.Values{}
	// Avoid transient SQLITE_BUSY failures when another process has it open.
	q.Add("_pragma", "busy_timeout(2000)")
	u.RawQuery = q.Encode()

	db, err := sql.Open("sqlite", u.String())
	if err != nil {
		return nil, &domain.StorageError{Op: "open", Err: err}
	}
	// Reads and writes are synchronous and small; one connection is enough.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, &domain.StorageError{Op: "open", Err: err}
	}

	return &SQLiteStore{db: db, path: abs}, nil
}

func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return &domain.StorageError{Op: "set", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &domain.StorageError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
