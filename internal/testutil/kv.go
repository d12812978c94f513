package testutil

import (
	"errors"
	"sync"

	"github.com/mmcdole/cinescope/internal/domain"
)

// ErrInjected is returned by MemKV operations that are set to fail
var ErrInjected = errors.New("injected storage failure")

// MemKV is an in-memory domain.KVStore with switchable failures
type MemKV struct {
	mu   sync.Mutex
	data map[string]string

	FailGet    bool
	FailSet    bool
	FailRemove bool
}

// NewMemKV creates an empty MemKV
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailGet {
		return "", false, &domain.StorageError{Op: "get", Key: key, Err: ErrInjected}
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet {
		return &domain.StorageError{Op: "set", Key: key, Err: ErrInjected}
	}
	m.data[key] = value
	return nil
}

func (m *MemKV) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailRemove {
		return &domain.StorageError{Op: "remove", Key: key, Err: ErrInjected}
	}
	delete(m.data, key)
	return nil
}

func (m *MemKV) Close() error { return nil }

// Has reports whether key is stored
func (m *MemKV) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

// Raw returns the stored value for key, or ""
func (m *MemKV) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

// Put stores a value directly, bypassing failure injection
func (m *MemKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}
