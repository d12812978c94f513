package preferences

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/cinescope/internal/domain"
)

// KeyLanguage is the storage key for the language preference
const KeyLanguage = "language"

// Language is a supported UI language
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// DefaultLanguage is used when nothing valid is persisted
const DefaultLanguage = English

// ParseLanguage validates a language code
func ParseLanguage(code string) (Language, error) {
	switch Language(code) {
	case English, Arabic:
		return Language(code), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidLanguage, code)
	}
}

// RTL reports whether the language is written right to left
func (l Language) RTL() bool { return l == Arabic }

// Direction returns "rtl" or "ltr"
func (l Language) Direction() string {
	if l.RTL() {
		return "rtl"
	}
	return "ltr"
}

// Locale returns the catalog API language parameter
func (l Language) Locale() string {
	switch l {
	case Arabic:
		return "ar-SA"
	default:
		return "en-US"
	}
}

// Store holds the persisted language preference
type Store struct {
	kv     domain.KVStore
	key    string
	logger *slog.Logger

	mu   sync.RWMutex
	lang Language
}

// NewStore creates a store with the default language
func NewStore(kv domain.KVStore, namespace string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, key: namespace + KeyLanguage, logger: logger, lang: DefaultLanguage}
}

// Restore reads the persisted language; anything invalid falls back to English
func (s *Store) Restore() Language {
	lang := DefaultLanguage
	raw, ok, err := s.kv.Get(s.key)
	switch {
	case err != nil:
		s.logger.Warn("failed to read language preference", "error", err)
	case ok:
		if parsed, err := ParseLanguage(raw); err == nil {
			lang = parsed
		} else {
			s.logger.Warn("discarding persisted language", "value", raw)
		}
	}

	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()
	return lang
}

// Language returns the current language
func (s *Store) Language() Language {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lang
}

// SetLanguage validates and persists a new language. A storage failure is
// logged; the in-memory change still applies.
func (s *Store) SetLanguage(code string) (Language, error) {
	lang, err := ParseLanguage(code)
	if err != nil {
		return s.Language(), err
	}

	s.mu.Lock()
	s.lang = lang
	s.mu.Unlock()

	if err := s.kv.Set(s.key, string(lang)); err != nil {
		s.logger.Error("failed to save language preference", "error", err)
	}
	return lang, nil
}
