package preferences

import (
	"errors"
	"testing"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/logging"
	"github.com/mmcdole/cinescope/internal/testutil"
)

func TestParseLanguage(t *testing.T) {
	for _, code := range []string{"en", "ar"} {
		if _, err := ParseLanguage(code); err != nil {
			t.Errorf("ParseLanguage(%q) error = %v", code, err)
		}
	}
	_, err := ParseLanguage("fr")
	if !errors.Is(err, domain.ErrInvalidLanguage) {
		t.Errorf("ParseLanguage(fr) error = %v, want ErrInvalidLanguage", err)
	}
}

func TestLanguage_Direction(t *testing.T) {
	if English.Direction() != "ltr" || Arabic.Direction() != "rtl" {
		t.Error("unexpected text direction")
	}
	if English.Locale() != "en-US" || Arabic.Locale() != "ar-SA" {
		t.Error("unexpected locale")
	}
}

func TestStore_Restore(t *testing.T) {
	tests := []struct {
		name   string
		stored string
		want   Language
	}{
		{"nothing stored", "", English},
		{"arabic", "ar", Arabic},
		{"invalid", "xx", English},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := testutil.NewMemKV()
			if tt.stored != "" {
				kv.Put(KeyLanguage, tt.stored)
			}
			s := NewStore(kv, "", logging.NullLogger())
			if got := s.Restore(); got != tt.want {
				t.Errorf("Restore() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStore_SetLanguage(t *testing.T) {
	kv := testutil.NewMemKV()
	s := NewStore(kv, "", logging.NullLogger())

	if _, err := s.SetLanguage("ar"); err != nil {
		t.Fatalf("SetLanguage() error = %v", err)
	}
	if kv.Raw(KeyLanguage) != "ar" {
		t.Errorf("persisted = %q, want ar", kv.Raw(KeyLanguage))
	}

	if _, err := s.SetLanguage("de"); err == nil {
		t.Error("SetLanguage(de) should fail")
	}
	if s.Language() != Arabic {
		t.Errorf("Language() = %q after rejected change, want ar", s.Language())
	}

	kv.FailSet = true
	if _, err := s.SetLanguage("en"); err != nil {
		t.Errorf("SetLanguage() with failing storage error = %v", err)
	}
	if s.Language() != English {
		t.Errorf("Language() = %q, want en", s.Language())
	}
}
