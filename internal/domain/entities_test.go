package domain

import (
	"errors"
	"testing"
)

func TestMovie_Year(t *testing.T) {
	tests := []struct {
		date string
		want int
	}{
		{"2010-07-16", 2010},
		{"1999", 1999},
		{"", 0},
		{"19", 0},
		{"abcd-01-01", 0},
	}
	for _, tt := range tests {
		if got := (Movie{ReleaseDate: tt.date}).Year(); got != tt.want {
			t.Errorf("Year(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestMovie_FormattedRuntime(t *testing.T) {
	tests := []struct {
		runtime int
		want    string
	}{
		{0, ""},
		{45, "45m"},
		{148, "2h 28m"},
	}
	for _, tt := range tests {
		if got := (Movie{Runtime: tt.runtime}).FormattedRuntime(); got != tt.want {
			t.Errorf("FormattedRuntime(%d) = %q, want %q", tt.runtime, got, tt.want)
		}
	}
}

func TestReview_Validate(t *testing.T) {
	tests := []struct {
		name    string
		review  Review
		wantErr bool
	}{
		{"valid", Review{Rating: 4, Content: "Great"}, false},
		{"rating too low", Review{Rating: 0, Content: "Meh"}, true},
		{"rating too high", Review{Rating: 6, Content: "Wow"}, true},
		{"blank content", Review{Rating: 3, Content: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.review.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidReview) {
				t.Errorf("Validate() error = %v, want ErrInvalidReview", err)
			}
		})
	}
}

func TestReview_Stars(t *testing.T) {
	if got := (Review{Rating: 3}).Stars(); got != "★★★☆☆" {
		t.Errorf("Stars() = %q", got)
	}
	if got := (Review{Rating: 9}).Stars(); got != "★★★★★" {
		t.Errorf("Stars() clamps high ratings, got %q", got)
	}
}

func TestSession_Valid(t *testing.T) {
	tests := []struct {
		name string
		s    Session
		want bool
	}{
		{"anonymous", Anonymous(), true},
		{"authenticated", Authenticated("alice"), true},
		{"authenticated without user", Session{IsAuthenticated: true}, false},
		{"authenticated with empty name", Session{IsAuthenticated: true, User: &User{}}, false},
		{"anonymous with user", Session{User: &User{Name: "bob"}}, false},
	}
	for _, tt := range tests {
		if got := tt.s.Valid(); got != tt.want {
			t.Errorf("%s: Valid() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAuthError_Unwrap(t *testing.T) {
	err := error(&AuthError{Username: "alice", Err: ErrAuthFailed})
	if !errors.Is(err, ErrAuthFailed) {
		t.Error("AuthError should unwrap to ErrAuthFailed")
	}
	if !IsAuthError(err) {
		t.Error("IsAuthError() = false")
	}
	if IsStorageError(err) {
		t.Error("IsStorageError() = true for AuthError")
	}
}
