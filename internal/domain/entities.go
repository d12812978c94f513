package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Genre is a catalog genre
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog movie record, stored verbatim in the watchlist
type Movie struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	PosterPath   string  `json:"poster_path,omitempty"`
	BackdropPath string  `json:"backdrop_path,omitempty"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"` // YYYY-MM-DD, may be empty
	VoteAverage  float64 `json:"vote_average"` // 0-10 scale
	VoteCount    int     `json:"vote_count"`
	Genres       []Genre `json:"genres,omitempty"`
	GenreIDs     []int64 `json:"genre_ids,omitempty"`
	Runtime      int     `json:"runtime,omitempty"` // Minutes
}

// Year returns the release year, or 0 if unknown
func (m Movie) Year() int {
	if len(m.ReleaseDate) < 4 {
		return 0
	}
	y, err := strconv.Atoi(m.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return y
}

// FormattedRuntime returns the runtime in a human-readable format
func (m Movie) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// GenreNames returns the genre names joined with ", "
func (m Movie) GenreNames() string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return strings.Join(names, ", ")
}

// Description returns secondary info for list display
func (m Movie) Description() string {
	parts := make([]string, 0, 2)
	if y := m.Year(); y > 0 {
		parts = append(parts, fmt.Sprintf("%d", y))
	}
	if m.VoteCount > 0 {
		parts = append(parts, fmt.Sprintf("★ %.1f", m.VoteAverage))
	}
	return strings.Join(parts, "  ")
}

// MoviePage is one page of a paginated movie listing
type MoviePage struct {
	Results      []Movie `json:"results"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Cast is a credited performer
type Cast struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
}

// Credits lists the cast of a movie
type Credits struct {
	Cast []Cast `json:"cast"`
}

// Person is a cast or crew member
type Person struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Biography          string `json:"biography"`
	ProfilePath        string `json:"profile_path,omitempty"`
	Birthday           string `json:"birthday,omitempty"`
	PlaceOfBirth       string `json:"place_of_birth,omitempty"`
	KnownForDepartment string `json:"known_for_department"`
}

// PersonMovieCredits lists the movies a person appeared in or worked on
type PersonMovieCredits struct {
	Cast []Movie `json:"cast"`
	Crew []Movie `json:"crew"`
}

// Review is a user review stored by the companion API
type Review struct {
	ID        int64  `json:"id,omitempty"`
	Username  string `json:"username"`
	Rating    int    `json:"rating"` // 1-5 stars
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
	MovieID   int64  `json:"movie_id,omitempty"`
}

// Stars renders the rating as filled and empty stars
func (r Review) Stars() string {
	n := r.Rating
	if n < 0 {
		n = 0
	}
	if n > MaxRating {
		n = MaxRating
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", MaxRating-n)
}

// Rating bounds for reviews
const (
	MinRating = 1
	MaxRating = 5
)

// Validate checks the review can be posted
func (r Review) Validate() error {
	if r.Rating < MinRating || r.Rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidReview, MinRating, MaxRating)
	}
	if strings.TrimSpace(r.Content) == "" {
		return fmt.Errorf("%w: content is empty", ErrInvalidReview)
	}
	return nil
}

// User is an authenticated identity
type User struct {
	Name string `json:"name"`
}

// Session records whether a user is authenticated and who they are.
// User is non-nil iff IsAuthenticated is true.
type Session struct {
	IsAuthenticated bool  `json:"isAuthenticated"`
	User            *User `json:"user"`
}

// Anonymous returns the empty session
func Anonymous() Session {
	return Session{}
}

// Authenticated returns a session for the named user
func Authenticated(name string) Session {
	return Session{IsAuthenticated: true, User: &User{Name: name}}
}

// Valid reports whether the session satisfies its invariant
func (s Session) Valid() bool {
	if s.IsAuthenticated {
		return s.User != nil && s.User.Name != ""
	}
	return s.User == nil
}

// UserName returns the user name, or "" when anonymous
func (s Session) UserName() string {
	if s.User == nil {
		return ""
	}
	return s.User.Name
}
