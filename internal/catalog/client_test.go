package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/cinescope/internal/domain"
	"github.com/mmcdole/cinescope/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL, "test-key", 5*time.Second, logging.NullLogger())
	c.retryDelay = time.Millisecond
	return c
}

func TestClient_Popular(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/popular" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("api_key") != "test-key" {
			t.Errorf("api_key = %q", q.Get("api_key"))
		}
		if q.Get("language") != "en-US" {
			t.Errorf("language = %q", q.Get("language"))
		}
		if q.Get("page") != "2" {
			t.Errorf("page = %q", q.Get("page"))
		}
		fmt.Fprint(w, `{"page":2,"total_pages":5,"total_results":100,"results":[{"id":550,"title":"Fight Club","release_date":"1999-10-15","vote_average":8.4,"vote_count":26000}]}`)
	})

	page, err := c.Popular(context.Background(), 2)
	if err != nil {
		t.Fatalf("Popular() error = %v", err)
	}
	if page.Page != 2 || page.TotalPages != 5 || len(page.Results) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if m := page.Results[0]; m.ID != 550 || m.Title != "Fight Club" || m.Year() != 1999 {
		t.Errorf("unexpected movie: %+v", m)
	}
}

func TestClient_SetLanguage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("language"); got != "ar-SA" {
			t.Errorf("language = %q, want ar-SA", got)
		}
		fmt.Fprint(w, `{"genres":[{"id":28,"name":"Action"}]}`)
	})
	c.SetLanguage("ar-SA")

	genres, err := c.Genres(context.Background())
	if err != nil {
		t.Fatalf("Genres() error = %v", err)
	}
	if len(genres) != 1 || genres[0].Name != "Action" {
		t.Errorf("Genres() = %+v", genres)
	}
}

func TestClient_Discover(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/discover/movie" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if q.Get("with_genres") != "28" || q.Get("sort_by") != "vote_average.desc" ||
			q.Get("primary_release_year") != "2019" || q.Get("vote_count.gte") != "100" {
			t.Errorf("unexpected query: %v", q)
		}
		fmt.Fprint(w, `{"page":1,"results":[]}`)
	})

	_, err := c.Discover(context.Background(), domain.DiscoverFilters{
		GenreID:  28,
		Year:     2019,
		SortBy:   "vote_average.desc",
		MinVotes: 100,
	})
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
}

func TestClient_DiscoverDefaultSort(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sort_by") != "popularity.desc" {
			t.Errorf("sort_by = %q", q.Get("sort_by"))
		}
		if q.Has("with_genres") {
			t.Error("with_genres sent for zero genre")
		}
		fmt.Fprint(w, `{"page":1,"results":[]}`)
	})
	if _, err := c.Discover(context.Background(), domain.DiscoverFilters{}); err != nil {
		t.Fatal(err)
	}
}

func TestClient_Search(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("query") != "the matrix" {
			t.Errorf("query = %q", r.URL.Query().Get("query"))
		}
		fmt.Fprint(w, `{"page":1,"results":[{"id":603,"title":"The Matrix"}]}`)
	})
	page, err := c.Search(context.Background(), "the matrix", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Results) != 1 || page.Results[0].ID != 603 {
		t.Errorf("Search() = %+v", page.Results)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"id":27205,"title":"Inception","runtime":148}`)
	})

	m, err := c.Movie(context.Background(), 27205)
	if err != nil {
		t.Fatalf("Movie() error = %v", err)
	}
	if m.Title != "Inception" || m.FormattedRuntime() != "2h 28m" {
		t.Errorf("Movie() = %+v", m)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestClient_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	if _, err := c.Movie(context.Background(), 1); err == nil {
		t.Fatal("Movie() succeeded against failing server")
	}
	if got := calls.Load(); got != maxRetries+1 {
		t.Errorf("server called %d times, want %d", got, maxRetries+1)
	}
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrAuthFailed},
		{"not found", http.StatusNotFound, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"status_message":"nope"}`)
			})
			_, err := c.Person(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("Person() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestClient_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, "k", time.Second, logging.NullLogger())
	_, err := c.Popular(context.Background(), 1)
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Errorf("Popular() error = %v, want ErrServerOffline", err)
	}
}

func TestClient_CanceledContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Upcoming(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Upcoming() error = %v, want context.Canceled", err)
	}
}

func TestClient_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":`)
	})
	if _, err := c.TopRated(context.Background(), 1); err == nil {
		t.Error("TopRated() should fail on malformed JSON")
	}
}
