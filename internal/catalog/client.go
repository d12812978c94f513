package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/cinescope/internal/domain"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultLanguage  = "en-US"
	maxRetries       = 3
	baseRetryDelay   = 500 * time.Millisecond
	maxErrorBodySize = 512
)

var _ domain.CatalogRepository = (*Client)(nil)

// Client implements domain.CatalogRepository for a TMDB-compatible API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration

	mu       sync.RWMutex
	language string
}

// NewClient creates a new catalog API client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
		language:   defaultLanguage,
	}
}

// SetLanguage sets the language parameter sent with every request
func (c *Client) SetLanguage(locale string) {
	if locale == "" {
		locale = defaultLanguage
	}
	c.mu.Lock()
	c.language = locale
	c.mu.Unlock()
}

func (c *Client) currentLanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.language
}

// doRequest performs a GET against the catalog API.
// Includes retry logic with exponential backoff for 5xx server errors
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.currentLanguage())
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Check context before each attempt
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "path", path)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("catalog request", "path", path, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("catalog request failed", "error", err, "path", path)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: catalog rejected the API key", domain.ErrAuthFailed)
		case resp.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		case resp.StatusCode >= 500 && resp.StatusCode < 600:
			// Retry on 5xx server errors
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, truncate(body))
			c.logger.Warn("catalog server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		case resp.StatusCode != http.StatusOK:
			c.logger.Error("catalog request error", "status", resp.StatusCode, "body", truncate(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("catalog request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// getJSON fetches path and decodes the body into a T
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	body, err := c.doRequest(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &out, nil
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func truncate(body []byte) string {
	if len(body) > maxErrorBodySize {
		return string(body[:maxErrorBodySize]) + "..."
	}
	return string(body)
}

// Popular returns one page of popular movies
func (c *Client) Popular(ctx context.Context, page int) (*domain.MoviePage, error) {
	return getJSON[domain.MoviePage](ctx, c, "/movie/popular", pageQuery(page))
}

// TopRated returns one page of top rated movies
func (c *Client) TopRated(ctx context.Context, page int) (*domain.MoviePage, error) {
	return getJSON[domain.MoviePage](ctx, c, "/movie/top_rated", pageQuery(page))
}

// Upcoming returns one page of upcoming movies
func (c *Client) Upcoming(ctx context.Context, page int) (*domain.MoviePage, error) {
	return getJSON[domain.MoviePage](ctx, c, "/movie/upcoming", pageQuery(page))
}

// Movie returns full detail for a movie
func (c *Client) Movie(ctx context.Context, id int64) (*domain.Movie, error) {
	return getJSON[domain.Movie](ctx, c, fmt.Sprintf("/movie/%d", id), nil)
}

// Credits returns the cast of a movie
func (c *Client) Credits(ctx context.Context, id int64) (*domain.Credits, error) {
	return getJSON[domain.Credits](ctx, c, fmt.Sprintf("/movie/%d/credits", id), nil)
}

// Similar returns movies similar to the given one
func (c *Client) Similar(ctx context.Context, id int64) (*domain.MoviePage, error) {
	return getJSON[domain.MoviePage](ctx, c, fmt.Sprintf("/movie/%d/similar", id), nil)
}

// Search performs a title search
func (c *Client) Search(ctx context.Context, query string, page int) (*domain.MoviePage, error) {
	q := pageQuery(page)
	q.Set("query", query)
	return getJSON[domain.MoviePage](ctx, c, "/search/movie", q)
}

// Person returns a cast or crew member
func (c *Client) Person(ctx context.Context, id int64) (*domain.Person, error) {
	return getJSON[domain.Person](ctx, c, fmt.Sprintf("/person/%d", id), nil)
}

// PersonMovieCredits returns the movies a person is credited on
func (c *Client) PersonMovieCredits(ctx context.Context, id int64) (*domain.PersonMovieCredits, error) {
	return getJSON[domain.PersonMovieCredits](ctx, c, fmt.Sprintf("/person/%d/movie_credits", id), nil)
}

// genreList is the /genre/movie/list response
type genreList struct {
	Genres []domain.Genre `json:"genres"`
}

// Genres returns all movie genres
func (c *Client) Genres(ctx context.Context) ([]domain.Genre, error) {
	resp, err := getJSON[genreList](ctx, c, "/genre/movie/list", nil)
	if err != nil {
		return nil, err
	}
	return resp.Genres, nil
}

// Discover returns movies matching the filters
func (c *Client) Discover(ctx context.Context, f domain.DiscoverFilters) (*domain.MoviePage, error) {
	q := pageQuery(f.Page)
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	q.Set("sort_by", sortBy)
	if f.GenreID > 0 {
		q.Set("with_genres", strconv.FormatInt(f.GenreID, 10))
	}
	if f.Year > 0 {
		q.Set("primary_release_year", strconv.Itoa(f.Year))
	}
	if f.MinVotes > 0 {
		q.Set("vote_count.gte", strconv.Itoa(f.MinVotes))
	}
	return getJSON[domain.MoviePage](ctx, c, "/discover/movie", q)
}
