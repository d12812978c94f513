package reviews

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/cinescope/internal/domain"
)

const (
	defaultTimeout = 15 * time.Second
)

var (
	_ domain.Authenticator     = (*Client)(nil)
	_ domain.ReviewRepository  = (*Client)(nil)
	_ domain.AccountRepository = (*Client)(nil)
)

// Client talks to the companion accounts and reviews API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new companion API client
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// credentials is the body of /register and /login
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the subset of the /login reply we read
type loginResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// apiError carries the server's status and message
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Register creates an account
func (c *Client) Register(ctx context.Context, username, password string) error {
	_, err := c.do(ctx, http.MethodPost, "/register", credentials{Username: username, Password: password})
	if err != nil {
		c.logger.Error("registration failed", "error", err, "username", username)
		return err
	}
	c.logger.Info("registered account", "username", username)
	return nil
}

// Login verifies credentials and returns the authenticated identity.
// Failures are *domain.AuthError.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/login", credentials{Username: username, Password: password})
	if err != nil {
		return nil, toAuthError(username, err)
	}

	var resp loginResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &resp); err != nil {
			c.logger.Warn("unparseable login response", "error", err)
		}
	}

	name := resp.Username
	if name == "" {
		name = username
	}
	return &domain.User{Name: name}, nil
}

// Reviews returns the reviews posted for a movie
func (c *Client) Reviews(ctx context.Context, movieID int64) ([]domain.Review, error) {
	body, err := c.do(ctx, http.MethodGet, reviewsPath(movieID), nil)
	if err != nil {
		return nil, err
	}

	var reviews []domain.Review
	if err := json.Unmarshal(body, &reviews); err != nil {
		return nil, fmt.Errorf("failed to parse reviews: %w", err)
	}
	return reviews, nil
}

// PostReview submits a review and returns the stored copy
func (c *Client) PostReview(ctx context.Context, movieID int64, r domain.Review) (*domain.Review, error) {
	payload := struct {
		Username string `json:"username"`
		Rating   int    `json:"rating"`
		Content  string `json:"content"`
	}{r.Username, r.Rating, r.Content}

	body, err := c.do(ctx, http.MethodPost, reviewsPath(movieID), payload)
	if err != nil {
		return nil, err
	}

	var stored domain.Review
	if err := json.Unmarshal(body, &stored); err != nil {
		return nil, fmt.Errorf("failed to parse review: %w", err)
	}
	if stored.MovieID == 0 {
		stored.MovieID = movieID
	}
	return &stored, nil
}

func reviewsPath(movieID int64) string {
	return fmt.Sprintf("/movie/%d/reviews", movieID)
}

// do sends a JSON request and returns the response body.
// Non-2xx replies become *apiError using the JSON message when present.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Error("api request failed", "error", err, "path", path)
		return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(body)
		c.logger.Debug("api error", "status", resp.StatusCode, "path", path, "message", msg)
		return nil, &apiError{Status: resp.StatusCode, Message: msg}
	}
	return body, nil
}

// errorMessage extracts {"message": ...} from an error body
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return "An error occurred with the API request."
}

// toAuthError classifies a login failure
func toAuthError(username string, err error) error {
	var ae *apiError
	switch {
	case errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500:
		return &domain.AuthError{Username: username, Message: ae.Message, Err: domain.ErrAuthFailed}
	case errors.As(err, &ae):
		return &domain.AuthError{Username: username, Message: ae.Message, Err: err}
	default:
		return &domain.AuthError{Username: username, Err: err}
	}
}
