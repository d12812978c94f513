package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrServerOffline indicates a remote API is unreachable
	ErrServerOffline = errors.New("server is unreachable")

	// ErrAuthFailed indicates credentials were rejected
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNotAuthenticated indicates an operation needs a logged-in user
	ErrNotAuthenticated = errors.New("not logged in")

	// ErrNotFound indicates the requested catalog entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidReview indicates a review failed validation
	ErrInvalidReview = errors.New("invalid review")

	// ErrInvalidLanguage indicates an unsupported language code
	ErrInvalidLanguage = errors.New("unsupported language")
)

// AuthError reports a failed login. Err is ErrAuthFailed for rejected
// credentials or ErrServerOffline for transport failures.
type AuthError struct {
	Username string
	Message  string // Server-provided message, if any
	Err      error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("login %q: %s", e.Username, e.Message)
	}
	return fmt.Sprintf("login %q: %v", e.Username, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// StorageError reports a durable storage failure
type StorageError struct {
	Op  string // "get", "set", "remove", "decode", "open"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsAuthError reports whether err is an AuthError
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsStorageError reports whether err is a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
