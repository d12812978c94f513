package testutil

import (
	"context"
	"sync"

	"github.com/mmcdole/cinescope/internal/domain"
)

// FakeAuth is a domain.Authenticator backed by a password map
type FakeAuth struct {
	mu        sync.Mutex
	Passwords map[string]string // username -> password
	Offline   bool              // Fail every call with ErrServerOffline
	Calls     int
}

// NewFakeAuth creates a FakeAuth accepting the given username/password pairs
func NewFakeAuth(pairs ...string) *FakeAuth {
	f := &FakeAuth{Passwords: make(map[string]string)}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Passwords[pairs[i]] = pairs[i+1]
	}
	return f
}

func (f *FakeAuth) Login(ctx context.Context, username, password string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++

	if err := ctx.Err(); err != nil {
		return nil, &domain.AuthError{Username: username, Err: err}
	}
	if f.Offline {
		return nil, &domain.AuthError{Username: username, Err: domain.ErrServerOffline}
	}
	if want, ok := f.Passwords[username]; !ok || want != password {
		return nil, &domain.AuthError{Username: username, Message: "Invalid credentials", Err: domain.ErrAuthFailed}
	}
	return &domain.User{Name: username}, nil
}
