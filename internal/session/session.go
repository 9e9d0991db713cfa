// Package session owns the persisted auth credentials. It is the single
// read/write point for the token: the api client reads it per request, the
// auth gate writes it on login, and the 401 hook clears it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Thamsanqa-bit/penden-storefront/internal/store"
)

type Session struct {
	store store.Store
}

func New(st store.Store) *Session {
	return &Session{store: st}
}

// Token returns the stored bearer token, empty when logged out.
func (s *Session) Token(ctx context.Context) string {
	token, err := s.store.Get(ctx, store.KeyToken)
	if err != nil {
		return ""
	}
	return token
}

// Username returns the stored username, empty when logged out.
func (s *Session) Username(ctx context.Context) string {
	name, err := s.store.Get(ctx, store.KeyUsername)
	if err != nil {
		return ""
	}
	return name
}

// IsLoggedIn reports whether a token is present. Token validity is only ever
// learned from the next 401; there is no refresh logic.
func (s *Session) IsLoggedIn(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetCredentials stores the token and username issued by the auth API.
func (s *Session) SetCredentials(ctx context.Context, token, username string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := s.store.Set(ctx, store.KeyToken, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := s.store.Set(ctx, store.KeyUsername, username); err != nil {
		return fmt.Errorf("store username: %w", err)
	}
	return nil
}

// Clear removes the stored credentials. Called on logout and on any 401.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, store.KeyToken); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := s.store.Delete(ctx, store.KeyUsername); err != nil {
		return fmt.Errorf("clear username: %w", err)
	}
	return nil
}
