// Package store is the client's persistent key-value storage, the moral
// equivalent of browser localStorage. Everything kept here is advisory: any
// backend may be wiped at any time without corrupting server state.
package store

import (
	"context"
	"errors"
)

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("store: key not found")

// Well-known keys shared across the app.
const (
	KeyToken    = "token"
	KeyUsername = "username"
	KeyCart     = "cart"
	KeyProducts = "products"
)
