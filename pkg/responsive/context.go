package responsive

import (
	"context"
	"errors"
)

// ErrNoProvider is raised when responsive state is read outside a tree
// that was given a store. It signals an integration mistake.
var ErrNoProvider = errors.New("responsive: no store in context (wrap the root with responsive.WithStore)")

type storeKey struct{}

// WithStore scopes s to ctx and everything derived from it.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// Lookup returns the store scoped to ctx.
func Lookup(ctx context.Context) (*Store, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	s, ok := ctx.Value(storeKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoProvider
	}
	return s, nil
}

// From returns the store scoped to ctx and panics with ErrNoProvider when
// there is none.
func From(ctx context.Context) *Store {
	s, err := Lookup(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
