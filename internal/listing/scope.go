// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package listing

import (
	"context"
	"errors"
)

// ErrNoStore is returned when a listing store is requested from a context
// that was never given one.
var ErrNoStore = errors.New("listing: no store in scope")

type ctxKey struct{}

func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoStore
	}
	return s, nil
}

// MustFromContext is FromContext that panics with ErrNoStore.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
