// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package storage is the persistent client storage used to remember a
// session across runs. It is a small string key/value contract with several
// backends: an in-process map, a SQL table through bun, and an embedded
// badger directory.
package storage // import "github.com/toeirei/trustdesk/internal/storage"

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/trustdesk/internal/config"
)

// ErrNotFound is returned by Get for a key that was never set or was removed.
var ErrNotFound = errors.New("storage: key not found")

// Storage is a persistent string key/value store.
type Storage interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	TypeMemory   = "memory"
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
	TypeBadger   = "badger"
)

// Open returns the backend selected by cfg.Type.
func Open(ctx context.Context, cfg config.StorageConfig) (Storage, error) {
	switch t := strings.ToLower(strings.TrimSpace(cfg.Type)); t {
	case TypeMemory:
		return NewMemory(), nil
	case TypeSQLite, TypePostgres, TypeMySQL:
		return NewBunStorage(ctx, t, cfg.Dsn)
	case TypeBadger:
		return NewBadgerStorage(cfg.Dsn)
	default:
		return nil, fmt.Errorf("unsupported storage type: '%s'", cfg.Type)
	}
}
