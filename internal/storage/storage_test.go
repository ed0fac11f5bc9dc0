// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/toeirei/trustdesk/internal/config"
)

// exercise runs the shared contract against one backend.
func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "token", "abc"))
	v, err := s.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	// overwrite
	require.NoError(t, s.Set(ctx, "token", "def"))
	v, err = s.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "def", v)

	require.NoError(t, s.Set(ctx, "wallet", `{"id":"w1"}`))
	require.NoError(t, s.Remove(ctx, "token"))
	_, err = s.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	// other keys untouched
	v, err = s.Get(ctx, "wallet")
	require.NoError(t, err)
	require.Equal(t, `{"id":"w1"}`, v)

	require.NoError(t, s.Remove(ctx, "never-set"))
}

func TestMemory(t *testing.T) {
	s := NewMemory()
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestSQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "client.db")
	s, err := Open(context.Background(), config.StorageConfig{Type: "sqlite", Dsn: dsn})
	require.NoError(t, err)
	exercise(t, s)
	require.NoError(t, s.Close())

	// Values survive a reopen and the table is not recreated.
	s, err = Open(context.Background(), config.StorageConfig{Type: "sqlite", Dsn: dsn})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	v, err := s.Get(context.Background(), "wallet")
	require.NoError(t, err)
	require.Equal(t, `{"id":"w1"}`, v)
}

func TestSQLiteInMemory(t *testing.T) {
	s, err := NewBunStorage(context.Background(), TypeSQLite, ":memory:")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestBadger(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), config.StorageConfig{Type: "Badger", Dsn: dir})
	require.NoError(t, err)
	exercise(t, s)
	require.NoError(t, s.Close())

	s, err = NewBadgerStorage(dir)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	v, err := s.Get(context.Background(), "wallet")
	require.NoError(t, err)
	require.Equal(t, `{"id":"w1"}`, v)
}

func TestBadgerInMemory(t *testing.T) {
	s, err := NewBadgerStorage("")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	exercise(t, s)
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(context.Background(), config.StorageConfig{Type: "redis"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported storage type")
}
