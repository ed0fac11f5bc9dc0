// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// entry is one row of client_storage.
type entry struct {
	bun.BaseModel `bun:"table:client_storage"`

	Key       string    `bun:"storage_key,pk,type:varchar(191)"`
	Value     string    `bun:"storage_value,notnull,type:text"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// BunStorage keeps entries in a client_storage table on sqlite, postgres or mysql.
type BunStorage struct {
	db     *bun.DB
	dbType string
}

// NewBunStorage opens dsn with the driver for dbType and creates the table
// when it is missing.
func NewBunStorage(ctx context.Context, dbType, dsn string) (*BunStorage, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == TypePostgres {
		driverName = "pgx"
	}
	if dbType == TypeSQLite && dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create storage directory: %w", err)
			}
		}
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	configurePool(sqlDB, dbType, dsn)

	s := &BunStorage{db: createBunDB(sqlDB, dbType), dbType: dbType}
	if _, err := s.db.NewCreateTable().Model((*entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to create client_storage table: %w", err)
	}
	logging.Debugf("storage: opened %s in %s", driverName, time.Since(start))
	return s, nil
}

// configurePool applies small pool limits. TRUSTDESK_DB_MAX_OPEN_CONNS
// overrides the open connection limit.
func configurePool(sqlDB *sql.DB, dbType, dsn string) {
	maxOpen := 4
	if v := os.Getenv("TRUSTDESK_DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			maxOpen = n
		}
	}
	// An in-memory sqlite database exists per connection; keep exactly one.
	if dbType == TypeSQLite && dsn == ":memory:" {
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxOpen)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case TypePostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case TypeMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

func (s *BunStorage) Get(ctx context.Context, key string) (string, error) {
	var e entry
	err := s.db.NewSelect().Model(&e).Where("storage_key = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("storage get %q: %w", key, err)
	}
	return e.Value, nil
}

func (s *BunStorage) Set(ctx context.Context, key, value string) error {
	e := &entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	q := s.db.NewInsert().Model(e)
	if s.dbType == TypeMySQL {
		q = q.On("DUPLICATE KEY UPDATE").
			Set("storage_value = VALUES(storage_value)").
			Set("updated_at = VALUES(updated_at)")
	} else {
		q = q.On("CONFLICT (storage_key) DO UPDATE").
			Set("storage_value = EXCLUDED.storage_value").
			Set("updated_at = EXCLUDED.updated_at")
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("storage set %q: %w", key, err)
	}
	return nil
}

func (s *BunStorage) Remove(ctx context.Context, key string) error {
	if _, err := s.db.NewDelete().Model((*entry)(nil)).Where("storage_key = ?", key).Exec(ctx); err != nil {
		return fmt.Errorf("storage remove %q: %w", key, err)
	}
	return nil
}

func (s *BunStorage) Close() error { return s.db.Close() }
