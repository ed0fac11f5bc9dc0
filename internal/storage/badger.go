// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/toeirei/trustdesk/internal/logging"
)

// BadgerStorage keeps entries in an embedded badger directory.
type BadgerStorage struct {
	db *badger.DB
}

// NewBadgerStorage opens (or creates) the badger directory dir. An empty dir
// runs badger in memory.
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(badgerLogger{})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

func (b *BadgerStorage) Get(_ context.Context, key string) (string, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (b *BadgerStorage) Set(_ context.Context, key, value string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
}

func (b *BadgerStorage) Remove(_ context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerStorage) Close() error { return b.db.Close() }

// badgerLogger routes badger's own logging into the process logger. Info and
// debug chatter is demoted to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(f string, v ...interface{})   { logging.Errorf("badger: "+f, v...) }
func (badgerLogger) Warningf(f string, v ...interface{}) { logging.Warnf("badger: "+f, v...) }
func (badgerLogger) Infof(f string, v ...interface{})    { logging.Debugf("badger: "+f, v...) }
func (badgerLogger) Debugf(f string, v ...interface{})   { logging.Debugf("badger: "+f, v...) }
