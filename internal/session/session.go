// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package session owns authentication state: the session token, the wallet
// it belongs to, and their persisted copies in client storage. Login and
// logout move the user between the "/" and "/login" routes through a
// Navigator.
package session // import "github.com/toeirei/trustdesk/internal/session"

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/internal/storage"
)

// Storage keys.
const (
	TokenKey  = "token"
	WalletKey = "wallet"
)

// Routes navigated to after login and logout.
const (
	HomePath  = "/"
	LoginPath = "/login"
)

// ErrEmptyToken is returned by Login when no token is given.
var ErrEmptyToken = errors.New("session: empty token")

// Decoder extracts the wallet from a token.
type Decoder interface {
	Decode(raw string) (*model.Wallet, error)
}

// Navigator moves the user to a route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// State is a point-in-time copy of the session.
type State struct {
	Token      string
	Wallet     *model.Wallet
	IsLoggedIn bool
}

// Store holds the session. It is safe for concurrent use.
type Store struct {
	storage storage.Storage
	decoder Decoder
	nav     Navigator

	// opMu serialises Login and Logout including their storage writes.
	opMu sync.Mutex

	mu     sync.RWMutex
	token  string
	wallet *model.Wallet

	restoreOnce sync.Once

	lmu       sync.Mutex
	listeners map[int]func(State)
	nextID    int
}

// New returns an empty, logged out store. Call Restore once before use to
// pick up a remembered session.
func New(st storage.Storage, dec Decoder, nav Navigator) *Store {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Store{
		storage:   st,
		decoder:   dec,
		nav:       nav,
		listeners: make(map[int]func(State)),
	}
}

// Login installs newToken as the current session. newWallet may be nil, in
// which case the wallet is decoded from the token. With remember set both are
// written to storage, otherwise any stored copies are removed.
//
// Logging in again with the token already held does nothing.
func (s *Store) Login(ctx context.Context, newToken string, remember bool, newWallet *model.Wallet) error {
	if newToken == "" {
		return ErrEmptyToken
	}
	s.opMu.Lock()

	s.mu.RLock()
	held := s.token
	s.mu.RUnlock()
	if held == newToken {
		s.opMu.Unlock()
		return nil
	}

	var w model.Wallet
	if newWallet != nil {
		w = *newWallet
	} else {
		decoded, err := s.decoder.Decode(newToken)
		if err != nil {
			s.opMu.Unlock()
			return fmt.Errorf("could not decode session token: %w", err)
		}
		w = *decoded
	}

	if err := s.persist(ctx, newToken, &w, remember); err != nil {
		s.opMu.Unlock()
		return err
	}

	s.mu.Lock()
	s.token = newToken
	s.wallet = &w
	s.mu.Unlock()
	s.opMu.Unlock()

	logging.Infof("session: logged in as %s (remember=%t)", w.Name, remember)
	s.notify()
	s.nav.Navigate(HomePath)
	return nil
}

func (s *Store) persist(ctx context.Context, tok string, w *model.Wallet, remember bool) error {
	if !remember {
		if err := s.storage.Remove(ctx, TokenKey); err != nil {
			return fmt.Errorf("could not clear stored token: %w", err)
		}
		if err := s.storage.Remove(ctx, WalletKey); err != nil {
			return fmt.Errorf("could not clear stored wallet: %w", err)
		}
		return nil
	}
	b, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("could not encode wallet: %w", err)
	}
	if err := s.storage.Set(ctx, TokenKey, tok); err != nil {
		return fmt.Errorf("could not store token: %w", err)
	}
	if err := s.storage.Set(ctx, WalletKey, string(b)); err != nil {
		// A token without its wallet would be ignored by Restore anyway.
		if rerr := s.storage.Remove(ctx, TokenKey); rerr != nil {
			logging.Warnf("session: could not roll back stored token: %v", rerr)
		}
		return fmt.Errorf("could not store wallet: %w", err)
	}
	return nil
}

// Logout clears the session and its stored copies, then navigates to the
// login route. Storage failures are logged.
func (s *Store) Logout(ctx context.Context) {
	s.opMu.Lock()
	s.mu.Lock()
	s.token = ""
	s.wallet = nil
	s.mu.Unlock()

	if err := s.storage.Remove(ctx, TokenKey); err != nil {
		logging.Warnf("session: could not remove stored token: %v", err)
	}
	if err := s.storage.Remove(ctx, WalletKey); err != nil {
		logging.Warnf("session: could not remove stored wallet: %v", err)
	}
	s.opMu.Unlock()

	logging.Infof("session: logged out")
	s.notify()
	s.nav.Navigate(LoginPath)
}

// Restore rehydrates a remembered session. Only the first call does any
// work; later calls return nil.
func (s *Store) Restore(ctx context.Context) error {
	var err error
	s.restoreOnce.Do(func() { err = s.restore(ctx) })
	return err
}

func (s *Store) restore(ctx context.Context) error {
	if s.IsLoggedIn() {
		return nil
	}
	tok, err := s.storage.Get(ctx, TokenKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read stored token: %w", err)
	}
	raw, err := s.storage.Get(ctx, WalletKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read stored wallet: %w", err)
	}
	if tok == "" {
		return nil
	}

	var w model.Wallet
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		logging.Warnf("session: stored wallet is corrupt, discarding: %v", err)
		if rerr := s.storage.Remove(ctx, TokenKey); rerr != nil {
			logging.Warnf("session: could not remove stored token: %v", rerr)
		}
		if rerr := s.storage.Remove(ctx, WalletKey); rerr != nil {
			logging.Warnf("session: could not remove stored wallet: %v", rerr)
		}
		return nil
	}
	logging.Debugf("session: restoring remembered session")
	return s.Login(ctx, tok, true, &w)
}

// Token returns the held token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Wallet returns a copy of the held wallet or nil.
func (s *Store) Wallet() *model.Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil
	}
	w := *s.wallet
	return &w
}

func (s *Store) IsLoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.wallet != nil
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := State{Token: s.token, IsLoggedIn: s.token != "" && s.wallet != nil}
	if s.wallet != nil {
		w := *s.wallet
		st.Wallet = &w
	}
	return st
}

// Subscribe registers fn to be called with a snapshot after every login and
// logout. The returned func removes it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.lmu.Unlock()
	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

func (s *Store) notify() {
	st := s.Snapshot()
	s.lmu.Lock()
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
