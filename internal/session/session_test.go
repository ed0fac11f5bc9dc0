// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/internal/storage"
)

type fakeDecoder struct {
	calls int
	err   error
}

func (d *fakeDecoder) Decode(raw string) (*model.Wallet, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return &model.Wallet{ID: "id-" + raw, Name: "name-" + raw}, nil
}

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Navigate(p string) {
	n.mu.Lock()
	n.paths = append(n.paths, p)
	n.mu.Unlock()
}

func (n *recordingNav) got() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// countingStorage wraps a Storage, counts writes and can be told to fail.
type countingStorage struct {
	storage.Storage
	sets, removes int
	failSet       error
	failRemove    error
	failGet       error
}

func (c *countingStorage) Get(ctx context.Context, k string) (string, error) {
	if c.failGet != nil {
		return "", c.failGet
	}
	return c.Storage.Get(ctx, k)
}

func (c *countingStorage) Set(ctx context.Context, k, v string) error {
	c.sets++
	if c.failSet != nil {
		return c.failSet
	}
	return c.Storage.Set(ctx, k, v)
}

func (c *countingStorage) Remove(ctx context.Context, k string) error {
	c.removes++
	if c.failRemove != nil {
		return c.failRemove
	}
	return c.Storage.Remove(ctx, k)
}

func newTestStore() (*Store, *countingStorage, *fakeDecoder, *recordingNav) {
	st := &countingStorage{Storage: storage.NewMemory()}
	dec := &fakeDecoder{}
	nav := &recordingNav{}
	return New(st, dec, nav), st, dec, nav
}

func stored(t *testing.T, st storage.Storage, key string) (string, bool) {
	t.Helper()
	v, err := st.Get(context.Background(), key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", false
	}
	if err != nil {
		t.Fatalf("Get(%s): %v", key, err)
	}
	return v, true
}

func TestLoginRememberPersists(t *testing.T) {
	s, st, _, nav := newTestStore()
	ctx := context.Background()

	if err := s.Login(ctx, "T1", true, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.IsLoggedIn() || s.Token() != "T1" {
		t.Fatalf("expected logged in with T1, got %+v", s.Snapshot())
	}
	if w := s.Wallet(); w == nil || w.ID != "id-T1" {
		t.Fatalf("wallet not decoded from token: %+v", w)
	}
	if v, ok := stored(t, st, TokenKey); !ok || v != "T1" {
		t.Fatalf("token not persisted: %q %v", v, ok)
	}
	raw, ok := stored(t, st, WalletKey)
	if !ok {
		t.Fatalf("wallet not persisted")
	}
	var w model.Wallet
	if err := json.Unmarshal([]byte(raw), &w); err != nil || w.Name != "name-T1" {
		t.Fatalf("unexpected stored wallet %q (%v)", raw, err)
	}
	if got := nav.got(); len(got) != 1 || got[0] != HomePath {
		t.Fatalf("expected navigation to /, got %v", got)
	}
}

func TestLoginWithoutRememberClearsStorage(t *testing.T) {
	s, st, _, _ := newTestStore()
	ctx := context.Background()
	_ = st.Storage.Set(ctx, TokenKey, "old")
	_ = st.Storage.Set(ctx, WalletKey, `{"id":"old"}`)

	if err := s.Login(ctx, "T2", false, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !s.IsLoggedIn() {
		t.Fatalf("expected logged in")
	}
	if _, ok := stored(t, st, TokenKey); ok {
		t.Fatalf("token should not be stored")
	}
	if _, ok := stored(t, st, WalletKey); ok {
		t.Fatalf("wallet should not be stored")
	}
}

func TestLoginUsesSuppliedWallet(t *testing.T) {
	s, _, dec, _ := newTestStore()
	w := &model.Wallet{ID: "given", Name: "g"}
	if err := s.Login(context.Background(), "T3", false, w); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if dec.calls != 0 {
		t.Fatalf("decoder should not run when a wallet is supplied")
	}
	w.Name = "mutated"
	if s.Wallet().Name != "g" {
		t.Fatalf("store must not alias the caller's wallet")
	}
}

func TestLoginSameTokenIsNoop(t *testing.T) {
	s, st, dec, nav := newTestStore()
	ctx := context.Background()
	if err := s.Login(ctx, "T4", true, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	notified := 0
	defer s.Subscribe(func(State) { notified++ })()
	sets, removes, calls := st.sets, st.removes, dec.calls

	if err := s.Login(ctx, "T4", false, &model.Wallet{ID: "other"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if st.sets != sets || st.removes != removes {
		t.Fatalf("repeat login touched storage")
	}
	if dec.calls != calls || notified != 0 || len(nav.got()) != 1 {
		t.Fatalf("repeat login had side effects: decode=%d notify=%d nav=%v", dec.calls-calls, notified, nav.got())
	}
	if s.Wallet().ID != "id-T4" {
		t.Fatalf("wallet changed on repeat login")
	}
}

func TestLoginDecodeFailure(t *testing.T) {
	s, st, dec, nav := newTestStore()
	dec.err = errors.New("bad token")

	err := s.Login(context.Background(), "garbage", true, nil)
	if err == nil || !errors.Is(err, dec.err) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if s.IsLoggedIn() || s.Token() != "" || st.sets != 0 || len(nav.got()) != 0 {
		t.Fatalf("failed login changed state: %+v sets=%d nav=%v", s.Snapshot(), st.sets, nav.got())
	}
}

func TestLoginStorageFailureLeavesState(t *testing.T) {
	s, st, _, nav := newTestStore()
	st.failSet = errors.New("disk full")

	if err := s.Login(context.Background(), "T5", true, nil); !errors.Is(err, st.failSet) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if s.IsLoggedIn() || len(nav.got()) != 0 {
		t.Fatalf("state changed despite storage failure")
	}
}

func TestLoginEmptyToken(t *testing.T) {
	s, _, _, _ := newTestStore()
	if err := s.Login(context.Background(), "", false, &model.Wallet{ID: "x"}); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("expected ErrEmptyToken, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	s, st, _, nav := newTestStore()
	ctx := context.Background()
	if err := s.Login(ctx, "T6", true, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	var last State
	defer s.Subscribe(func(st State) { last = st })()

	s.Logout(ctx)

	if s.IsLoggedIn() || s.Token() != "" || s.Wallet() != nil {
		t.Fatalf("expected cleared session, got %+v", s.Snapshot())
	}
	if last.IsLoggedIn || last.Token != "" {
		t.Fatalf("subscriber saw %+v", last)
	}
	if _, ok := stored(t, st, TokenKey); ok {
		t.Fatalf("token still stored")
	}
	if _, ok := stored(t, st, WalletKey); ok {
		t.Fatalf("wallet still stored")
	}
	if got := nav.got(); got[len(got)-1] != LoginPath {
		t.Fatalf("expected navigation to /login, got %v", got)
	}
}

func TestLogoutIgnoresStorageErrors(t *testing.T) {
	s, st, _, nav := newTestStore()
	if err := s.Login(context.Background(), "T7", false, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	st.failRemove = errors.New("locked")
	s.Logout(context.Background())
	if s.IsLoggedIn() {
		t.Fatalf("logout must clear memory even when storage fails")
	}
	if got := nav.got(); got[len(got)-1] != LoginPath {
		t.Fatalf("expected navigation to /login, got %v", got)
	}
}

func TestRestore(t *testing.T) {
	s, st, dec, nav := newTestStore()
	ctx := context.Background()
	_ = st.Storage.Set(ctx, TokenKey, "abc")
	_ = st.Storage.Set(ctx, WalletKey, `{"id":"w1","name":"alice","logoURL":"l","createdAt":"c","expiration":"e","about":"a"}`)

	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !s.IsLoggedIn() || s.Token() != "abc" {
		t.Fatalf("expected restored session, got %+v", s.Snapshot())
	}
	w := s.Wallet()
	if w.ID != "w1" || w.LogoURL != "l" || w.About != "a" {
		t.Fatalf("unexpected wallet %+v", w)
	}
	if dec.calls != 0 {
		t.Fatalf("stored wallet should be used as is")
	}
	if got := nav.got(); len(got) != 1 || got[0] != HomePath {
		t.Fatalf("expected one navigation to /, got %v", got)
	}
}

func TestRestoreRunsOnce(t *testing.T) {
	s, st, _, _ := newTestStore()
	ctx := context.Background()

	// Nothing stored on the first call.
	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	_ = st.Storage.Set(ctx, TokenKey, "late")
	_ = st.Storage.Set(ctx, WalletKey, `{"id":"w"}`)
	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.IsLoggedIn() {
		t.Fatalf("second Restore must not rehydrate")
	}

	// Logging out does not re-arm it either.
	s.Logout(ctx)
	_ = st.Storage.Set(ctx, TokenKey, "late")
	_ = st.Storage.Set(ctx, WalletKey, `{"id":"w"}`)
	_ = s.Restore(ctx)
	if s.IsLoggedIn() {
		t.Fatalf("Restore after logout must not rehydrate")
	}
}

func TestRestoreNeedsBothKeys(t *testing.T) {
	s, st, _, _ := newTestStore()
	_ = st.Storage.Set(context.Background(), TokenKey, "only-token")
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.IsLoggedIn() {
		t.Fatalf("token alone must not restore a session")
	}
}

func TestRestoreCorruptWallet(t *testing.T) {
	s, st, _, _ := newTestStore()
	ctx := context.Background()
	_ = st.Storage.Set(ctx, TokenKey, "abc")
	_ = st.Storage.Set(ctx, WalletKey, `{not json`)

	if err := s.Restore(ctx); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.IsLoggedIn() {
		t.Fatalf("corrupt wallet must not restore")
	}
	if _, ok := stored(t, st, TokenKey); ok {
		t.Fatalf("corrupt entries should be removed")
	}
	if _, ok := stored(t, st, WalletKey); ok {
		t.Fatalf("corrupt entries should be removed")
	}
}

func TestRestoreStorageError(t *testing.T) {
	s, st, _, _ := newTestStore()
	st.failGet = errors.New("io")
	if err := s.Restore(context.Background()); !errors.Is(err, st.failGet) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s, _, _, _ := newTestStore()
	var seen []bool
	unsub := s.Subscribe(func(st State) { seen = append(seen, st.IsLoggedIn) })

	_ = s.Login(context.Background(), "T8", false, nil)
	s.Logout(context.Background())
	unsub()
	_ = s.Login(context.Background(), "T9", false, nil)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Fatalf("unexpected notifications %v", seen)
	}
}

func TestNavigatorCanReadStore(t *testing.T) {
	st := storage.NewMemory()
	var s *Store
	var loggedIn bool
	s = New(st, &fakeDecoder{}, NavigatorFunc(func(string) { loggedIn = s.IsLoggedIn() }))
	if err := s.Login(context.Background(), "T10", false, nil); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !loggedIn {
		t.Fatalf("navigation should observe the new session")
	}
}

func TestScope(t *testing.T) {
	ctx := context.Background()
	if _, err := FromContext(ctx); !errors.Is(err, ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
	func() {
		defer func() {
			r := recover()
			if err, ok := r.(error); !ok || !errors.Is(err, ErrNoStore) {
				t.Fatalf("expected panic with ErrNoStore, got %v", r)
			}
		}()
		MustFromContext(ctx)
	}()

	s, _, _, _ := newTestStore()
	got, err := FromContext(WithStore(ctx, s))
	if err != nil || got != s {
		t.Fatalf("FromContext returned %v %v", got, err)
	}
}
