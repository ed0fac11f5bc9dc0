// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package listing keeps one page of trust relationships in sync with the
// pagination and filter the user picked. Every change to either starts a
// fetch; only the response to the most recent fetch is applied.
package listing // import "github.com/toeirei/trustdesk/internal/listing"

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/model"
)

// Lister is the remote listing API.
type Lister interface {
	GetTrustRelationships(ctx context.Context, token string, q model.Query) (model.Page, error)
}

// TokenSource supplies the session token at fetch time.
type TokenSource interface {
	Token() string
}

// StaticToken is a TokenSource that always returns itself.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// State is a point-in-time copy of the store.
type State struct {
	Pagination   model.Pagination
	Filter       model.Filter
	SearchString string
	IsLoading    bool
	Message      string
	Rows         []model.TrustRelationship
	// TotalRowCount is nil until the first successful fetch.
	TotalRowCount *int
}

// VisibleRows is Rows narrowed by SearchString.
func (s State) VisibleRows() []model.TrustRelationship {
	return MatchSearch(s.Rows, s.SearchString)
}

// Range returns the 1-based first and last row numbers of the current page
// and the total. All are zero before the first successful fetch or when the
// page is empty.
func (s State) Range() (from, to, total int) {
	if s.TotalRowCount == nil || len(s.Rows) == 0 {
		if s.TotalRowCount != nil {
			total = *s.TotalRowCount
		}
		return 0, 0, total
	}
	total = *s.TotalRowCount
	from = s.Pagination.Offset + 1
	to = s.Pagination.Offset + len(s.Rows)
	return from, to, total
}

// HasNext reports whether a page follows the current one.
func (s State) HasNext() bool {
	return s.TotalRowCount != nil && s.Pagination.Offset+s.Pagination.Limit < *s.TotalRowCount
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithPagination sets the initial pagination.
func WithPagination(p model.Pagination) StoreOption {
	return func(s *Store) { s.state.Pagination = p }
}

// WithFilter sets the initial filter.
func WithFilter(f model.Filter) StoreOption {
	return func(s *Store) { s.state.Filter = f }
}

// WithRowTransform replaces Passthrough.
func WithRowTransform(t RowTransform) StoreOption {
	return func(s *Store) { s.transform = t }
}

// WithTimeout bounds every fetch. Zero means no bound beyond the caller's.
func WithTimeout(d time.Duration) StoreOption {
	return func(s *Store) { s.timeout = d }
}

// Store is the listing state container. It is safe for concurrent use.
type Store struct {
	lister    Lister
	tokens    TokenSource
	transform RowTransform
	timeout   time.Duration

	mu      sync.Mutex
	state   State
	seq     uint64
	cancel  context.CancelFunc
	base    context.Context
	stop    context.CancelFunc
	started bool
	closed  bool
	wg      sync.WaitGroup

	lmu       sync.Mutex
	listeners map[int]func(State)
	nextID    int
}

// New returns a store with the default pagination and filter. Nothing is
// fetched until Start.
func New(lister Lister, tokens TokenSource, opts ...StoreOption) *Store {
	s := &Store{
		lister:    lister,
		tokens:    tokens,
		transform: Passthrough,
		state: State{
			Pagination: model.DefaultPagination(),
			Filter:     DefaultFilter(),
		},
		listeners: make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start runs the first fetch. Fetches run under ctx until Close. Calling
// Start again does nothing.
func (s *Store) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.base, s.stop = context.WithCancel(ctx)
	s.fetchLocked()
	s.mu.Unlock()
	s.notify()
}

// SetPagination changes the page. An equal value is not a change.
func (s *Store) SetPagination(p model.Pagination) error {
	if _, err := model.NewPagination(p.Limit, p.Offset); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state.Pagination == p {
		s.mu.Unlock()
		return nil
	}
	s.state.Pagination = p
	s.fetchLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetFilter changes the filter. An equal value is not a change. The offset
// is left alone, matching the listing API which reports the filtered total.
func (s *Store) SetFilter(f model.Filter) error {
	if _, err := model.NewFilter(string(f.State), string(f.Type), string(f.RequestType)); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state.Filter == f {
		s.mu.Unlock()
		return nil
	}
	s.state.Filter = f
	s.fetchLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// SetQuery changes pagination and filter together with at most one fetch.
// Both are validated before anything changes. Equal values are not a change.
func (s *Store) SetQuery(p model.Pagination, f model.Filter) error {
	if _, err := model.NewPagination(p.Limit, p.Offset); err != nil {
		return err
	}
	if _, err := model.NewFilter(string(f.State), string(f.Type), string(f.RequestType)); err != nil {
		return err
	}
	s.mu.Lock()
	if s.state.Pagination == p && s.state.Filter == f {
		s.mu.Unlock()
		return nil
	}
	s.state.Pagination = p
	s.state.Filter = f
	s.fetchLocked()
	s.mu.Unlock()
	s.notify()
	return nil
}

// Refresh fetches the current query again.
func (s *Store) Refresh() {
	s.mu.Lock()
	s.fetchLocked()
	s.mu.Unlock()
	s.notify()
}

// SetSearchString records free text. It does not fetch.
func (s *Store) SetSearchString(v string) {
	s.mu.Lock()
	if s.state.SearchString == v {
		s.mu.Unlock()
		return
	}
	s.state.SearchString = v
	s.mu.Unlock()
	s.notify()
}

// SetMessage replaces the message line.
func (s *Store) SetMessage(v string) {
	s.mu.Lock()
	s.state.Message = v
	s.mu.Unlock()
	s.notify()
}

// fetchLocked starts a fetch for the current query and supersedes any
// fetch in flight. s.mu must be held. Before Start or after Close it only
// records the query.
func (s *Store) fetchLocked() {
	if !s.started || s.closed {
		return
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq

	var ctx context.Context
	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(s.base, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(s.base)
	}
	s.cancel = cancel
	s.state.IsLoading = true

	q := model.Query{Pagination: s.state.Pagination, Filter: s.state.Filter}
	s.wg.Add(1)
	go s.run(ctx, cancel, seq, q)
}

func (s *Store) run(ctx context.Context, cancel context.CancelFunc, seq uint64, q model.Query) {
	defer s.wg.Done()
	defer cancel()

	start := time.Now()
	page, err := s.lister.GetTrustRelationships(ctx, s.tokens.Token(), q)

	s.mu.Lock()
	if seq != s.seq || s.closed {
		s.mu.Unlock()
		logging.Debugf("listing: discarding superseded response %d", seq)
		return
	}
	s.cancel = nil
	if err != nil {
		logging.Errorf("listing: fetch %d failed: %v", seq, err)
		s.state.Message = i18n.T("listing.fetch_error")
	} else {
		s.state.Rows = s.transform(page.Relationships)
		total := page.Total
		s.state.TotalRowCount = &total
		s.state.Message = ""
		logging.Debugf("listing: fetch %d got %d of %d rows in %s", seq, len(page.Relationships), total, time.Since(start))
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.Rows = append([]model.TrustRelationship(nil), s.state.Rows...)
	if s.state.TotalRowCount != nil {
		total := *s.state.TotalRowCount
		st.TotalRowCount = &total
	}
	return st
}

// Subscribe registers fn to run after every state change. fn runs on the
// goroutine that made the change and must not block.
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

// Wait blocks until every fetch started so far has returned.
func (s *Store) Wait() { s.wg.Wait() }

// Close cancels any fetch in flight and waits for it. The store keeps its
// last state but never fetches again.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.stop != nil {
		s.stop()
	}
	s.state.IsLoading = false
	s.mu.Unlock()
	s.wg.Wait()
}

// String summarises the query for logs.
func (s State) String() string {
	return fmt.Sprintf("limit=%d offset=%d state=%q type=%q request_type=%q",
		s.Pagination.Limit, s.Pagination.Offset, s.Filter.State, s.Filter.Type, s.Filter.RequestType)
}
