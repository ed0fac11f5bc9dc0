// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/util/slicest"
)

// Demo credentials accepted by the mock server unless overridden.
const (
	DemoWallet   = "demo"
	DemoPassword = "demo"
)

// MockServer is an in-process stand-in for the wallet service.
type MockServer struct {
	wallets  map[string]mockWallet
	secret   []byte
	fixtures []model.TrustRelationship
	now      func() time.Time
}

type mockWallet struct {
	password string
	wallet   model.Wallet
}

// MockOption configures a MockServer.
type MockOption func(*MockServer)

// WithWallet registers an extra wallet that may authenticate.
func WithWallet(w model.Wallet, password string) MockOption {
	return func(s *MockServer) { s.wallets[w.Name] = mockWallet{password: password, wallet: w} }
}

// WithFixtures replaces the generated relationship set.
func WithFixtures(rows []model.TrustRelationship) MockOption {
	return func(s *MockServer) { s.fixtures = rows }
}

// WithSecret sets the HMAC key used to sign issued tokens.
func WithSecret(secret []byte) MockOption {
	return func(s *MockServer) { s.secret = secret }
}

// NewMockServer builds a server with the demo wallet and Fixtures(42).
func NewMockServer(opts ...MockOption) *MockServer {
	s := &MockServer{
		wallets:  map[string]mockWallet{},
		secret:   []byte("trustdesk-mock-secret"),
		fixtures: Fixtures(42),
		now:      time.Now,
	}
	WithWallet(model.Wallet{
		ID:        "7c1f6d1e-6d43-4d5c-9a57-1f8c1f2a0c01",
		Name:      DemoWallet,
		LogoURL:   "https://example.com/logo/demo.png",
		CreatedAt: "2023-05-01T12:00:00Z",
		About:     "Demo wallet served by trustdesk mock-server",
	}, DemoPassword)(s)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Handler returns the routed, CORS-wrapped handler.
func (s *MockServer) Handler() http.Handler {
	router := mux.NewRouter()
	router.Path("/auth").HandlerFunc(s.authenticate).Methods(http.MethodPost)
	router.Path("/trust_relationships").HandlerFunc(s.requireToken(s.listRelationships)).Methods(http.MethodGet)

	headersOk := handlers.AllowedHeaders([]string{"Authorization", "Content-Type", RequestIDHeader})
	originsOk := handlers.AllowedOrigins([]string{"*"})
	methodsOk := handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions})
	return handlers.CORS(originsOk, headersOk, methodsOk)(s.requestID(router))
}

// Serve listens on addr until ctx is done.
func (s *MockServer) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is done, then shuts down gracefully.
func (s *MockServer) ServeListener(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           handlers.LoggingHandler(logging.Writer(), s.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	logging.Infof("mock-server: listening on %s", ln.Addr())

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *MockServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *MockServer) authenticate(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request")
		return
	}
	mw, ok := s.wallets[req.Wallet]
	if !ok || mw.password != req.Password {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	token, err := s.issue(mw.wallet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not issue token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token})
}

func (s *MockServer) issue(wl model.Wallet) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":         wl.ID,
		"name":       wl.Name,
		"logo_url":   wl.LogoURL,
		"created_at": wl.CreatedAt,
		"expiration": now.Add(24 * time.Hour).UTC().Format(time.RFC3339),
		"about":      wl.About,
		"iat":        now.Unix(),
		"exp":        now.Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *MockServer) requireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		_, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next(w, r)
	}
}

func (s *MockServer) listRelationships(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := intParam(q.Get("limit"), model.DefaultLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	offset, err := intParam(q.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	p, err := model.NewPagination(limit, offset)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f, err := model.NewFilter(q.Get("state"), q.Get("type"), q.Get("request_type"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, FilterPage(s.fixtures, model.Query{Pagination: p, Filter: f}))
}

// FilterPage applies q to rows the way the service does.
func FilterPage(rows []model.TrustRelationship, q model.Query) model.Page {
	matched := slicest.Filter(rows, func(row model.TrustRelationship) bool {
		f := q.Filter
		return (f.State == "" || row.State == string(f.State)) &&
			(f.Type == "" || row.Type == string(f.Type)) &&
			(f.RequestType == "" || row.RequestType == string(f.RequestType))
	})
	page := model.Page{Total: len(matched), Relationships: []model.TrustRelationship{}}
	if q.Pagination.Offset >= len(matched) {
		return page
	}
	end := q.Pagination.Offset + q.Pagination.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Relationships = matched[q.Pagination.Offset:end]
	return page
}

// Fixtures generates n deterministic relationships cycling through every
// state, type and request type.
func Fixtures(n int) []model.TrustRelationship {
	base := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)
	wallets := []string{"demo", "alice", "bob", "carol", "dave"}
	rows := make([]model.TrustRelationship, 0, n)
	for i := 0; i < n; i++ {
		created := base.Add(time.Duration(i) * 36 * time.Hour)
		rows = append(rows, model.TrustRelationship{
			ID:                model.ID(strconv.Itoa(i + 1)),
			Type:              string(model.Types[i%len(model.Types)]),
			State:             string(model.States[i%len(model.States)]),
			RequestType:       string(model.RequestTypes[i%len(model.RequestTypes)]),
			CreatedAt:         created.Format(time.RFC3339),
			UpdatedAt:         created.Add(time.Duration(i%7) * time.Hour * 5).Format(time.RFC3339),
			OriginatingWallet: wallets[i%len(wallets)],
			ActorWallet:       wallets[(i+1)%len(wallets)],
			TargetWallet:      wallets[(i+2)%len(wallets)],
		})
	}
	return rows
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Errorf("mock-server: unable to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
