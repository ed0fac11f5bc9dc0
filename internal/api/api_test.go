// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/internal/token"
)

func startMock(t *testing.T, opts ...MockOption) (*Client, *MockServer) {
	t.Helper()
	m := NewMockServer(opts...)
	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second), m
}

func login(t *testing.T, c *Client) string {
	t.Helper()
	tok, err := c.Authenticate(context.Background(), DemoWallet, DemoPassword)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	return tok
}

func Test_Authenticate(t *testing.T) {
	c, _ := startMock(t)
	require.NotContains(t, c.BaseURL()[len(c.BaseURL())-1:], "/")

	// When
	tok := login(t, c)
	// Then
	w, err := token.Decode(tok)
	require.NoError(t, err)
	require.Equal(t, DemoWallet, w.Name)
	require.Equal(t, "https://example.com/logo/demo.png", w.LogoURL)
	require.NotEmpty(t, w.Expiration)

	// When
	_, err = c.Authenticate(context.Background(), DemoWallet, "wrong")
	// Then
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Code)
	require.Contains(t, se.Body, "invalid credentials")
}

func Test_AuthenticateExtraWallet(t *testing.T) {
	c, _ := startMock(t, WithWallet(model.Wallet{ID: "w-9", Name: "erin"}, "s3cret"))
	tok, err := c.Authenticate(context.Background(), "erin", "s3cret")
	require.NoError(t, err)
	w, err := token.Decode(tok)
	require.NoError(t, err)
	require.Equal(t, "w-9", w.ID)
}

func Test_GetTrustRelationships(t *testing.T) {
	c, _ := startMock(t)
	tok := login(t, c)

	page, err := c.GetTrustRelationships(context.Background(), tok, model.Query{Pagination: model.DefaultPagination()})
	require.NoError(t, err)
	require.Equal(t, 42, page.Total)
	require.Len(t, page.Relationships, 10)
	require.Equal(t, model.ID("1"), page.Relationships[0].ID)

	p, _ := model.NewPagination(10, 40)
	page, err = c.GetTrustRelationships(context.Background(), tok, model.Query{Pagination: p})
	require.NoError(t, err)
	require.Len(t, page.Relationships, 2)

	f, _ := model.NewFilter("trusted", "", "")
	page, err = c.GetTrustRelationships(context.Background(), tok, model.Query{Pagination: model.DefaultPagination(), Filter: f})
	require.NoError(t, err)
	require.Greater(t, page.Total, 0)
	for _, r := range page.Relationships {
		require.Equal(t, "trusted", r.State)
	}
}

func Test_GetTrustRelationshipsUnauthorized(t *testing.T) {
	c, _ := startMock(t)

	_, err := c.GetTrustRelationships(context.Background(), "", model.Query{Pagination: model.DefaultPagination()})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Code)

	// A token signed with another key is rejected.
	other, _ := startMock(t, WithSecret([]byte("another")))
	foreign := login(t, other)
	_, err = c.GetTrustRelationships(context.Background(), foreign, model.Query{Pagination: model.DefaultPagination()})
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusUnauthorized, se.Code)
}

func Test_EncodeQuery(t *testing.T) {
	f, err := model.NewFilter("requested", "", "deduct")
	require.NoError(t, err)
	v := EncodeQuery(model.Query{Pagination: model.Pagination{Limit: 25, Offset: 50}, Filter: f})
	require.Equal(t, "limit=25&offset=50&request_type=deduct&state=requested", v.Encode())
}

func Test_ClientSendsRequestID(t *testing.T) {
	var got, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(RequestIDHeader)
		auth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trust_relationships":[{"id":1,"type":"send","state":"trusted","request_type":"manage"}],"total":1}`))
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL, time.Second).GetTrustRelationships(context.Background(), "tok", model.Query{Pagination: model.DefaultPagination()})
	require.NoError(t, err)
	require.Len(t, got, 36)
	require.Equal(t, "Bearer tok", auth)
	require.Equal(t, 1, page.Total)
	require.Equal(t, model.ID("1"), page.Relationships[0].ID)
}

func Test_ClientDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).GetTrustRelationships(context.Background(), "tok", model.Query{Pagination: model.DefaultPagination()})
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode")
}

func Test_ClientHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(srv.URL, 0).GetTrustRelationships(ctx, "tok", model.Query{Pagination: model.DefaultPagination()})
	require.ErrorIs(t, err, context.Canceled)
}

func Test_MockServerRejectsBadQuery(t *testing.T) {
	c, _ := startMock(t)
	tok := login(t, c)

	_, err := c.GetTrustRelationships(context.Background(), tok, model.Query{
		Pagination: model.DefaultPagination(),
		Filter:     model.Filter{State: "pending"},
	})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusBadRequest, se.Code)
}

func Test_ServeListener(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewMockServer().ServeListener(ctx, ln) }()

	c := NewClient("http://"+ln.Addr().String(), 2*time.Second)
	require.Eventually(t, func() bool {
		_, err := c.Authenticate(context.Background(), DemoWallet, DemoPassword)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func Test_FilterPage(t *testing.T) {
	rows := Fixtures(12)
	page := FilterPage(rows, model.Query{
		Pagination: model.Pagination{Limit: 100},
		Filter:     model.Filter{Type: model.TypeSend},
	})
	require.Equal(t, 2, page.Total)
	for _, r := range page.Relationships {
		require.Equal(t, "send", r.Type)
	}

	empty := FilterPage(rows, model.Query{Pagination: model.Pagination{Limit: 5, Offset: 50}})
	require.Equal(t, 12, empty.Total)
	require.Empty(t, empty.Relationships)
}
