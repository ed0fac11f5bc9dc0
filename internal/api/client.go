// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package api talks to the wallet service: authentication and the trust
// relationships listing. It also carries a self-contained mock of that
// service for development and tests.
package api // import "github.com/toeirei/trustdesk/internal/api"

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/model"
)

// RequestIDHeader carries a per-request uuid in both directions.
const RequestIDHeader = "X-Request-ID"

// maxBody bounds how much of an error body is kept.
const maxBody = 4096

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("api: unexpected status %d: %s", e.Code, e.Body)
}

// Client is an HTTP client for the wallet service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL. A zero timeout means none.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string { return c.baseURL }

type authRequest struct {
	Wallet   string `json:"wallet"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
}

// Authenticate exchanges wallet credentials for a session token.
func (c *Client) Authenticate(ctx context.Context, wallet, password string) (string, error) {
	body, err := json.Marshal(authRequest{Wallet: wallet, Password: password})
	if err != nil {
		return "", errors.Wrap(err, "api: encode auth request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "api: build auth request")
	}
	req.Header.Set("Content-Type", "application/json")

	var resp authResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("api: auth response carried no token")
	}
	return resp.Token, nil
}

// GetTrustRelationships fetches one page of relationships for q.
func (c *Client) GetTrustRelationships(ctx context.Context, token string, q model.Query) (model.Page, error) {
	u, err := url.Parse(c.baseURL + "/trust_relationships")
	if err != nil {
		return model.Page{}, errors.Wrap(err, "api: parse base url")
	}
	u.RawQuery = EncodeQuery(q).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Page{}, errors.Wrap(err, "api: build listing request")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	var page model.Page
	if err := c.do(req, &page); err != nil {
		return model.Page{}, err
	}
	return page, nil
}

// EncodeQuery renders q as URL parameters. Empty filter fields are omitted.
func EncodeQuery(q model.Query) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Pagination.Limit))
	v.Set("offset", strconv.Itoa(q.Pagination.Offset))
	if q.Filter.State != "" {
		v.Set("state", string(q.Filter.State))
	}
	if q.Filter.Type != "" {
		v.Set("type", string(q.Filter.Type))
	}
	if q.Filter.RequestType != "" {
		v.Set("request_type", string(q.Filter.RequestType))
	}
	return v
}

func (c *Client) do(req *http.Request, out interface{}) error {
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "api: %s %s", req.Method, req.URL.Path)
	}
	defer func() { _ = resp.Body.Close() }()
	logging.Debugf("api: %s %s -> %d in %s (request %s)", req.Method, req.URL.Path, resp.StatusCode, time.Since(start), reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return errors.WithStack(&StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))})
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "api: decode %s response", req.URL.Path)
	}
	return nil
}
