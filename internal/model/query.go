// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPagination is returned for a negative offset or a limit below one.
	ErrInvalidPagination = errors.New("invalid pagination")
	// ErrInvalidFilter is returned when a filter field holds a value outside its enumeration.
	ErrInvalidFilter = errors.New("invalid filter")
)

// DefaultLimit is the page size used when nothing else is configured.
const DefaultLimit = 10

// Pagination is a limit/offset cursor.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultPagination returns {limit: 10, offset: 0}.
func DefaultPagination() Pagination {
	return Pagination{Limit: DefaultLimit, Offset: 0}
}

// NewPagination validates limit and offset.
func NewPagination(limit, offset int) (Pagination, error) {
	if limit < 1 {
		return Pagination{}, fmt.Errorf("%w: limit must be positive, got %d", ErrInvalidPagination, limit)
	}
	if offset < 0 {
		return Pagination{}, fmt.Errorf("%w: offset must not be negative, got %d", ErrInvalidPagination, offset)
	}
	return Pagination{Limit: limit, Offset: offset}, nil
}

// Next returns the following page. It does not look at any total.
func (p Pagination) Next() Pagination {
	return Pagination{Limit: p.Limit, Offset: p.Offset + p.Limit}
}

// Prev returns the previous page, clamped at offset 0.
func (p Pagination) Prev() Pagination {
	off := p.Offset - p.Limit
	if off < 0 {
		off = 0
	}
	return Pagination{Limit: p.Limit, Offset: off}
}

// Filter narrows the listing. An empty field matches everything.
type Filter struct {
	State       State       `json:"state"`
	Type        Type        `json:"type"`
	RequestType RequestType `json:"request_type"`
}

// NewFilter validates each non-empty field against its enumeration.
func NewFilter(state, typ, requestType string) (Filter, error) {
	f := Filter{State: State(state), Type: Type(typ), RequestType: RequestType(requestType)}
	if f.State != "" && !f.State.Valid() {
		return Filter{}, fmt.Errorf("%w: state %q", ErrInvalidFilter, state)
	}
	if f.Type != "" && !f.Type.Valid() {
		return Filter{}, fmt.Errorf("%w: type %q", ErrInvalidFilter, typ)
	}
	if f.RequestType != "" && !f.RequestType.Valid() {
		return Filter{}, fmt.Errorf("%w: request_type %q", ErrInvalidFilter, requestType)
	}
	return f, nil
}

// IsZero reports whether no field is set.
func (f Filter) IsZero() bool { return f == Filter{} }

// Query is what the listing store sends to the API on every fetch.
type Query struct {
	Pagination Pagination `json:"pagination"`
	Filter     Filter     `json:"filter"`
}
