// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"errors"
	"strings"
	"testing"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		limit, offset int
		wantErr       bool
	}{
		{10, 0, false},
		{1, 500, false},
		{0, 0, true},
		{10, -1, true},
		{-5, 0, true},
	}
	for _, c := range cases {
		p, err := NewPagination(c.limit, c.offset)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidPagination) {
				t.Fatalf("NewPagination(%d,%d): expected ErrInvalidPagination, got %v", c.limit, c.offset, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewPagination(%d,%d): %v", c.limit, c.offset, err)
		}
		if p.Limit != c.limit || p.Offset != c.offset {
			t.Fatalf("unexpected pagination %+v", p)
		}
	}
}

func TestNewPagination_ZeroLimitMessage(t *testing.T) {
	_, err := NewPagination(0, 0)
	if err == nil || !strings.Contains(err.Error(), "limit must be positive, got 0") {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestPaginationNextPrev(t *testing.T) {
	p := DefaultPagination()
	if p != (Pagination{Limit: 10, Offset: 0}) {
		t.Fatalf("unexpected default %+v", p)
	}
	if got := p.Next().Next(); got.Offset != 20 {
		t.Fatalf("expected offset 20, got %d", got.Offset)
	}
	if got := (Pagination{Limit: 10, Offset: 5}).Prev(); got.Offset != 0 {
		t.Fatalf("expected prev to clamp at 0, got %d", got.Offset)
	}
}

func TestNewFilter(t *testing.T) {
	f, err := NewFilter("requested", "send", "manage")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	if f.State != StateRequested || f.Type != TypeSend || f.RequestType != RequestTypeManage {
		t.Fatalf("unexpected filter %+v", f)
	}

	if f, err := NewFilter("", "", ""); err != nil || !f.IsZero() {
		t.Fatalf("empty filter should be valid and zero: %+v %v", f, err)
	}

	bad := [][3]string{
		{"pending", "", ""},
		{"", "receive_all", ""},
		{"", "", "receive"}, // receive is a Type but not a RequestType
	}
	for _, b := range bad {
		if _, err := NewFilter(b[0], b[1], b[2]); !errors.Is(err, ErrInvalidFilter) {
			t.Fatalf("NewFilter(%q): expected ErrInvalidFilter, got %v", b, err)
		}
	}
}

func TestEnumerationsValid(t *testing.T) {
	if len(States) != 5 || len(Types) != 6 || len(RequestTypes) != 3 {
		t.Fatalf("unexpected enumeration sizes: %d %d %d", len(States), len(Types), len(RequestTypes))
	}
	if State("trusted").Valid() != true || State("pending").Valid() {
		t.Fatalf("state validity mismatch")
	}
	if !TypeYield.Valid() || Type("").Valid() {
		t.Fatalf("type validity mismatch")
	}
}
