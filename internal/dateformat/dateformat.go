// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package dateformat renders API timestamps for display.
package dateformat // import "github.com/toeirei/trustdesk/internal/dateformat"

import (
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// DatePattern is MM/DD/YYYY.
const DatePattern = "%m/%d/%Y"

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Format parses raw with the known layouts and formats it with the strftime
// pattern. Input that does not parse is returned as is.
func Format(raw, pattern string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, ok := Parse(raw)
	if !ok {
		return raw
	}
	return strftime.Format(pattern, t)
}

// Parse tries each known layout in turn.
func Parse(raw string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
