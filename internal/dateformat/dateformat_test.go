// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package dateformat

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		in, pattern, want string
	}{
		{"2024-03-07T10:11:12Z", DatePattern, "03/07/2024"},
		{"2024-03-07T10:11:12.123456+02:00", DatePattern, "03/07/2024"},
		{"2023-12-31 23:59:59", DatePattern, "12/31/2023"},
		{"2023-01-09", DatePattern, "01/09/2023"},
		{"2023-01-09", "%Y-%m-%d %H:%M", "2023-01-09 00:00"},
		{"", DatePattern, ""},
		{"   ", DatePattern, ""},
		{"yesterday", DatePattern, "yesterday"},
	}
	for _, c := range cases {
		if got := Format(c.in, c.pattern); got != c.want {
			t.Errorf("Format(%q, %q) = %q, want %q", c.in, c.pattern, got, c.want)
		}
	}
}
