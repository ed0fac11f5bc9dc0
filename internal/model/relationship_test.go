// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"encoding/json"
	"testing"
)

func TestPageDecodesNumericAndStringIDs(t *testing.T) {
	raw := `{"trust_relationships":[
		{"id":1,"type":"send","state":"trusted","request_type":"manage"},
		{"id":"a9","type":"yield","state":"requested","request_type":"deduct"}
	],"total":2}`
	var p Page
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Total != 2 || len(p.Relationships) != 2 {
		t.Fatalf("unexpected page %+v", p)
	}
	if p.Relationships[0].ID != "1" || p.Relationships[1].ID != "a9" {
		t.Fatalf("unexpected ids %q %q", p.Relationships[0].ID, p.Relationships[1].ID)
	}
	if p.Relationships[0].RequestType != "manage" {
		t.Fatalf("request_type not mapped: %+v", p.Relationships[0])
	}
}

func TestIDRejectsObjects(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`{"x":1}`), &id); err == nil {
		t.Fatalf("expected error for object id")
	}
}
