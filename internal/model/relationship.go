// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"bytes"
	"encoding/json"
)

// State is the lifecycle state of a trust relationship.
type State string

const (
	StateRequested             State = "requested"
	StateTrusted               State = "trusted"
	StateCancelledByOriginator State = "cancelled_by_originator"
	StateCancelledByActor      State = "cancelled_by_actor"
	StateCancelledByTarget     State = "cancelled_by_target"
)

// States lists every valid State in display order.
var States = []State{
	StateRequested,
	StateTrusted,
	StateCancelledByOriginator,
	StateCancelledByActor,
	StateCancelledByTarget,
}

// Valid reports whether s is one of States.
func (s State) Valid() bool { return contains(States, s) }

// Type is the kind of permission a trust relationship grants.
type Type string

const (
	TypeManage  Type = "manage"
	TypeSend    Type = "send"
	TypeReceive Type = "receive"
	TypeDeduct  Type = "deduct"
	TypeRelease Type = "release"
	TypeYield   Type = "yield"
)

var Types = []Type{TypeManage, TypeSend, TypeReceive, TypeDeduct, TypeRelease, TypeYield}

func (t Type) Valid() bool { return contains(Types, t) }

// RequestType is the kind of request that created a trust relationship.
type RequestType string

const (
	RequestTypeManage RequestType = "manage"
	RequestTypeSend   RequestType = "send"
	RequestTypeDeduct RequestType = "deduct"
)

var RequestTypes = []RequestType{RequestTypeManage, RequestTypeSend, RequestTypeDeduct}

func (r RequestType) Valid() bool { return contains(RequestTypes, r) }

// TrustRelationship is one row of the relationships listing. State is kept
// as a plain string: the server is the authority on its values and an unknown
// state must still be displayable.
type TrustRelationship struct {
	ID                ID     `json:"id"`
	Type              string `json:"type"`
	State             string `json:"state"`
	RequestType       string `json:"request_type"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
	OriginatingWallet string `json:"originating_wallet"`
	ActorWallet       string `json:"actor_wallet"`
	TargetWallet      string `json:"target_wallet"`
}

// Page is one response of the listing API.
type Page struct {
	Relationships []TrustRelationship `json:"trust_relationships"`
	Total         int                 `json:"total"`
}

func contains[T comparable](list []T, v T) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// ID is a row identifier. The API sends it either as a JSON number or a
// string; both decode to the same text.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
