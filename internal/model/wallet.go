// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the data structures shared by the session and listing
// stores, the API client and the user interfaces.
package model // import "github.com/toeirei/trustdesk/internal/model"

// Wallet is the identity record of a session. It is either decoded from the
// session token's claims or supplied by the caller at login.
type Wallet struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LogoURL    string `json:"logoURL"`
	CreatedAt  string `json:"createdAt"`
	Expiration string `json:"expiration"`
	About      string `json:"about"`
}
