// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package token turns a session token into the wallet it was issued for.
// The signature is not checked here: the client never holds the signing key,
// the server verifies every request.
package token // import "github.com/toeirei/trustdesk/internal/token"

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/toeirei/trustdesk/internal/model"
)

// ErrMalformed is returned for anything that is not a JWT with JSON claims.
var ErrMalformed = errors.New("token: malformed")

var parser = jwt.NewParser(jwt.WithJSONNumber())

// Decode reads the wallet claims out of raw.
func Decode(raw string) (*model.Wallet, error) {
	raw = strings.TrimSpace(raw)
	if strings.Count(raw, ".") != 2 {
		return nil, fmt.Errorf("%w: expected three segments", ErrMalformed)
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &model.Wallet{
		ID:         claimString(claims, "id"),
		Name:       claimString(claims, "name"),
		LogoURL:    claimString(claims, "logo_url"),
		CreatedAt:  claimString(claims, "created_at"),
		Expiration: claimString(claims, "expiration"),
		About:      claimString(claims, "about"),
	}, nil
}

// claimString renders a claim as text. Missing and null claims are "".
func claimString(c jwt.MapClaims, name string) string {
	switch v := c[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// DecoderFunc adapts a function to the session decoder interface.
type DecoderFunc func(raw string) (*model.Wallet, error)

func (f DecoderFunc) Decode(raw string) (*model.Wallet, error) { return f(raw) }

// Decoder is the default decoder used by the session store.
var Decoder = DecoderFunc(Decode)
