// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package listing

import (
	"math/rand/v2"
	"strings"

	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/util/slicest"
)

// RowTransform shapes fetched rows before they are stored.
type RowTransform func([]model.TrustRelationship) []model.TrustRelationship

// Passthrough copies rows unchanged.
func Passthrough(rows []model.TrustRelationship) []model.TrustRelationship {
	out := make([]model.TrustRelationship, len(rows))
	copy(out, rows)
	return out
}

// RandomStateValues are the placeholder states used by RandomStates.
var RandomStateValues = []string{"pending", "decline", "accepted", "cancelled"}

// RandomStates replaces every row's state with a uniform pick from
// RandomStateValues. It exists for UI demos against data without
// meaningful states and is never the default. r must not be shared.
func RandomStates(r *rand.Rand) RowTransform {
	return func(rows []model.TrustRelationship) []model.TrustRelationship {
		out := Passthrough(rows)
		for i := range out {
			out[i].State = RandomStateValues[r.IntN(len(RandomStateValues))]
		}
		return out
	}
}

// MatchSearch keeps the rows where any column contains search,
// case-insensitively. An empty search keeps everything.
func MatchSearch(rows []model.TrustRelationship, search string) []model.TrustRelationship {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return rows
	}
	return slicest.Filter(rows, func(row model.TrustRelationship) bool {
		return slicest.Any(Columns, func(c Column) bool {
			return strings.Contains(strings.ToLower(Field(row, c.Name)), search)
		})
	})
}
