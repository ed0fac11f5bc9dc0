// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package listing

import (
	"github.com/toeirei/trustdesk/internal/dateformat"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/model"
)

// Column describes one column of the relationships table.
type Column struct {
	Name         string
	Description  string
	Sortable     bool
	ShowInfoIcon bool
	// Renderer formats the raw cell value. Nil means the value is shown as is.
	Renderer func(string) string
	// Width is the preferred cell width in the terminal table.
	Width int
}

// Title is the localised column header, falling back to Description.
func (c Column) Title() string {
	id := "column." + c.Name
	if t := i18n.T(id); t != id {
		return t
	}
	return c.Description
}

// Render returns the cell text for row.
func (c Column) Render(row model.TrustRelationship) string {
	v := Field(row, c.Name)
	if c.Renderer != nil {
		return c.Renderer(v)
	}
	return v
}

func renderDate(v string) string { return dateformat.Format(v, dateformat.DatePattern) }

// Columns are the nine relationship table columns in display order.
var Columns = []Column{
	{Name: "id", Description: "Id", Sortable: true, Width: 6},
	{Name: "type", Description: "Type", Sortable: true, Width: 8},
	{Name: "state", Description: "State", Sortable: true, Width: 24},
	{Name: "request_type", Description: "Request Type", Sortable: true, Width: 12},
	{Name: "created_at", Description: "Created_At", Sortable: true, Renderer: renderDate, Width: 11},
	{Name: "updated_at", Description: "Updated_At", Sortable: true, Renderer: renderDate, Width: 11},
	{Name: "originating_wallet", Description: "Originating Wallet", Sortable: true, Width: 18},
	{Name: "actor_wallet", Description: "Source Wallet", Sortable: true, Width: 14},
	{Name: "target_wallet", Description: "Target Wallet", Sortable: true, Width: 14},
}

// Field returns the named field of row. Unknown names give "".
func Field(row model.TrustRelationship, name string) string {
	switch name {
	case "id":
		return string(row.ID)
	case "type":
		return row.Type
	case "state":
		return row.State
	case "request_type":
		return row.RequestType
	case "created_at":
		return row.CreatedAt
	case "updated_at":
		return row.UpdatedAt
	case "originating_wallet":
		return row.OriginatingWallet
	case "actor_wallet":
		return row.ActorWallet
	case "target_wallet":
		return row.TargetWallet
	}
	return ""
}
