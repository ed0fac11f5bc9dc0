// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package listing

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/model"
)

// Option is one entry of a filter value list.
type Option struct {
	Label string
	Value string
	Color string
	// msgID is the i18n key of the label.
	msgID string
}

// LocalLabel is the label in the active language.
func (o Option) LocalLabel() string {
	if o.msgID != "" {
		if t := i18n.T(o.msgID); t != o.msgID {
			return t
		}
	}
	return o.Label
}

// Style renders Color for a terminal. "black" means the default foreground.
func (o Option) Style() lipgloss.Style {
	s := lipgloss.NewStyle()
	switch c := strings.ToLower(o.Color); {
	case c == "" || c == "black":
		return s
	case c == "red":
		return s.Foreground(lipgloss.Color("1"))
	default:
		return s.Foreground(lipgloss.Color(o.Color))
	}
}

var StatesList = []Option{
	{Label: "Requested", Value: string(model.StateRequested), Color: "black", msgID: "state.requested"},
	{Label: "Trusted", Value: string(model.StateTrusted), Color: "black", msgID: "state.trusted"},
	{Label: "CancelledByOriginator", Value: string(model.StateCancelledByOriginator), Color: "#86C232", msgID: "state.cancelled_by_originator"},
	{Label: "CancelledByActor", Value: string(model.StateCancelledByActor), Color: "red", msgID: "state.cancelled_by_actor"},
	{Label: "CancelledByTarget", Value: string(model.StateCancelledByTarget), Color: "red", msgID: "state.cancelled_by_target"},
}

var RequestTypeList = []Option{
	{Label: "Manage", Value: string(model.RequestTypeManage), Color: "black", msgID: "type.manage"},
	{Label: "Send", Value: string(model.RequestTypeSend), Color: "black", msgID: "type.send"},
	{Label: "Deduct", Value: string(model.RequestTypeDeduct), Color: "black", msgID: "type.deduct"},
}

var TypeList = []Option{
	{Label: "Manage", Value: string(model.TypeManage), Color: "black", msgID: "type.manage"},
	{Label: "Send", Value: string(model.TypeSend), Color: "black", msgID: "type.send"},
	{Label: "Receive", Value: string(model.TypeReceive), Color: "black", msgID: "type.receive"},
	{Label: "Deduct", Value: string(model.TypeDeduct), Color: "black", msgID: "type.deduct"},
	{Label: "Release", Value: string(model.TypeRelease), Color: "black", msgID: "type.release"},
	{Label: "Yield", Value: string(model.TypeYield), Color: "black", msgID: "type.yield"},
}

// Lookup finds value in list.
func Lookup(list []Option, value string) (Option, bool) {
	for _, o := range list {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// Cycle returns the value after current in list. "" (any) comes before the
// first entry and after the last.
func Cycle(list []Option, current string) string {
	if current == "" {
		return list[0].Value
	}
	for i, o := range list {
		if o.Value == current {
			if i+1 < len(list) {
				return list[i+1].Value
			}
			return ""
		}
	}
	return ""
}

// DefaultFilter matches every relationship.
func DefaultFilter() model.Filter { return model.Filter{} }
