// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type listKeyMap struct {
	Next        key.Binding
	Prev        key.Binding
	State       key.Binding
	Type        key.Binding
	RequestType key.Binding
	Clear       key.Binding
	Search      key.Binding
	Refresh     key.Binding
	Copy        key.Binding
	Logout      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func (km listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Next, km.Prev, km.State, km.Search, km.Help, km.Quit}
}

func (km listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Next, km.Prev, km.Refresh},
		{km.State, km.Type, km.RequestType, km.Clear},
		{km.Search, km.Copy},
		{km.Logout, km.Help, km.Quit},
	}
}

// listKeyMap implements help.KeyMap
var _ help.KeyMap = listKeyMap{}

var listKeys = listKeyMap{
	Next:        key.NewBinding(key.WithKeys("n", "right"), key.WithHelp("n", "next page")),
	Prev:        key.NewBinding(key.WithKeys("p", "left"), key.WithHelp("p", "prev page")),
	State:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "state")),
	Type:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type")),
	RequestType: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "request type")),
	Clear:       key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear filters")),
	Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Refresh:     key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),
	Copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy id")),
	Logout:      key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:        key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
}

type loginKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Submit key.Binding
	Quit   key.Binding
}

func (km loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Next, km.Toggle, km.Submit, km.Quit}
}

func (km loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{km.Next, km.Prev}, {km.Toggle, km.Submit, km.Quit}}
}

var loginKeys = loginKeyMap{
	Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "remember")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log in")),
	Quit:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit")),
}
