// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/trustdesk/internal/logging"
)

// navigateMsg moves the app to another route.
type navigateMsg struct {
	path string
}

// ProgramNavigator delivers session navigation to a running program. Until
// a program is attached it only remembers the last route.
type ProgramNavigator struct {
	mu   sync.Mutex
	p    *tea.Program
	last string
}

func NewProgramNavigator() *ProgramNavigator { return &ProgramNavigator{} }

// Navigate sends the route asynchronously; it may be called from inside
// the program's own Update.
func (n *ProgramNavigator) Navigate(path string) {
	n.mu.Lock()
	n.last = path
	p := n.p
	n.mu.Unlock()
	logging.Debugf("tui: navigate to %s", path)
	if p != nil {
		go p.Send(navigateMsg{path: path})
	}
}

// Last returns the most recent route or "".
func (n *ProgramNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// Attach connects p. Pass nil to detach once the program has exited.
func (n *ProgramNavigator) Attach(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}
