// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the terminal interface: a login form on "/login" and the
// trust relationships table on "/". Both views read the session and listing
// stores and call their mutators; store changes come back as messages.
package tui // import "github.com/toeirei/trustdesk/ui/tui"

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/trustdesk/internal/listing"
	"github.com/toeirei/trustdesk/internal/session"
)

// Authenticator exchanges credentials for a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, wallet, password string) (string, error)
}

// Deps are the collaborators of the program.
type Deps struct {
	Session *session.Store
	Listing *listing.Store
	Auth    Authenticator
	// Navigator is the one the session store was built with, if it is a
	// ProgramNavigator. Run attaches the program to it.
	Navigator *ProgramNavigator
	// Clipboard defaults to the system clipboard.
	Clipboard func(string) error
}

// listingChangedMsg signals that the listing store has new state.
type listingChangedMsg struct{}

type mainModel struct {
	ctx     context.Context
	deps    Deps
	route   string
	login   loginModel
	rels    relationshipsModel
	changes chan struct{}
	unsub   func()
	started bool
	width   int
	height  int
}

func newMainModel(ctx context.Context, d Deps) mainModel {
	if d.Clipboard == nil {
		d.Clipboard = clipboard.WriteAll
	}
	m := mainModel{
		ctx:     ctx,
		deps:    d,
		route:   session.LoginPath,
		changes: make(chan struct{}, 1),
	}
	m.unsub = d.Listing.Subscribe(func(listing.State) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	m.login = newLoginModel(ctx, d.Session, d.Auth)
	m.rels = newRelationshipsModel(ctx, d)
	if d.Session.IsLoggedIn() {
		m.route = session.HomePath
		m.started = true
	}
	return m
}

// waitForChange blocks until the listing store reports a change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return listingChangedMsg{}
	}
}

func (m mainModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForChange(m.changes), m.rels.spinner.Tick}
	if m.route == session.HomePath {
		m.deps.Listing.Start(m.ctx)
	} else {
		cmds = append(cmds, m.login.Init())
	}
	return tea.Batch(cmds...)
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.login.setSize(msg.Width, msg.Height)
		m.rels.setSize(msg.Width, msg.Height)
		return m, nil
	case navigateMsg:
		return m.navigate(msg.path)
	case listingChangedMsg:
		m.rels.sync(m.deps.Listing.Snapshot())
		return m, waitForChange(m.changes)
	case spinner.TickMsg:
		// keep the tick loop alive while the login form is shown
		var cmd tea.Cmd
		m.rels, cmd = m.rels.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	switch m.route {
	case session.HomePath:
		m.rels, cmd = m.rels.Update(msg)
	default:
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func (m mainModel) navigate(path string) (tea.Model, tea.Cmd) {
	m.route = path
	switch path {
	case session.HomePath:
		m.rels.status = ""
		if !m.started {
			m.started = true
			m.deps.Listing.Start(m.ctx)
		} else {
			m.deps.Listing.Refresh()
		}
		return m, nil
	default:
		m.login = newLoginModel(m.ctx, m.deps.Session, m.deps.Auth)
		m.login.setSize(m.width, m.height)
		return m, m.login.Init()
	}
}

func (m mainModel) View() string {
	if m.route == session.HomePath {
		return docStyle.Render(m.rels.View())
	}
	return docStyle.Render(m.login.View())
}

// Run starts the program and blocks until it exits.
func Run(ctx context.Context, d Deps) error {
	m := newMainModel(ctx, d)
	defer m.unsub()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if d.Navigator != nil {
		d.Navigator.Attach(p)
		defer d.Navigator.Attach(nil)
	}
	_, err := p.Run()
	return err
}
