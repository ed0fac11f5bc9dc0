// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/session"
)

// loginResultMsg reports the outcome of a submitted login form.
type loginResultMsg struct {
	err error
}

const (
	fieldWallet = iota
	fieldPassword
	fieldRemember
	fieldCount
)

type loginModel struct {
	ctx        context.Context
	session    *session.Store
	auth       Authenticator
	inputs     []textinput.Model // 0: wallet, 1: password
	focusIndex int
	remember   bool
	submitting bool
	err        error
	help       help.Model
	width      int
}

func newLoginModel(ctx context.Context, s *session.Store, auth Authenticator) loginModel {
	m := loginModel{
		ctx:     ctx,
		session: s,
		auth:    auth,
		inputs:  make([]textinput.Model, 2),
		help:    help.New(),
	}
	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 128
		t.Width = 36
		switch i {
		case fieldWallet:
			t.Prompt = i18n.T("login.wallet") + ": "
			t.Placeholder = "demo"
		case fieldPassword:
			t.Prompt = i18n.T("login.password") + ": "
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}
		m.inputs[i] = t
	}
	m.inputs[fieldWallet].Focus()
	m.inputs[fieldWallet].TextStyle = focusedStyle
	return m
}

func (m loginModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *loginModel) setSize(width, _ int) {
	m.width = width
	m.help.Width = width
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.submitting = false
		m.err = msg.err
		if msg.err != nil {
			m.inputs[fieldPassword].SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch {
		case key.Matches(msg, loginKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, loginKeys.Submit):
			return m.submit()
		case key.Matches(msg, loginKeys.Next):
			return m, m.setFocus((m.focusIndex + 1) % fieldCount)
		case key.Matches(msg, loginKeys.Prev):
			return m, m.setFocus((m.focusIndex + fieldCount - 1) % fieldCount)
		case m.focusIndex == fieldRemember && key.Matches(msg, loginKeys.Toggle):
			m.remember = !m.remember
			return m, nil
		}
	}

	if m.focusIndex < len(m.inputs) {
		var cmd tea.Cmd
		m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *loginModel) setFocus(i int) tea.Cmd {
	m.focusIndex = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			m.inputs[j].TextStyle = focusedStyle
			continue
		}
		m.inputs[j].Blur()
		m.inputs[j].TextStyle = blurredStyle
	}
	return cmd
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	wallet := strings.TrimSpace(m.inputs[fieldWallet].Value())
	password := m.inputs[fieldPassword].Value()
	if wallet == "" {
		return m, m.setFocus(fieldWallet)
	}
	m.submitting = true
	m.err = nil
	ctx, s, auth, remember := m.ctx, m.session, m.auth, m.remember
	return m, func() tea.Msg {
		tok, err := auth.Authenticate(ctx, wallet, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		// Login navigates to "/" on success.
		return loginResultMsg{err: s.Login(ctx, tok, remember, nil)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("login.title")) + "\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	box := "[ ]"
	if m.remember {
		box = "[x]"
	}
	line := box + " " + i18n.T("login.remember")
	if m.focusIndex == fieldRemember {
		line = focusedStyle.Render(line)
	}
	b.WriteString("\n" + line + "\n")

	if m.submitting {
		b.WriteString("\n" + helpStyle.Render(i18n.T("listing.loading")) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(i18n.T("login.failed", m.err.Error())) + "\n")
	}
	return formBoxStyle.Render(b.String()) + "\n" + m.help.View(loginKeys)
}
