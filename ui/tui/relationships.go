// Copyright (c) 2026 Keymaster Team
// Trustdesk - trust relationship client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/trustdesk/internal/i18n"
	"github.com/toeirei/trustdesk/internal/listing"
	"github.com/toeirei/trustdesk/internal/logging"
	"github.com/toeirei/trustdesk/internal/model"
	"github.com/toeirei/trustdesk/internal/session"
	"github.com/toeirei/trustdesk/util/slicest"
)

type relationshipsModel struct {
	ctx       context.Context
	session   *session.Store
	store     *listing.Store
	clipboard func(string) error

	table     table.Model
	spinner   spinner.Model
	search    textinput.Model
	help      help.Model
	searching bool
	state     listing.State
	rows      []model.TrustRelationship // visible rows backing the table
	status    string
	width     int
}

func newRelationshipsModel(ctx context.Context, d Deps) relationshipsModel {
	cols := make([]table.Column, len(listing.Columns))
	for i, c := range listing.Columns {
		cols[i] = table.Column{Title: c.Title(), Width: c.Width}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = focusedStyle

	search := textinput.New()
	search.Prompt = "/"
	search.CharLimit = 64

	m := relationshipsModel{
		ctx:       ctx,
		session:   d.Session,
		store:     d.Listing,
		clipboard: d.Clipboard,
		table:     t,
		spinner:   sp,
		search:    search,
		help:      help.New(),
	}
	m.sync(d.Listing.Snapshot())
	return m
}

func (m *relationshipsModel) setSize(width, height int) {
	m.width = width
	m.help.Width = width
	// title(2) + filter(2) + detail(2) + footer(2) + help(2) + margins(2)
	if h := height - 12; h > 3 {
		m.table.SetHeight(h)
	}
	m.table.SetWidth(width - 4)
}

// sync copies st into the table.
func (m *relationshipsModel) sync(st listing.State) {
	m.state = st
	m.rows = st.VisibleRows()
	rows := slicest.Map(m.rows, func(r model.TrustRelationship) table.Row {
		return slicest.Map(listing.Columns, func(c listing.Column) string {
			if c.Name == "state" {
				if o, ok := listing.Lookup(listing.StatesList, r.State); ok {
					return o.LocalLabel()
				}
			}
			return c.Render(r)
		})
	})
	m.table.SetRows(rows)
	// an empty table leaves the cursor at -1; pull it back once rows arrive
	if n := len(rows); n > 0 {
		if c := m.table.Cursor(); c < 0 || c >= n {
			m.table.SetCursor(min(max(c, 0), n-1))
		}
	}
}

func (m relationshipsModel) selected() (model.TrustRelationship, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.rows) {
		return model.TrustRelationship{}, false
	}
	return m.rows[i], true
}

func (m relationshipsModel) Update(msg tea.Msg) (relationshipsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *relationshipsModel) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	st := m.state
	switch {
	case key.Matches(msg, listKeys.Quit):
		return tea.Quit, true
	case key.Matches(msg, listKeys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, listKeys.Next):
		if st.HasNext() {
			m.apply(m.store.SetPagination(st.Pagination.Next()))
		}
	case key.Matches(msg, listKeys.Prev):
		if st.Pagination.Offset > 0 {
			m.apply(m.store.SetPagination(st.Pagination.Prev()))
		}
	case key.Matches(msg, listKeys.State):
		f := st.Filter
		f.State = model.State(listing.Cycle(listing.StatesList, string(f.State)))
		m.apply(m.setFilter(f))
	case key.Matches(msg, listKeys.Type):
		f := st.Filter
		f.Type = model.Type(listing.Cycle(listing.TypeList, string(f.Type)))
		m.apply(m.setFilter(f))
	case key.Matches(msg, listKeys.RequestType):
		f := st.Filter
		f.RequestType = model.RequestType(listing.Cycle(listing.RequestTypeList, string(f.RequestType)))
		m.apply(m.setFilter(f))
	case key.Matches(msg, listKeys.Clear):
		m.apply(m.setFilter(listing.DefaultFilter()))
		m.store.SetSearchString("")
	case key.Matches(msg, listKeys.Search):
		m.searching = true
		m.search.SetValue(st.SearchString)
		return m.search.Focus(), true
	case key.Matches(msg, listKeys.Refresh):
		m.store.Refresh()
	case key.Matches(msg, listKeys.Copy):
		if row, ok := m.selected(); ok {
			if err := m.clipboard(string(row.ID)); err != nil {
				m.status = errorStyle.Render(err.Error())
			} else {
				m.status = successStyle.Render(i18n.T("listing.copied", row.ID))
			}
		}
	case key.Matches(msg, listKeys.Logout):
		m.session.Logout(m.ctx)
	default:
		return nil, false
	}
	return nil, true
}

// setFilter changes the filter and goes back to the first page, since the
// current offset may lie past the filtered total.
func (m *relationshipsModel) setFilter(f model.Filter) error {
	return m.store.SetQuery(model.Pagination{Limit: m.state.Pagination.Limit}, f)
}

func (m *relationshipsModel) apply(err error) {
	if err != nil {
		logging.Warnf("tui: %v", err)
		m.status = errorStyle.Render(err.Error())
	}
}

func (m relationshipsModel) updateSearch(msg tea.KeyMsg) (relationshipsModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.store.SetSearchString(m.search.Value())
		return m, nil
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m relationshipsModel) filterLine() string {
	label := func(list []listing.Option, v string) string {
		if v == "" {
			return i18n.T("all")
		}
		if o, ok := listing.Lookup(list, v); ok {
			return o.LocalLabel()
		}
		return v
	}
	f := m.state.Filter
	return i18n.T("listing.filter",
		label(listing.StatesList, string(f.State)),
		label(listing.TypeList, string(f.Type)),
		label(listing.RequestTypeList, string(f.RequestType)))
}

func (m relationshipsModel) View() string {
	var b strings.Builder
	title := i18n.T("listing.title")
	if w := m.session.Wallet(); w != nil {
		title += " · " + w.Name
	}
	b.WriteString(titleStyle.Render(title) + "\n\n")
	b.WriteString(helpStyle.Render(m.filterLine()) + "\n")
	switch {
	case m.searching:
		b.WriteString(m.search.View() + "\n")
	case m.state.SearchString != "":
		b.WriteString(helpStyle.Render(i18n.T("listing.search", m.state.SearchString)) + "\n")
	default:
		b.WriteString("\n")
	}

	if len(m.rows) == 0 && !m.state.IsLoading {
		b.WriteString(helpStyle.Render(i18n.T("listing.empty")) + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	if row, ok := m.selected(); ok {
		if o, found := listing.Lookup(listing.StatesList, row.State); found {
			b.WriteString(o.Style().Render(fmt.Sprintf("● %s", o.LocalLabel())) + "  ")
		}
		b.WriteString(helpStyle.Render(fmt.Sprintf("%s → %s", row.OriginatingWallet, row.TargetWallet)) + "\n")
	}

	left := m.status
	switch {
	case m.state.IsLoading:
		left = m.spinner.View() + " " + i18n.T("listing.loading")
	case m.state.Message != "":
		left = errorStyle.Render(m.state.Message)
	}
	from, to, total := m.state.Range()
	right := statusMessageStyle.Render(i18n.T("listing.range", from, to, total))
	b.WriteString("\n" + AlignFooter(left, right, m.width-4) + "\n")
	b.WriteString(m.help.View(listKeys))
	return b.String()
}
