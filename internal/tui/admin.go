package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// -- users --

type usersLoadedMsg struct {
	items []domain.User
	err   error
}

// userRoleFilters is the cycle order of the role filter; "" means every role.
var userRoleFilters = append([]domain.Role{""}, domain.Roles...)

type usersModel struct {
	env     env
	items   []domain.User
	role    int
	cursor  int
	loading bool
	err     string
	flash   flash
}

func newUsersModel(e env) usersModel {
	return usersModel{env: e, loading: true}
}

func (m usersModel) Init() tea.Cmd { return m.load() }

func (m usersModel) load() tea.Cmd {
	c, q := m.env.client, client.UserQuery{Role: userRoleFilters[m.role], Limit: pageSize}
	return func() tea.Msg {
		items, err := c.ListUsers(context.Background(), q)
		return usersLoadedMsg{items: items, err: err}
	}
}

func (m usersModel) Editing() bool { return false }

func (m usersModel) Help() string {
	return helpLine("j/k", "nav", "t", "enable/disable", "p", "reset password", "f", "role", "r", "refresh")
}

func (m usersModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}

	case actionDoneMsg:
		m.flash = flashFromAction(msg)
		if msg.err == nil {
			return m, m.load()
		}

	case tea.KeyMsg:
		c := m.env.client
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "f":
			m.role = (m.role + 1) % len(userRoleFilters)
			m.loading, m.cursor = true, 0
			return m, m.load()
		case "t":
			if m.cursor < len(m.items) {
				u := m.items[m.cursor]
				if m.env.user != nil && u.ID == m.env.user.ID {
					m.flash = flash{text: "you cannot disable your own account", failed: true}
					return m, nil
				}
				return m, func() tea.Msg {
					return actionDoneMsg{ok: "status changed for " + u.Username, err: c.ToggleUserStatus(context.Background(), u.ID)}
				}
			}
		case "p":
			if m.cursor < len(m.items) {
				u := m.items[m.cursor]
				return m, func() tea.Msg {
					return actionDoneMsg{ok: "password reset for " + u.Username, err: c.ResetUserPassword(context.Background(), u.ID)}
				}
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m usersModel) View() string {
	var b strings.Builder
	filter := "all roles"
	if r := userRoleFilters[m.role]; r != "" {
		filter = r.Label()
	}
	b.WriteString("\n  " + titleStyle.Render("Users") + "  " + dimStyle.Render(filter) + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no users") + "\n")
	}
	for i, u := range m.items {
		state := "active"
		if u.IsActive == 0 {
			state = "disabled"
		}
		line := fmt.Sprintf("#%-4d %-14s %-12s %-12s %-13s %s", u.ID, truncStr(u.Username, 14), truncStr(u.RealName, 12), u.Role.Label(), u.Phone, state)
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
	}
	b.WriteString(m.flash.view())
	return b.String()
}

// -- campuses --

type campusesLoadedMsg struct {
	items []domain.Campus
	err   error
}

const (
	campusName = iota
	campusAddress
	campusContact
	campusPhone
	campusEmail
)

type campusModel struct {
	env      env
	items    []domain.Campus
	cursor   int
	loading  bool
	err      string
	flash    flash
	creating bool
	form     form
	armed    int // campus ID awaiting a second "d" to delete
}

func newCampusModel(e env) campusModel {
	return campusModel{env: e, loading: true}
}

func (m campusModel) Init() tea.Cmd { return m.load() }

func (m campusModel) load() tea.Cmd {
	c := m.env.client
	return func() tea.Msg {
		items, err := c.ListCampuses(context.Background(), "", 0, pageSize)
		return campusesLoadedMsg{items: items, err: err}
	}
}

func (m campusModel) Editing() bool { return m.creating }

func (m campusModel) Help() string {
	if m.creating {
		return helpLine("tab", "next", "ctrl+s", "create", "esc", "cancel")
	}
	return helpLine("j/k", "nav", "n", "new", "d", "delete", "r", "refresh")
}

func campusForm() form {
	return newForm(
		formField{label: "name"},
		formField{label: "address"},
		formField{label: "contact"},
		formField{label: "phone"},
		formField{label: "email", placeholder: "optional"},
	)
}

func (m campusModel) create() (pane, tea.Cmd) {
	in := domain.CampusInput{
		Name:          m.form.value(campusName),
		Address:       m.form.value(campusAddress),
		ContactPerson: m.form.value(campusContact),
		ContactPhone:  m.form.value(campusPhone),
		ContactEmail:  m.form.value(campusEmail),
	}
	if in.Name == "" || in.Address == "" || in.ContactPerson == "" || in.ContactPhone == "" {
		m.flash = flash{text: "name, address, contact and phone are required", failed: true}
		return m, nil
	}
	m.creating = false
	c := m.env.client
	return m, func() tea.Msg {
		_, err := c.CreateCampus(context.Background(), in)
		return actionDoneMsg{ok: "campus " + in.Name + " created", err: err}
	}
}

func (m campusModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case campusesLoadedMsg:
		m.loading = false
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.items = msg.items
		if m.cursor >= len(m.items) {
			m.cursor = max(len(m.items)-1, 0)
		}

	case actionDoneMsg:
		m.flash = flashFromAction(msg)
		if msg.err == nil {
			return m, m.load()
		}

	case tea.KeyMsg:
		if m.creating {
			if msg.String() == "esc" {
				m.creating = false
				return m, nil
			}
			var action formAction
			m.form, action = m.form.update(msg)
			if action == formSubmit {
				return m.create()
			}
			return m, nil
		}
		key := msg.String()
		if key != "d" {
			m.armed = 0
		}
		switch key {
		case "r":
			m.loading = true
			return m, m.load()
		case "n":
			m.creating, m.form, m.flash = true, campusForm(), flash{}
		case "d":
			if m.cursor >= len(m.items) {
				return m, nil
			}
			cp := m.items[m.cursor]
			if cp.IsMainCampus == 1 {
				m.flash = flash{text: "the main campus cannot be deleted", failed: true}
				return m, nil
			}
			if m.armed != cp.ID {
				m.armed = cp.ID
				m.flash = flash{text: "press d again to delete " + cp.Name}
				return m, nil
			}
			m.armed = 0
			c := m.env.client
			return m, func() tea.Msg {
				return actionDoneMsg{ok: "campus " + cp.Name + " deleted", err: c.DeleteCampus(context.Background(), cp.ID)}
			}
		default:
			m.cursor = moveCursor(key, m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m campusModel) View() string {
	var b strings.Builder
	if m.creating {
		b.WriteString("\n  " + titleStyle.Render("New campus") + "\n\n")
		b.WriteString(m.form.view())
		b.WriteString(m.flash.view())
		return b.String()
	}
	b.WriteString("\n  " + titleStyle.Render("Campuses") + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no campuses") + "\n")
	}
	for i, cp := range m.items {
		name := cp.Name
		if cp.IsMainCampus == 1 {
			name += " (main)"
		}
		line := fmt.Sprintf("#%-4d %-24s %-10s %s", cp.ID, truncStr(name, 24), truncStr(cp.ContactPerson, 10), cp.ContactPhone)
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
		if i == m.cursor && cp.Address != "" {
			b.WriteString("      " + metaStyle.Render(truncStr(cp.Address, 72)) + "\n")
		}
	}
	b.WriteString(m.flash.view())
	return b.String()
}
