package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/internal/session"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

type profileSavedMsg struct{ result session.Result }

type passwordChangedMsg struct{ result session.Result }

type profileMode int

const (
	profileView profileMode = iota
	profileEdit
	profilePassword
)

const (
	editRealName = iota
	editPhone
	editEmail
)

const (
	pwOld = iota
	pwNew
	pwConfirm
)

type profileModel struct {
	env     env
	mode    profileMode
	form    form
	pending bool
	flash   flash
}

func newProfileModel(e env) profileModel {
	return profileModel{env: e}
}

func (m profileModel) Init() tea.Cmd { return nil }

func (m profileModel) Editing() bool { return m.mode != profileView }

func (m profileModel) Help() string {
	if m.mode != profileView {
		return helpLine("tab", "next", "ctrl+s", "save", "esc", "cancel")
	}
	return helpLine("e", "edit", "p", "password")
}

func (m profileModel) editForm() form {
	u := m.env.user
	if u == nil {
		u = &domain.User{}
	}
	return newForm(
		formField{label: "real name", value: u.RealName},
		formField{label: "phone", value: u.Phone},
		formField{label: "email", value: u.Email, placeholder: "optional"},
	)
}

func passwordForm() form {
	return newForm(
		formField{label: "current", secret: true},
		formField{label: "new", secret: true, placeholder: "8-16 chars"},
		formField{label: "confirm", secret: true},
	)
}

// changes diffs the edit form against the loaded user.
func (m profileModel) changes() domain.UserUpdate {
	var upd domain.UserUpdate
	u := m.env.user
	if u == nil {
		return upd
	}
	if v := m.form.value(editRealName); v != "" && v != u.RealName {
		upd.RealName = &v
	}
	if v := m.form.value(editPhone); v != "" && v != u.Phone {
		upd.Phone = &v
	}
	if v := m.form.value(editEmail); v != u.Email {
		upd.Email = &v
	}
	return upd
}

func (m profileModel) submit() (pane, tea.Cmd) {
	store := m.env.session
	switch m.mode {
	case profileEdit:
		upd := m.changes()
		m.pending = true
		return m, func() tea.Msg {
			return profileSavedMsg{result: store.UpdateProfile(context.Background(), upd)}
		}
	case profilePassword:
		oldPw := m.form.fields[pwOld].value
		newPw := m.form.fields[pwNew].value
		switch {
		case len(newPw) < 8 || len(newPw) > 16:
			m.flash = flash{text: "password must be 8-16 characters", failed: true}
			return m, nil
		case newPw != m.form.fields[pwConfirm].value:
			m.flash = flash{text: "passwords do not match", failed: true}
			return m, nil
		}
		m.pending = true
		return m, func() tea.Msg {
			return passwordChangedMsg{result: store.ChangePassword(context.Background(), oldPw, newPw)}
		}
	}
	return m, nil
}

func (m profileModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		if msg.User != nil {
			m.env.user = msg.User
		}

	case profileSavedMsg:
		m.pending = false
		m.flash = flash{text: msg.result.Message, failed: !msg.result.OK}
		if msg.result.OK {
			m.mode = profileView
		}

	case passwordChangedMsg:
		// On success the session has already ended and the App is moving to login.
		m.pending = false
		m.flash = flash{text: msg.result.Message, failed: !msg.result.OK}
		m.form = m.form.set(pwOld, "")

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		if m.mode == profileView {
			switch msg.String() {
			case "e":
				m.mode, m.form, m.flash = profileEdit, m.editForm(), flash{}
			case "p":
				m.mode, m.form, m.flash = profilePassword, passwordForm(), flash{}
			}
			return m, nil
		}
		if msg.String() == "esc" {
			m.mode = profileView
			return m, nil
		}
		var action formAction
		m.form, action = m.form.update(msg)
		if action == formSubmit {
			return m.submit()
		}
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	switch m.mode {
	case profileEdit:
		b.WriteString("\n  " + titleStyle.Render("Edit profile") + "\n\n")
		b.WriteString(m.form.view())
	case profilePassword:
		b.WriteString("\n  " + titleStyle.Render("Change password") + "\n")
		b.WriteString("  " + dimStyle.Render("you will be signed out afterwards") + "\n\n")
		b.WriteString(m.form.view())
	default:
		u := m.env.user
		if u == nil {
			b.WriteString("\n  " + dimStyle.Render("not signed in") + "\n")
			return b.String()
		}
		b.WriteString("\n  " + titleStyle.Render(u.DisplayName()) + "  " + RoleBadge(u.Role) + "\n\n")
		row := func(label, value string) {
			if value == "" {
				value = "-"
			}
			b.WriteString("    " + dimStyle.Render(fmt.Sprintf("%-10s", label)) + normalStyle.Render(value) + "\n")
		}
		row("username", u.Username)
		row("real name", u.RealName)
		row("phone", u.Phone)
		row("email", u.Email)
		if u.CampusID != nil {
			row("campus", "#"+strconv.Itoa(*u.CampusID))
		}
		row("joined", formatTime(u.CreatedAt))
	}
	if m.pending {
		b.WriteString("\n  " + dimStyle.Render("saving...") + "\n")
	}
	b.WriteString(m.flash.view())
	return b.String()
}
