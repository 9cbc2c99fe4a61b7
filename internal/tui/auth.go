package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/internal/router"
	"github.com/naveenspark/coachdesk/internal/session"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// -- messages --

type loginDoneMsg struct{ result session.Result }

type registerDoneMsg struct{ result session.Result }

// -- login --

const (
	loginUsername = iota
	loginPassword
)

type loginModel struct {
	env     env
	form    form
	pending bool
	message string
	failed  bool
}

func newLoginModel(e env) loginModel {
	return loginModel{
		env: e,
		form: newForm(
			formField{label: "username", placeholder: "your account"},
			formField{label: "password", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd { return nil }

func (m loginModel) Editing() bool { return true }

func (m loginModel) Help() string {
	return helpLine("tab", "next", "enter", "log in", "ctrl+r", "register")
}

func (m loginModel) submit() (pane, tea.Cmd) {
	username, password := m.form.value(loginUsername), m.form.fields[loginPassword].value
	if username == "" || password == "" {
		m.message, m.failed = "username and password are required", true
		return m, nil
	}
	m.pending = true
	m.message, m.failed = "logging in...", false
	store := m.env.session
	form := domain.LoginForm{Username: username, Password: password}
	return m, func() tea.Msg {
		return loginDoneMsg{result: store.Login(context.Background(), form)}
	}
}

func (m loginModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.pending = false
		m.message, m.failed = msg.result.Message, !msg.result.OK
		if msg.result.OK {
			return m, navigate(router.HomePath, 0)
		}
		m.form = m.form.set(loginPassword, "")
		m.form.focus = loginPassword
		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		if msg.String() == "ctrl+r" {
			return m, navigate(router.RegisterPath, 0)
		}
		var action formAction
		m.form, action = m.form.update(msg)
		if action == formSubmit {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Log in") + "\n\n")
	b.WriteString(m.form.view())
	if m.message != "" {
		style := dimStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString("\n  " + style.Render(m.message) + "\n")
	}
	return b.String()
}

// -- register --

const (
	regUsername = iota
	regPassword
	regConfirm
	regRealName
	regPhone
	regEmail
	regCampus
)

type registerModel struct {
	env     env
	form    form
	role    domain.Role
	pending bool
	message string
	failed  bool
}

func newRegisterModel(e env) registerModel {
	return registerModel{
		env:  e,
		role: domain.RoleStudent,
		form: newForm(
			formField{label: "username"},
			formField{label: "password", secret: true, placeholder: "8-16 chars, letters, digits and symbols"},
			formField{label: "confirm", secret: true},
			formField{label: "real name"},
			formField{label: "phone"},
			formField{label: "email", placeholder: "optional"},
			formField{label: "campus id", placeholder: "optional"},
		),
	}
}

func (m registerModel) Init() tea.Cmd { return nil }

func (m registerModel) Editing() bool { return true }

func (m registerModel) Help() string {
	return helpLine("tab", "next", "ctrl+t", "student/coach", "ctrl+s", "submit", "esc", "back")
}

func (m registerModel) validate() string {
	switch {
	case m.form.value(regUsername) == "":
		return "username is required"
	case len(m.form.fields[regPassword].value) < 8 || len(m.form.fields[regPassword].value) > 16:
		return "password must be 8-16 characters"
	case m.form.fields[regPassword].value != m.form.fields[regConfirm].value:
		return "passwords do not match"
	case m.form.value(regRealName) == "":
		return "real name is required"
	case m.form.value(regPhone) == "":
		return "phone is required"
	}
	if c := m.form.value(regCampus); c != "" {
		if _, err := strconv.Atoi(c); err != nil {
			return "campus id must be a number"
		}
	}
	return ""
}

func (m registerModel) submit() (pane, tea.Cmd) {
	if problem := m.validate(); problem != "" {
		m.message, m.failed = problem, true
		return m, nil
	}
	form := domain.RegisterForm{
		Username: m.form.value(regUsername),
		Password: m.form.fields[regPassword].value,
		RealName: m.form.value(regRealName),
		Phone:    m.form.value(regPhone),
		Email:    m.form.value(regEmail),
	}
	if c := m.form.value(regCampus); c != "" {
		id, _ := strconv.Atoi(c) //nolint:errcheck // validated above
		form.CampusID = &id
	}
	m.pending = true
	m.message, m.failed = "submitting...", false
	store, role := m.env.session, m.role
	return m, func() tea.Msg {
		return registerDoneMsg{result: store.Register(context.Background(), form, role)}
	}
}

func (m registerModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.pending = false
		m.message, m.failed = msg.result.Message, !msg.result.OK
		if msg.result.OK {
			return m, navigate(router.LoginPath, 0)
		}
		return m, nil

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, navigate(router.LoginPath, 0)
		case "ctrl+t":
			if m.role == domain.RoleStudent {
				m.role = domain.RoleCoach
			} else {
				m.role = domain.RoleStudent
			}
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

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Register") + "  " + dimStyle.Render("as ") + RoleBadge(m.role) + "\n\n")
	b.WriteString(m.form.view())
	if m.message != "" {
		style := dimStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString("\n  " + style.Render(m.message) + "\n")
	}
	return b.String()
}
