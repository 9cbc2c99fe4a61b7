package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

const (
	evalContent = iota
	evalRating
)

type pendingEvaluationsMsg struct {
	items []domain.PendingEvaluation
	err   error
}

// evaluationsModel lists completed sessions still awaiting the coach's
// evaluation and writes one for the selected session.
type evaluationsModel struct {
	env     env
	items   []domain.PendingEvaluation
	cursor  int
	loading bool
	err     string
	flash   flash

	writing bool
	pending bool
	form    form
}

func newEvaluationsModel(e env) evaluationsModel {
	return evaluationsModel{env: e, loading: true}
}

func newEvaluationForm() form {
	return newForm(
		formField{label: "evaluation", placeholder: "how did the session go?"},
		formField{label: "rating", placeholder: "1-5, optional"},
	)
}

func (m evaluationsModel) Init() tea.Cmd { return m.load() }

func (m evaluationsModel) load() tea.Cmd {
	c := m.env.client
	return func() tea.Msg {
		items, err := c.PendingEvaluations(context.Background())
		return pendingEvaluationsMsg{items: items, err: err}
	}
}

func (m evaluationsModel) Editing() bool { return m.writing }

func (m evaluationsModel) Help() string {
	if m.writing {
		return helpLine("tab", "next", "ctrl+s", "submit", "esc", "back")
	}
	return helpLine("j/k", "nav", "enter", "evaluate", "r", "refresh")
}

// request validates the form against the selected session.
func (m evaluationsModel) request() (domain.EvaluationCreate, error) {
	if m.cursor >= len(m.items) {
		return domain.EvaluationCreate{}, fmt.Errorf("no session selected")
	}
	req := domain.EvaluationCreate{
		CourseID: m.items[m.cursor].CourseID,
		Content:  m.form.value(evalContent),
	}
	if s := m.form.value(evalRating); s != "" {
		r, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("rating must be a whole number")
		}
		req.Rating = &r
	}
	return req, req.Validate()
}

func (m evaluationsModel) updateForm(msg tea.KeyMsg) (pane, tea.Cmd) {
	if m.pending {
		return m, nil
	}
	if msg.String() == "esc" {
		m.writing = false
		return m, nil
	}
	var action formAction
	m.form, action = m.form.update(msg)
	if action != formSubmit {
		return m, nil
	}
	req, err := m.request()
	if err != nil {
		m.flash = flash{text: err.Error(), failed: true}
		return m, nil
	}
	m.pending = true
	c := m.env.client
	return m, func() tea.Msg {
		_, err := c.CreateEvaluation(context.Background(), req)
		return actionDoneMsg{ok: "evaluation saved", err: err}
	}
}

func (m evaluationsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case pendingEvaluationsMsg:
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
		m.pending = false
		m.flash = flashFromAction(msg)
		if msg.err == nil {
			m.writing = false
			m.loading = true
			return m, m.load()
		}

	case tea.KeyMsg:
		if m.writing {
			return m.updateForm(msg)
		}
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "enter", "e":
			if m.cursor < len(m.items) {
				m.writing, m.form, m.flash = true, newEvaluationForm(), flash{}
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m evaluationsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Awaiting evaluation") + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("every session has been evaluated") + "\n")
	}
	var viewer domain.Role
	if m.env.user != nil {
		viewer = m.env.user.Role
	}
	for i, p := range m.items {
		line := fmt.Sprintf("BK-%06d %-18s %s", p.BookingID, formatSlot(p.Booking.StartTime, p.Booking.EndTime), truncStr(p.Counterpart(viewer), 16))
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
	}
	if m.writing {
		b.WriteString("\n" + m.form.view())
		if m.pending {
			b.WriteString("  " + dimStyle.Render("saving...") + "\n")
		}
	}
	b.WriteString(m.flash.view())
	return b.String()
}
