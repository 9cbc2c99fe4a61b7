package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

type coachesLoadedMsg struct {
	items []domain.Coach
	err   error
}

// coachLevels is the cycle order of the level filter; "" means any level.
var coachLevels = []domain.CoachLevel{"", domain.CoachSenior, domain.CoachIntermediate, domain.CoachJunior}

type coachesModel struct {
	env     env
	items   []domain.Coach
	level   int
	cursor  int
	loading bool
	err     string
	flash   flash
}

func newCoachesModel(e env) coachesModel {
	return coachesModel{env: e, loading: true}
}

func (m coachesModel) Init() tea.Cmd { return m.load() }

func (m coachesModel) load() tea.Cmd {
	c := m.env.client
	q := domain.CoachQuery{Level: coachLevels[m.level], Limit: pageSize}
	if u := m.env.user; u != nil && u.CampusID != nil {
		q.CampusID = *u.CampusID
	}
	return func() tea.Msg {
		items, err := c.ListCoaches(context.Background(), q)
		return coachesLoadedMsg{items: items, err: err}
	}
}

func (m coachesModel) Editing() bool { return false }

func (m coachesModel) Help() string {
	if m.isStudent() {
		return helpLine("j/k", "nav", "b", "book", "a", "apply", "f", "level", "r", "refresh")
	}
	return helpLine("j/k", "nav", "b", "book", "f", "level", "r", "refresh")
}

func (m coachesModel) isStudent() bool {
	return m.env.user != nil && m.env.user.Role == domain.RoleStudent
}

// apply asks the selected coach to take the signed-in student on.
func (m coachesModel) apply(coach domain.Coach) tea.Cmd {
	c := m.env.client
	return func() tea.Msg {
		_, err := c.ApplyCoach(context.Background(), domain.CoachStudentCreate{CoachID: coach.ID})
		return actionDoneMsg{ok: "application sent, waiting for the coach", err: err}
	}
}

func (m coachesModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case coachesLoadedMsg:
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
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "a":
			if !m.isStudent() || m.cursor >= len(m.items) {
				return m, nil
			}
			coach := m.items[m.cursor]
			if !coach.HasCapacity() {
				m.flash = flash{text: "this coach is not taking new students", failed: true}
				return m, nil
			}
			return m, m.apply(coach)
		case "f":
			m.level = (m.level + 1) % len(coachLevels)
			m.loading, m.cursor = true, 0
			return m, m.load()
		case "b", "enter":
			if m.cursor < len(m.items) {
				return m, navigate("/student/booking", m.items[m.cursor].ID)
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m coachesModel) View() string {
	var b strings.Builder
	filter := "all levels"
	if l := coachLevels[m.level]; l != "" {
		filter = string(l)
	}
	b.WriteString("\n  " + titleStyle.Render("Coaches") + "  " + dimStyle.Render(filter) + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no coaches found") + "\n")
	}
	for i, c := range m.items {
		name := "coach #" + fmt.Sprint(c.ID)
		if c.User != nil {
			name = c.User.DisplayName()
		}
		seats := fmt.Sprintf("%d/%d", c.CurrentStudents, c.MaxStudents)
		line := fmt.Sprintf("#%-4d %-16s %-12s %s/h  students %s", c.ID, truncStr(name, 16), c.Level, money(c.HourlyRate), seats)
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
		if i == m.cursor {
			if !c.HasCapacity() {
				b.WriteString("      " + warnStyle.Render("not taking new students") + "\n")
			}
			if c.Achievements != "" {
				b.WriteString("      " + metaStyle.Render(truncStr(c.Achievements, 72)) + "\n")
			}
		}
	}
	b.WriteString(m.flash.view())
	return b.String()
}

// -- coach's students --

type studentsLoadedMsg struct {
	items []domain.Student
	err   error
}

type coachStudentsModel struct {
	env     env
	items   []domain.Student
	cursor  int
	loading bool
	err     string
	flash   flash
}

func newCoachStudentsModel(e env) coachStudentsModel {
	return coachStudentsModel{env: e, loading: true}
}

func (m coachStudentsModel) Init() tea.Cmd { return m.load() }

func (m coachStudentsModel) load() tea.Cmd {
	c := m.env.client
	return func() tea.Msg {
		items, err := c.GetMyStudents(context.Background())
		return studentsLoadedMsg{items: items, err: err}
	}
}

func (m coachStudentsModel) Editing() bool { return false }

func (m coachStudentsModel) Help() string {
	return helpLine("j/k", "nav", "c", "copy phone", "r", "refresh")
}

func (m coachStudentsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case studentsLoadedMsg:
		m.loading = false
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.items = msg.items

	case copyResultMsg:
		m.flash = flashFromCopy(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "c":
			if m.cursor < len(m.items) && m.items[m.cursor].User != nil && m.items[m.cursor].User.Phone != "" {
				return m, copyCmd("phone number", m.items[m.cursor].User.Phone)
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m coachStudentsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("My students") + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no students yet") + "\n")
	}
	for i, s := range m.items {
		name, phone := "student #"+fmt.Sprint(s.ID), "-"
		if s.User != nil {
			name = s.User.DisplayName()
			if s.User.Phone != "" {
				phone = s.User.Phone
			}
		}
		line := fmt.Sprintf("#%-4d %-16s %-14s coaches %d/%d", s.ID, truncStr(name, 16), phone, s.CurrentCoaches, s.MaxCoaches)
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
	}
	b.WriteString(m.flash.view())
	return b.String()
}
