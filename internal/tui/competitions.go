package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// competitionGroups are the skill groups a student can enter: A is the strongest.
var competitionGroups = []string{"A", "B", "C"}

type competitionsLoadedMsg struct {
	items []domain.Competition
	err   error
}

type competitionsModel struct {
	env     env
	items   []domain.Competition
	group   int
	cursor  int
	loading bool
	err     string
	flash   flash
}

func newCompetitionsModel(e env) competitionsModel {
	return competitionsModel{env: e, loading: true}
}

func (m competitionsModel) Init() tea.Cmd { return m.load() }

func (m competitionsModel) load() tea.Cmd {
	c, campus := m.env.client, 0
	if u := m.env.user; u != nil && u.CampusID != nil {
		campus = *u.CampusID
	}
	return func() tea.Msg {
		items, err := c.ListCompetitions(context.Background(), campus, "", 0, pageSize)
		return competitionsLoadedMsg{items: items, err: err}
	}
}

func (m competitionsModel) Editing() bool { return false }

func (m competitionsModel) Help() string {
	return helpLine("j/k", "nav", "g", "group", "enter", "register", "r", "refresh")
}

func (m competitionsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case competitionsLoadedMsg:
		m.loading = false
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
			return m, nil
		}
		m.items = msg.items

	case actionDoneMsg:
		m.flash = flashFromAction(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.load()
		case "g":
			m.group = (m.group + 1) % len(competitionGroups)
		case "enter":
			if m.cursor >= len(m.items) {
				return m, nil
			}
			comp, group, c := m.items[m.cursor], competitionGroups[m.group], m.env.client
			return m, func() tea.Msg {
				_, err := c.RegisterForCompetition(context.Background(), comp.ID, group)
				return actionDoneMsg{ok: fmt.Sprintf("registered for %s, group %s", comp.Name, group), err: err}
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m competitionsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Competitions") + "  " + dimStyle.Render("group ") +
		accentStyle.Render(competitionGroups[m.group]) + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no competitions scheduled") + "\n")
	}
	for i, c := range m.items {
		line := fmt.Sprintf("%-24s %s  fee %s  %s", truncStr(c.Name, 24), c.CompetitionDate.Format("2006-01-02"), money(c.RegistrationFee), c.Status)
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
		if i == m.cursor {
			b.WriteString("      " + metaStyle.Render("register by "+c.RegistrationDeadline.Format("2006-01-02 15:04")) + "\n")
			if c.Description != "" {
				b.WriteString("      " + metaStyle.Render(truncStr(c.Description, 72)) + "\n")
			}
		}
	}
	b.WriteString(m.flash.view())
	return b.String()
}
