package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/internal/router"
)

type notFoundModel struct {
	path string
}

func newNotFoundModel(path string) notFoundModel {
	return notFoundModel{path: path}
}

func (m notFoundModel) Init() tea.Cmd { return nil }

func (m notFoundModel) Editing() bool { return false }

func (m notFoundModel) Help() string { return helpLine("enter", "dashboard") }

func (m notFoundModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "enter" {
		return m, navigate(router.HomePath, 0)
	}
	return m, nil
}

func (m notFoundModel) View() string {
	return "\n  " + titleStyle.Render("Page not found") + "\n\n  " +
		dimStyle.Render("nothing lives at ") + normalStyle.Render(m.path) + "\n"
}
