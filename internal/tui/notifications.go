package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

type notificationsLoadedMsg struct {
	items []domain.Notification
	err   error
}

type notificationsModel struct {
	env        env
	items      []domain.Notification
	unreadOnly bool
	cursor     int
	loading    bool
	err        string
	flash      flash
	height     int
}

func newNotificationsModel(e env) notificationsModel {
	return notificationsModel{env: e, loading: true}
}

func (m notificationsModel) Init() tea.Cmd { return m.load() }

func (m notificationsModel) load() tea.Cmd {
	c, unread := m.env.client, m.unreadOnly
	return func() tea.Msg {
		items, err := c.ListNotifications(context.Background(), domain.NotificationQuery{Unread: unread, Size: pageSize})
		return notificationsLoadedMsg{items: items, err: err}
	}
}

func (m notificationsModel) Editing() bool { return false }

func (m notificationsModel) Help() string {
	return helpLine("j/k", "nav", "enter", "read", "a", "read all", "d", "delete", "u", "unread only", "r", "refresh")
}

func (m notificationsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height

	case notificationsLoadedMsg:
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
		case "u":
			m.unreadOnly = !m.unreadOnly
			m.loading, m.cursor = true, 0
			return m, m.load()
		case "a":
			return m, func() tea.Msg {
				return actionDoneMsg{ok: "all notifications marked read", err: c.MarkAllNotificationsRead(context.Background())}
			}
		case "enter":
			if m.cursor < len(m.items) && !m.items[m.cursor].IsRead {
				id := m.items[m.cursor].ID
				return m, func() tea.Msg {
					_, err := c.MarkNotificationRead(context.Background(), id)
					return actionDoneMsg{ok: "marked read", err: err}
				}
			}
		case "d":
			if m.cursor < len(m.items) {
				id := m.items[m.cursor].ID
				return m, func() tea.Msg {
					return actionDoneMsg{ok: "notification deleted", err: c.DeleteNotification(context.Background(), id)}
				}
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m notificationsModel) View() string {
	var b strings.Builder
	title := "Notifications"
	if m.unreadOnly {
		title += " (unread)"
	}
	b.WriteString("\n  " + titleStyle.Render(title) + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("nothing here") + "\n")
	}
	for i, n := range m.items {
		mark := " "
		if !n.IsRead {
			mark = "*"
		}
		line := fmt.Sprintf("%s %-10s %-32s %s", mark, n.Type, truncStr(n.Title, 32), formatTime(n.CreatedAt))
		b.WriteString("  " + cursorRow(i == m.cursor, line) + "\n")
		if i == m.cursor && n.Content != "" {
			b.WriteString("      " + metaStyle.Render(truncStr(n.Content, 72)) + "\n")
		}
	}
	b.WriteString(m.flash.view())
	return b.String()
}
