package tui

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// formatTime renders a relative timestamp for list displays.
func formatTime(ts domain.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	d := time.Since(ts.Time)
	switch {
	case d < 0:
		return ts.Format("01-02 15:04")
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatSlot renders a session's start and end on one line.
func formatSlot(start, end domain.Timestamp) string {
	if start.IsZero() {
		return "-"
	}
	if end.IsZero() {
		return start.Format("01-02 15:04")
	}
	return start.Format("01-02 15:04") + "-" + end.Format("15:04")
}

func money(v float64) string {
	return fmt.Sprintf("¥%.2f", v)
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// cursorRow renders a list row, highlighted when selected.
func cursorRow(selected bool, text string) string {
	if selected {
		return selectedRowBg.Render(accentStyle.Render("> ") + selectedStyle.Render(text))
	}
	return "  " + normalStyle.Render(text)
}

// moveCursor applies j/k style navigation to cursor over n items.
func moveCursor(key string, cursor, n int) int {
	switch key {
	case "j", "down":
		if cursor < n-1 {
			cursor++
		}
	case "k", "up":
		if cursor > 0 {
			cursor--
		}
	case "home":
		cursor = 0
	case "end":
		if n > 0 {
			cursor = n - 1
		}
	}
	return cursor
}

// actionDoneMsg reports the outcome of a one-shot backend call made from a
// list pane. ok is what the status line shows on success.
type actionDoneMsg struct {
	ok  string
	err error
}

type copyResultMsg struct {
	what string
	err  error
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copyResultMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

// flash is the one-line outcome shown under a list.
type flash struct {
	text   string
	failed bool
}

func (f flash) view() string {
	if f.text == "" {
		return ""
	}
	if f.failed {
		return "\n  " + errorStyle.Render(f.text) + "\n"
	}
	return "\n  " + successStyle.Render(f.text) + "\n"
}

func flashFromAction(msg actionDoneMsg) flash {
	if msg.err != nil {
		return flash{text: client.UserMessage(msg.err), failed: true}
	}
	return flash{text: msg.ok}
}

func flashFromCopy(msg copyResultMsg) flash {
	if msg.err != nil {
		return flash{text: "clipboard unavailable: " + msg.err.Error(), failed: true}
	}
	return flash{text: msg.what + " copied"}
}
