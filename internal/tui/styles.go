package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders the app name as a slow wave of orange light,
// dim clay (#5a2a10) to ball orange (#ff8a3d).
func renderShimmerLogo(frame int) string {
	const text = "COACHDESK"
	n := len(text)
	t := float64(frame)

	var b strings.Builder
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		phase := t*0.1 - x*3.0
		v := math.Sin(phase)*0.5 + 0.5
		v = v*0.8 + 0.2

		r := clampByte(90 + v*(255-90))
		g := clampByte(42 + v*(138-42))
		bl := clampByte(16 + v*(61-16))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		b.WriteString(s.Render(string(text[i])))
		if i < n-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8a3d"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff8a3d")).
			Bold(true)

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#8890a0")).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fbbf24"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#ff8a3d")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868")).
				Italic(true)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))
)

// roleColors maps roles to display colors.
var roleColors = map[domain.Role]lipgloss.Color{
	domain.RoleSuperAdmin:  lipgloss.Color("#c084e0"),
	domain.RoleCampusAdmin: lipgloss.Color("#60a5fa"),
	domain.RoleCoach:       lipgloss.Color("#34d474"),
	domain.RoleStudent:     lipgloss.Color("#ff8a3d"),
}

// RoleBadge renders a role label in its color.
func RoleBadge(r domain.Role) string {
	c, ok := roleColors[r]
	if !ok {
		c = lipgloss.Color("#8890a0")
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(r.Label())
}

// bookingStatusStyle colors a booking status.
func bookingStatusStyle(s domain.BookingStatus) lipgloss.Style {
	switch s {
	case domain.BookingPending:
		return warnStyle
	case domain.BookingConfirmed, domain.BookingCompleted:
		return successStyle
	case domain.BookingRejected, domain.BookingCancelled:
		return errorStyle
	}
	return dimStyle
}

// noticeStyle colors a status-line notice by level.
func noticeStyle(l notice.Level) lipgloss.Style {
	switch l {
	case notice.Success:
		return successStyle
	case notice.Warning:
		return warnStyle
	case notice.Error:
		return errorStyle
	}
	return normalStyle
}

func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpLine joins help entries given as key, label pairs.
func helpLine(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}
