package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// dashboardData is everything the dashboard shows, fetched together.
type dashboardData struct {
	today   []domain.Booking
	pending []domain.Booking
	unread  int
	balance *domain.Balance
	campus  *domain.Campus
}

type dashboardLoadedMsg struct {
	data dashboardData
	err  error
}

type dashboardModel struct {
	env    env
	data   dashboardData
	loaded bool
	err    string
	cursor int
	width  int
	height int
}

func newDashboardModel(e env) dashboardModel {
	return dashboardModel{env: e}
}

func (m dashboardModel) Init() tea.Cmd {
	return m.load()
}

// load fetches the dashboard panels in parallel. A failed panel is left empty
// without cancelling the others; the first error is reported once all finish.
func (m dashboardModel) load() tea.Cmd {
	c, user, logger := m.env.client, m.env.user, m.env.logger
	return func() tea.Msg {
		var data dashboardData
		var g errgroup.Group
		ctx := context.Background()

		g.Go(func() error {
			today, err := c.TodayBookings(ctx)
			if err != nil {
				return fmt.Errorf("today's bookings: %w", err)
			}
			data.today = today
			return nil
		})
		g.Go(func() error {
			n, err := c.UnreadCount(ctx)
			if err != nil {
				return fmt.Errorf("unread count: %w", err)
			}
			data.unread = n
			return nil
		})
		if user.IsStudent() {
			g.Go(func() error {
				bal, err := c.GetBalance(ctx)
				if err != nil {
					return fmt.Errorf("balance: %w", err)
				}
				data.balance = bal
				return nil
			})
		}
		if user.IsCoach() {
			g.Go(func() error {
				pending, err := c.PendingBookings(ctx, 0, pageSize)
				if err != nil {
					return fmt.Errorf("pending bookings: %w", err)
				}
				data.pending = pending
				return nil
			})
		}
		if user != nil && user.CampusID != nil {
			id := *user.CampusID
			g.Go(func() error {
				campus, err := c.GetCampus(ctx, id)
				if err != nil {
					return fmt.Errorf("campus: %w", err)
				}
				data.campus = campus
				return nil
			})
		}

		err := g.Wait()
		if err != nil {
			logger.Warn("dashboard load", zap.Error(err))
		}
		return dashboardLoadedMsg{data: data, err: err}
	}
}

func (m dashboardModel) Editing() bool { return false }

func (m dashboardModel) Help() string {
	if m.env.user.IsCoach() && len(m.data.pending) > 0 {
		return helpLine("j/k", "nav", "enter", "review", "r", "refresh")
	}
	return helpLine("r", "refresh")
}

func (m dashboardModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height

	case sessionMsg:
		if msg.User != nil {
			m.env.user = msg.User
		}

	case dashboardLoadedMsg:
		m.loaded = true
		m.data = msg.data
		m.err = ""
		if msg.err != nil {
			m.err = client.UserMessage(msg.err)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return m, m.load()
		case "enter":
			if m.env.user.IsCoach() && len(m.data.pending) > 0 {
				return m, navigate("/coach/bookings", 0)
			}
		default:
			m.cursor = moveCursor(msg.String(), m.cursor, len(m.data.pending))
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	u := m.env.user

	b.WriteString("\n  " + titleStyle.Render("Welcome back, "+u.DisplayName()) + "\n")
	if u != nil {
		line := "  " + RoleBadge(u.Role)
		if m.data.campus != nil {
			line += metaStyle.Render(" . ") + dimStyle.Render(m.data.campus.Name)
		}
		b.WriteString(line + "\n")
	}
	if !m.loaded {
		b.WriteString("\n  " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString("  " + errorStyle.Render("some panels failed to load: "+m.err) + "\n")
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("At a glance") + "\n")
	unread := dimStyle.Render("no unread notifications")
	if m.data.unread > 0 {
		unread = accentStyle.Render(fmt.Sprintf("%d unread notifications", m.data.unread))
	}
	b.WriteString("    " + unread + "\n")
	if m.data.balance != nil {
		b.WriteString("    " + dimStyle.Render("balance ") + selectedStyle.Render(money(m.data.balance.Balance)) + "\n")
	}

	b.WriteString("\n  " + sectionHeaderStyle.Render("Today's sessions") + "\n")
	if len(m.data.today) == 0 {
		b.WriteString("    " + dimStyle.Render("nothing scheduled today") + "\n")
	}
	for _, bk := range m.data.today {
		b.WriteString("    " + bookingLine(bk) + "\n")
	}

	if u.IsCoach() {
		b.WriteString("\n  " + sectionHeaderStyle.Render("Awaiting your answer") + "\n")
		if len(m.data.pending) == 0 {
			b.WriteString("    " + dimStyle.Render("no pending requests") + "\n")
		}
		for i, bk := range m.data.pending {
			b.WriteString("  " + cursorRow(i == m.cursor, plainBookingLine(bk)) + "\n")
		}
	}
	return b.String()
}

// bookingLine renders a booking with a colored status.
func bookingLine(bk domain.Booking) string {
	return normalStyle.Render(fmt.Sprintf("#%-5d %-23s table %-4s %s ",
		bk.ID, formatSlot(bk.StartTime, bk.EndTime), tableOrDash(bk.TableNumber), money(bk.TotalCost))) +
		bookingStatusStyle(bk.Status).Render(string(bk.Status))
}

func plainBookingLine(bk domain.Booking) string {
	return fmt.Sprintf("#%-5d %-23s table %-4s %s %s",
		bk.ID, formatSlot(bk.StartTime, bk.EndTime), tableOrDash(bk.TableNumber), money(bk.TotalCost), bk.Status)
}

func tableOrDash(t string) string {
	if t == "" {
		return "-"
	}
	return t
}
