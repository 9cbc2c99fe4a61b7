package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
)

// bookingsMode selects whose bookings a bookingsModel lists and what it can do with them.
type bookingsMode int

const (
	bookingsStudent bookingsMode = iota
	bookingsCoach
)

type bookingsLoadedMsg struct {
	items []domain.Booking
	err   error
}

type bookingsModel struct {
	env     env
	mode    bookingsMode
	week    bool // coach only: this week's schedule instead of pending requests
	items   []domain.Booking
	cursor  int
	loading bool
	err     string
	flash   flash

	// reason prompt, open while cancelling or rejecting
	prompt     bool
	promptVerb string
	reason     string
}

func newBookingsModel(e env, mode bookingsMode) bookingsModel {
	return bookingsModel{env: e, mode: mode, loading: true}
}

func (m bookingsModel) Init() tea.Cmd { return m.load() }

func (m bookingsModel) load() tea.Cmd {
	c, mode, week := m.env.client, m.mode, m.week
	return func() tea.Msg {
		ctx := context.Background()
		var items []domain.Booking
		var err error
		switch {
		case mode == bookingsStudent:
			items, err = c.MyBookings(ctx, "", 0, pageSize)
		case week:
			items, err = c.WeekBookings(ctx)
		default:
			items, err = c.PendingBookings(ctx, 0, pageSize)
		}
		return bookingsLoadedMsg{items: items, err: err}
	}
}

func (m bookingsModel) Editing() bool { return m.prompt }

func (m bookingsModel) Help() string {
	if m.prompt {
		return helpLine("enter", m.promptVerb, "esc", "back")
	}
	switch {
	case m.mode == bookingsStudent:
		return helpLine("j/k", "nav", "x", "cancel", "c", "copy ref", "r", "refresh")
	case m.week:
		return helpLine("j/k", "nav", "w", "pending", "c", "copy ref", "r", "refresh")
	}
	return helpLine("j/k", "nav", "y", "confirm", "n", "reject", "w", "this week", "r", "refresh")
}

func (m bookingsModel) selected() (domain.Booking, bool) {
	if m.cursor < len(m.items) {
		return m.items[m.cursor], true
	}
	return domain.Booking{}, false
}

func (m bookingsModel) answer(id int, action, message string) tea.Cmd {
	c := m.env.client
	ok := "booking confirmed"
	if action == "reject" {
		ok = "booking rejected"
	}
	return func() tea.Msg {
		_, err := c.ConfirmBooking(context.Background(), id, domain.BookingConfirmation{Action: action, Message: message})
		return actionDoneMsg{ok: ok, err: err}
	}
}

func (m bookingsModel) cancel(id int, reason string) tea.Cmd {
	c := m.env.client
	return func() tea.Msg {
		_, err := c.CancelBooking(context.Background(), id, reason)
		return actionDoneMsg{ok: "cancellation requested", err: err}
	}
}

func (m bookingsModel) updatePrompt(msg tea.KeyMsg) (pane, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = false
	case "enter":
		m.prompt = false
		bk, ok := m.selected()
		if !ok {
			return m, nil
		}
		reason := strings.TrimSpace(m.reason)
		if m.promptVerb == "reject" {
			return m, m.answer(bk.ID, "reject", reason)
		}
		if reason == "" {
			m.flash = flash{text: "a cancellation reason is required", failed: true}
			return m, nil
		}
		return m, m.cancel(bk.ID, reason)
	default:
		m.reason = editRune(m.reason, msg.String())
	}
	return m, nil
}

func (m bookingsModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case bookingsLoadedMsg:
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

	case copyResultMsg:
		m.flash = flashFromCopy(msg)

	case tea.KeyMsg:
		if m.prompt {
			return m.updatePrompt(msg)
		}
		bk, ok := m.selected()
		switch key := msg.String(); {
		case key == "r":
			m.loading = true
			return m, m.load()
		case key == "c" && ok:
			return m, copyCmd("booking reference", bk.Reference())
		case key == "x" && ok && m.mode == bookingsStudent:
			if bk.Status != domain.BookingPending && bk.Status != domain.BookingConfirmed {
				m.flash = flash{text: "only pending or confirmed bookings can be cancelled", failed: true}
				return m, nil
			}
			m.prompt, m.promptVerb, m.reason = true, "cancel", ""
		case key == "y" && ok && m.mode == bookingsCoach && !m.week:
			return m, m.answer(bk.ID, "confirm", "")
		case key == "n" && ok && m.mode == bookingsCoach && !m.week:
			m.prompt, m.promptVerb, m.reason = true, "reject", ""
		case key == "w" && m.mode == bookingsCoach:
			m.week = !m.week
			m.loading, m.cursor, m.items = true, 0, nil
			return m, m.load()
		default:
			m.cursor = moveCursor(key, m.cursor, len(m.items))
		}
	}
	return m, nil
}

func (m bookingsModel) title() string {
	switch {
	case m.mode == bookingsStudent:
		return "My bookings"
	case m.week:
		return "This week"
	}
	return "Pending requests"
}

func (m bookingsModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render(m.title()) + "\n\n")
	switch {
	case m.loading && len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString("  " + errorStyle.Render(m.err) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + dimStyle.Render("no bookings") + "\n")
	}
	for i, bk := range m.items {
		b.WriteString("  " + cursorRow(i == m.cursor, plainBookingLine(bk)) + "\n")
		if i != m.cursor {
			continue
		}
		if bk.BookingMessage != "" {
			b.WriteString("      " + metaStyle.Render("note: "+truncStr(bk.BookingMessage, 64)) + "\n")
		}
		if bk.ResponseMessage != "" {
			b.WriteString("      " + metaStyle.Render("reply: "+truncStr(bk.ResponseMessage, 64)) + "\n")
		}
		if bk.CancellationReason != "" {
			b.WriteString("      " + metaStyle.Render("cancelled: "+truncStr(bk.CancellationReason, 60)) + "\n")
		}
	}
	if m.prompt {
		b.WriteString("\n  " + inputPromptStyle.Render(m.promptVerb+" reason ") + normalStyle.Render(m.reason) + accentStyle.Render("█") + "\n")
	}
	b.WriteString(m.flash.view())
	return b.String()
}

// -- book a session --

const (
	bookCoach = iota
	bookStart
	bookHours
	bookTable
	bookMessage
)

// bookingLayout is how session start times are typed in the booking form.
const bookingLayout = "2006-01-02 15:04"

type bookingCreatedMsg struct {
	booking *domain.Booking
	err     error
}

type bookFormModel struct {
	env     env
	form    form
	pending bool
	flash   flash
	created *domain.Booking
}

func newBookFormModel(e env, coachID int) bookFormModel {
	coach := ""
	if coachID > 0 {
		coach = strconv.Itoa(coachID)
	}
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	f := newForm(
		formField{label: "coach id", value: coach},
		formField{label: "start", value: start.Format(bookingLayout), placeholder: bookingLayout},
		formField{label: "hours", value: "1"},
		formField{label: "table", placeholder: "optional"},
		formField{label: "message", placeholder: "optional"},
	)
	if coach != "" {
		f.focus = bookStart
	}
	return bookFormModel{env: e, form: f}
}

func (m bookFormModel) Init() tea.Cmd { return nil }

func (m bookFormModel) Editing() bool { return !m.pending }

func (m bookFormModel) Help() string {
	return helpLine("tab", "next", "ctrl+s", "book", "esc", "coaches")
}

// request validates the form and builds the booking payload.
func (m bookFormModel) request() (domain.BookingCreate, error) {
	var req domain.BookingCreate
	u := m.env.user
	if u == nil {
		return req, fmt.Errorf("please log in first")
	}
	coachID, err := strconv.Atoi(m.form.value(bookCoach))
	if err != nil || coachID <= 0 {
		return req, fmt.Errorf("coach id must be a positive number")
	}
	start, err := time.ParseInLocation(bookingLayout, m.form.value(bookStart), time.Local)
	if err != nil {
		return req, fmt.Errorf("start must look like %s", bookingLayout)
	}
	hours, err := strconv.ParseFloat(m.form.value(bookHours), 64)
	if err != nil || hours <= 0 || hours > 8 {
		return req, fmt.Errorf("hours must be between 0 and 8")
	}
	end := start.Add(time.Duration(hours * float64(time.Hour)))
	req = domain.BookingCreate{
		CoachID:        coachID,
		StudentID:      u.ID,
		StartTime:      start.Format("2006-01-02T15:04:05"),
		EndTime:        end.Format("2006-01-02T15:04:05"),
		DurationHours:  hours,
		TableNumber:    m.form.value(bookTable),
		BookingMessage: m.form.value(bookMessage),
	}
	if u.CampusID != nil {
		req.CampusID = *u.CampusID
	}
	return req, nil
}

func (m bookFormModel) Update(msg tea.Msg) (pane, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionMsg:
		if msg.User != nil {
			m.env.user = msg.User
		}

	case bookingCreatedMsg:
		m.pending = false
		if msg.err != nil {
			m.flash = flash{text: client.UserMessage(msg.err), failed: true}
			return m, nil
		}
		m.created = msg.booking
		m.flash = flash{text: "booking request sent, waiting for the coach"}

	case copyResultMsg:
		m.flash = flashFromCopy(msg)

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, navigate("/student/coaches", 0)
		case "ctrl+y":
			if m.created != nil {
				return m, copyCmd("booking reference", m.created.Reference())
			}
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
			b, err := c.CreateBooking(context.Background(), req)
			return bookingCreatedMsg{booking: b, err: err}
		}
	}
	return m, nil
}

func (m bookFormModel) View() string {
	var b strings.Builder
	b.WriteString("\n  " + titleStyle.Render("Book a session") + "\n\n")
	b.WriteString(m.form.view())
	if m.pending {
		b.WriteString("\n  " + dimStyle.Render("sending...") + "\n")
	}
	if m.created != nil {
		b.WriteString("\n  " + bookingLine(*m.created) + "\n")
		b.WriteString("  " + metaStyle.Render("ctrl+y copies the reference") + "\n")
	}
	b.WriteString(m.flash.view())
	return b.String()
}
