package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/naveenspark/coachdesk/internal/router"
	"github.com/naveenspark/coachdesk/internal/session"
	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

// pane is one screen, chosen by the current route.
type pane interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (pane, tea.Cmd)
	View() string
	Help() string
	// Editing reports whether keystrokes are text input, which suspends global keys.
	Editing() bool
}

// env is what a pane needs to reach the backend and the session.
type env struct {
	client  *client.Client
	session *session.Store
	logger  *zap.Logger
	user    *domain.User
}

// Deps wires the App to the rest of the program.
type Deps struct {
	Client  *client.Client
	Session *session.Store
	Router  *router.Router
	Notices *notice.Feed
	Logger  *zap.Logger
	// Restored yields the outcome of background session verification, if any.
	Restored <-chan error
}

type (
	sessionMsg       session.State
	sessionClosedMsg struct{}
	resetMsg         string
	noticesMsg       []notice.Notice
	restoredMsg      struct{ err error }
)

// navigateMsg asks the App to go to path through the guard. arg carries an
// optional ID for the destination, such as the coach to book.
type navigateMsg struct {
	path string
	arg  int
}

func navigate(path string, arg int) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path, arg: arg} }
}

// tab is a numbered shortcut in the tab bar.
type tab struct {
	name string
	path string
}

// App is the root Bubbletea model.
type App struct {
	deps      Deps
	route     router.Route
	active    pane
	state     session.State
	sessionCh <-chan session.State
	status    *notice.Notice
	gotoOpen  bool
	gotoInput string
	width     int
	height    int
	frame     int
}

// NewApp creates the TUI. It starts on the dashboard when the session is
// already authenticated, otherwise on the login page.
func NewApp(d Deps) App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Router == nil {
		d.Router = router.New(router.Table)
	}
	if d.Notices == nil {
		d.Notices = notice.NewFeed(20)
	}
	a := App{deps: d}
	a.state = d.Session.Snapshot()
	a.sessionCh, _ = d.Session.Subscribe()

	start := router.LoginPath
	if a.state.IsAuthenticated() {
		start = router.HomePath
	}
	route, _ := d.Router.Navigate(start, a.state)
	a.route = route
	a.active = a.newPane(route, 0)
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		shimmerTickCmd(),
		a.active.Init(),
		tea.SetWindowTitle(a.deps.Router.Title()),
		waitSession(a.sessionCh),
		waitReset(a.deps.Router.Resets()),
		waitNotices(a.deps.Notices),
	}
	if a.deps.Restored != nil {
		cmds = append(cmds, waitRestored(a.deps.Restored))
	}
	return tea.Batch(cmds...)
}

func waitSession(ch <-chan session.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return sessionClosedMsg{}
		}
		return sessionMsg(st)
	}
}

func waitReset(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return resetMsg(<-ch)
	}
}

func waitNotices(f *notice.Feed) tea.Cmd {
	return func() tea.Msg {
		<-f.Wait()
		return noticesMsg(f.Drain())
	}
}

func waitRestored(ch <-chan error) tea.Cmd {
	return func() tea.Msg {
		return restoredMsg{err: <-ch}
	}
}

// chrome is the number of lines around the body: header(2) + tabs(1) + status(1) + help(1).
const chrome = 5

func (a App) bodySize() tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: a.width, Height: a.height - chrome}
}

func (a App) env() env {
	return env{
		client:  a.deps.Client,
		session: a.deps.Session,
		logger:  a.deps.Logger,
		user:    a.deps.Session.Snapshot().User,
	}
}

func (a App) newPane(route router.Route, arg int) pane {
	e := a.env()
	var p pane
	switch route.Name {
	case "Login":
		p = newLoginModel(e)
	case "Register":
		p = newRegisterModel(e)
	case "Dashboard":
		p = newDashboardModel(e)
	case "Profile":
		p = newProfileModel(e)
	case "Notifications":
		p = newNotificationsModel(e)
	case "Admin", "UserManagement":
		p = newUsersModel(e)
	case "CampusManagement":
		p = newCampusModel(e)
	case "Student", "CoachList":
		p = newCoachesModel(e)
	case "StudentBooking":
		p = newBookFormModel(e, arg)
	case "StudentBookings":
		p = newBookingsModel(e, bookingsStudent)
	case "StudentPayments":
		p = newPaymentsModel(e)
	case "StudentCompetitions":
		p = newCompetitionsModel(e)
	case "Coach", "CoachStudents":
		p = newCoachStudentsModel(e)
	case "CoachBookings":
		p = newBookingsModel(e, bookingsCoach)
	case "CoachEvaluations":
		p = newEvaluationsModel(e)
	default:
		p = newNotFoundModel(route.Path)
	}
	if a.width > 0 {
		p, _ = p.Update(a.bodySize())
	}
	return p
}

// goTo navigates through the guard and shows whatever route it lands on.
func (a App) goTo(path string, arg int) (App, tea.Cmd) {
	route, _ := a.deps.Router.Navigate(path, a.deps.Session.Snapshot())
	return a.show(route, arg)
}

func (a App) show(route router.Route, arg int) (App, tea.Cmd) {
	a.route = route
	a.active = a.newPane(route, arg)
	a.deps.Logger.Debug("show route", zap.String("path", route.Path), zap.String("name", route.Name))
	return a, tea.Batch(a.active.Init(), tea.SetWindowTitle(a.deps.Router.Title()))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		var cmd tea.Cmd
		a.active, cmd = a.active.Update(a.bodySize())
		return a, cmd

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionMsg:
		prev := a.state
		a.state = session.State(msg)
		cmds := []tea.Cmd{waitSession(a.sessionCh)}
		if prev.IsAuthenticated() && !a.state.IsAuthenticated() && a.route.Meta.RequiresAuth {
			a.deps.Router.Reset(router.LoginPath)
			return a, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		a.active, cmd = a.active.Update(msg)
		return a, tea.Batch(append(cmds, cmd)...)

	case sessionClosedMsg:
		return a, nil

	case resetMsg:
		cmd := waitReset(a.deps.Router.Resets())
		route := a.deps.Router.Resolve(string(msg))
		if route.Path == a.route.Path {
			return a, cmd
		}
		var showCmd tea.Cmd
		a, showCmd = a.show(route, 0)
		return a, tea.Batch(cmd, showCmd)

	case noticesMsg:
		if len(msg) > 0 {
			last := msg[len(msg)-1]
			a.status = &last
		}
		return a, waitNotices(a.deps.Notices)

	case restoredMsg:
		if msg.err != nil {
			a.deps.Logger.Info("restored session not accepted", zap.Error(msg.err))
		}
		return a, nil

	case navigateMsg:
		return a.goTo(msg.path, msg.arg)

	case tea.KeyMsg:
		if a.gotoOpen {
			return a.updateGoto(msg)
		}
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.active.Editing() {
			switch key := msg.String(); key {
			case "q":
				return a, tea.Quit
			case ":":
				a.gotoOpen = true
				a.gotoInput = ""
				return a, nil
			case "L":
				if a.state.IsAuthenticated() {
					a.deps.Session.Logout()
				}
				return a, nil
			case "1", "2", "3", "4", "5", "6", "7", "8", "9":
				tabs := a.tabs()
				i, _ := strconv.Atoi(key) //nolint:errcheck // key is a digit
				if i-1 < len(tabs) && tabs[i-1].path != a.route.Path {
					return a.goTo(tabs[i-1].path, 0)
				}
				return a, nil
			}
		}
	}

	var cmd tea.Cmd
	a.active, cmd = a.active.Update(msg)
	return a, cmd
}

func (a App) updateGoto(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.gotoOpen = false
	case "enter":
		a.gotoOpen = false
		path := strings.TrimSpace(a.gotoInput)
		if path == "" {
			return a, nil
		}
		return a.goTo(path, 0)
	case "ctrl+c":
		return a, tea.Quit
	default:
		a.gotoInput = editRune(a.gotoInput, msg.String())
	}
	return a, nil
}

// tabs lists the shortcuts the signed-in role may use.
func (a App) tabs() []tab {
	role, ok := a.state.Role()
	if !ok {
		return []tab{{"Log in", router.LoginPath}, {"Register", router.RegisterPath}}
	}
	tabs := []tab{
		{"Dashboard", router.HomePath},
		{"Profile", "/profile"},
		{"Notices", "/notifications"},
	}
	switch role {
	case domain.RoleStudent:
		tabs = append(tabs,
			tab{"Coaches", "/student/coaches"},
			tab{"Book", "/student/booking"},
			tab{"Bookings", "/student/bookings"},
			tab{"Recharge", "/student/payments"},
			tab{"Competitions", "/student/competitions"},
		)
	case domain.RoleCoach:
		tabs = append(tabs,
			tab{"Students", "/coach/students"},
			tab{"Schedule", "/coach/bookings"},
			tab{"Evaluations", "/coach/evaluations"},
		)
	case domain.RoleSuperAdmin:
		tabs = append(tabs,
			tab{"Campus", "/admin/campus"},
			tab{"Users", "/admin/users"},
		)
	case domain.RoleCampusAdmin:
		tabs = append(tabs, tab{"Users", "/admin/users"})
	}
	return tabs
}

func center(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func (a App) View() string {
	header := center(renderShimmerLogo(a.frame), a.width) + "\n"
	if u := a.state.User; a.state.IsAuthenticated() && u != nil {
		who := normalStyle.Render(u.DisplayName()) + metaStyle.Render(" . ") + RoleBadge(u.Role) +
			metaStyle.Render(" . "+a.route.Meta.Title)
		header += center(who, a.width)
	} else {
		header += center(metaStyle.Render(a.route.Meta.Title), a.width)
	}

	var tabBar strings.Builder
	for i, t := range a.tabs() {
		key := strconv.Itoa(i + 1)
		if t.path == a.route.Path {
			tabBar.WriteString(" " + accentStyle.Render(key) + " " + selectedStyle.Underline(true).Render(t.name) + " ")
		} else {
			tabBar.WriteString(" " + metaStyle.Render(key) + " " + dimStyle.Render(t.name) + " ")
		}
	}

	body := strings.TrimRight(truncateToHeight(a.active.View(), a.height-chrome), "\n")

	var status string
	switch {
	case a.gotoOpen:
		status = " " + inputPromptStyle.Render("go to ") + normalStyle.Render(a.gotoInput) + accentStyle.Render("█")
	case a.status != nil:
		status = " " + noticeStyle(a.status.Level).Render(a.status.Text)
	}

	help := " " + a.active.Help()
	global := helpLine("1-9", "tabs", ":", "go to", "q", "quit")
	if a.state.IsAuthenticated() {
		global = helpLine("1-9", "tabs", ":", "go to", "L", "log out", "q", "quit")
	}
	if a.active.Editing() {
		global = helpLine("ctrl+c", "quit")
	}
	if strings.TrimSpace(a.active.Help()) != "" {
		help += "  "
	}
	help += global

	return fmt.Sprintf("%s\n%s\n%s\n%s\n%s", header, tabBar.String(), body, status, help)
}
