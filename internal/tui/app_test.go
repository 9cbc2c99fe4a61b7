package tui

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/mux"

	"github.com/naveenspark/coachdesk/internal/router"
	"github.com/naveenspark/coachdesk/internal/session"
	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

func intPtr(i int) *int { return &i }

var (
	testStudent = domain.User{ID: 7, Username: "lin", RealName: "Lin Tao", Role: domain.RoleStudent, Phone: "13800000000", CampusID: intPtr(1), IsActive: 1}
	testCoach   = domain.User{ID: 3, Username: "wang", RealName: "Wang Hao", Role: domain.RoleCoach, CampusID: intPtr(1), IsActive: 1}
	testAdmin   = domain.User{ID: 1, Username: "root", RealName: "Admin", Role: domain.RoleSuperAdmin, IsActive: 1}
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// newTestClient serves /users/me as user plus whatever register adds.
func newTestClient(t *testing.T, user domain.User, register func(api *mux.Router)) *client.Client {
	t.Helper()
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, user)
	}).Methods(http.MethodGet)
	if register != nil {
		register(api)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/api/v1")
}

type testHarness struct {
	app    App
	store  *session.Store
	router *router.Router
	client *client.Client
}

// newTestApp builds an App signed in as user, or signed out when user is nil.
func newTestApp(t *testing.T, user *domain.User, register func(api *mux.Router)) testHarness {
	t.Helper()
	me := domain.User{}
	if user != nil {
		me = *user
	}
	c := newTestClient(t, me, register)
	storage := session.NewMemoryStorage("", nil)
	if user != nil {
		storage = session.NewMemoryStorage("tok", user)
	}
	store := session.NewStore(c, storage)
	c.AttachSession(store)
	r := router.New(router.Table)
	store.AttachNavigator(r)
	if err := <-store.RestoreSession(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	a := NewApp(Deps{Client: c, Session: store, Router: r})
	a.width = 100
	a.height = 30
	return testHarness{app: a, store: store, router: r, client: c}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(a App, text string) App {
	for _, r := range text {
		m, _ := a.Update(key(string(r)))
		a = m.(App)
	}
	return a
}

func update(a App, msg tea.Msg) (App, tea.Cmd) {
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func TestAppStartsOnLoginWhenSignedOut(t *testing.T) {
	h := newTestApp(t, nil, nil)
	if h.app.route.Name != "Login" {
		t.Errorf("route = %q, want Login", h.app.route.Name)
	}
	if _, ok := h.app.active.(loginModel); !ok {
		t.Errorf("active pane = %T, want loginModel", h.app.active)
	}
}

func TestAppStartsOnDashboardWhenSignedIn(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	if h.app.route.Name != "Dashboard" {
		t.Errorf("route = %q, want Dashboard", h.app.route.Name)
	}
	if got := h.router.Title(); got != "Dashboard - Table Tennis Training" {
		t.Errorf("title = %q", got)
	}
}

func TestAppGuardRedirectsByRole(t *testing.T) {
	tests := []struct {
		name string
		user *domain.User
		path string
		want string
	}{
		{"signed out to profile", nil, "/profile", "Login"},
		{"student to admin", &testStudent, "/admin/users", "Dashboard"},
		{"coach to student payments", &testCoach, "/student/payments", "Dashboard"},
		{"student to own payments", &testStudent, "/student/payments", "StudentPayments"},
		{"admin to campus", &testAdmin, "/admin/campus", "CampusManagement"},
		{"signed in to login", &testStudent, "/login", "Dashboard"},
		{"unknown path", &testStudent, "/nowhere", router.NotFoundName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestApp(t, tt.user, nil)
			a, _ := update(h.app, navigateMsg{path: tt.path})
			if a.route.Name != tt.want {
				t.Errorf("navigate(%q) landed on %q, want %q", tt.path, a.route.Name, tt.want)
			}
		})
	}
}

func TestAppTabsPerRole(t *testing.T) {
	tests := []struct {
		user *domain.User
		want []string
	}{
		{nil, []string{"Log in", "Register"}},
		{&testStudent, []string{"Dashboard", "Profile", "Notices", "Coaches", "Book", "Bookings", "Recharge", "Competitions"}},
		{&testCoach, []string{"Dashboard", "Profile", "Notices", "Students", "Schedule", "Evaluations"}},
		{&testAdmin, []string{"Dashboard", "Profile", "Notices", "Campus", "Users"}},
	}
	for _, tt := range tests {
		h := newTestApp(t, tt.user, nil)
		var got []string
		for _, tb := range h.app.tabs() {
			got = append(got, tb.name)
		}
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("tabs = %v, want %v", got, tt.want)
		}
	}
}

func TestAppDigitSwitchesTab(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, cmd := update(h.app, key("4"))
	if a.route.Name != "CoachList" {
		t.Errorf("after 4: route = %q, want CoachList", a.route.Name)
	}
	if cmd == nil {
		t.Error("expected the new pane's init command")
	}
	if _, ok := a.active.(coachesModel); !ok {
		t.Errorf("active pane = %T, want coachesModel", a.active)
	}
}

func TestAppDigitOutOfRangeIgnored(t *testing.T) {
	h := newTestApp(t, &testAdmin, nil)
	a, _ := update(h.app, key("9"))
	if a.route.Name != "Dashboard" {
		t.Errorf("route = %q, want Dashboard", a.route.Name)
	}
}

func TestAppGlobalQuitOnQ(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	_, cmd := update(h.app, key("q"))
	if cmd == nil {
		t.Fatal("expected quit command on 'q', got nil")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("'q' did not produce tea.QuitMsg")
	}
}

func TestAppQNotFiredWhenEditing(t *testing.T) {
	h := newTestApp(t, nil, nil)
	a, cmd := update(h.app, key("q"))
	if cmd != nil {
		t.Error("'q' on the login form should type, not quit")
	}
	lm := a.active.(loginModel)
	if got := lm.form.fields[loginUsername].value; got != "q" {
		t.Errorf("username = %q, want %q", got, "q")
	}
}

func TestAppGotoPrompt(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, _ := update(h.app, key(":"))
	if !a.gotoOpen {
		t.Fatal("':' should open the go-to prompt")
	}
	a = typeText(a, "/profile")
	if !strings.Contains(a.View(), "/profile") {
		t.Error("prompt input not rendered")
	}
	a, _ = update(a, key("enter"))
	if a.gotoOpen {
		t.Error("enter should close the prompt")
	}
	if a.route.Name != "Profile" {
		t.Errorf("route = %q, want Profile", a.route.Name)
	}
}

func TestAppGotoUnknownShowsNotFound(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, _ := update(h.app, key(":"))
	a = typeText(a, "/nope")
	a, _ = update(a, key("enter"))
	if !strings.Contains(a.View(), "Page not found") {
		t.Errorf("view missing not-found page:\n%s", a.View())
	}
	a, cmd := update(a, key("enter"))
	if cmd == nil {
		t.Fatal("enter on not-found should navigate home")
	}
	a, _ = update(a, cmd())
	if a.route.Name != "Dashboard" {
		t.Errorf("route = %q, want Dashboard", a.route.Name)
	}
}

func TestAppLogoutKeyReturnsToLogin(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, _ := update(h.app, navigateMsg{path: "/profile"})
	a, _ = update(a, key("L"))
	if h.store.Snapshot().IsAuthenticated() {
		t.Fatal("L should end the session")
	}
	a, _ = update(a, resetMsg(<-h.router.Resets()))
	if a.route.Name != "Login" {
		t.Errorf("route = %q, want Login", a.route.Name)
	}
}

func TestAppSessionEndOnProtectedRouteResets(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, _ := update(h.app, navigateMsg{path: "/student/bookings"})
	// A logout from elsewhere (a 401, another command) reaches the App as a state change.
	a, _ = update(a, sessionMsg(session.State{}))
	select {
	case p := <-h.router.Resets():
		if p != router.LoginPath {
			t.Errorf("reset to %q, want %q", p, router.LoginPath)
		}
	default:
		t.Fatal("expected a navigation reset")
	}
	if a.state.IsAuthenticated() {
		t.Error("app still thinks it is signed in")
	}
}

func TestAppResetToCurrentRouteKeepsPane(t *testing.T) {
	h := newTestApp(t, nil, nil)
	a := typeText(h.app, "lin")
	a, _ = update(a, resetMsg(router.LoginPath))
	if got := a.active.(loginModel).form.fields[loginUsername].value; got != "lin" {
		t.Errorf("login form was rebuilt, username = %q", got)
	}
}

func TestAppViewRendersTabBarAndUser(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	view := h.app.View()
	for _, want := range []string{"Dashboard", "Coaches", "Recharge", "Lin Tao", "student"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestAppNoticeShownInStatusLine(t *testing.T) {
	h := newTestApp(t, nil, nil)
	a, cmd := update(h.app, noticesMsg{{Level: notice.Warning, Text: "please log in first"}})
	if cmd == nil {
		t.Error("expected the notice watcher to be re-armed")
	}
	if !strings.Contains(a.View(), "please log in first") {
		t.Error("notice not rendered in status line")
	}
}

func TestAppShimmerFrameIncrements(t *testing.T) {
	h := newTestApp(t, nil, nil)
	a, cmd := update(h.app, shimmerTickMsg{})
	if a.frame != 1 {
		t.Errorf("frame = %d, want 1", a.frame)
	}
	if cmd == nil {
		t.Error("shimmer tick should schedule the next tick")
	}
}

func TestAppBodyFitsTerminal(t *testing.T) {
	h := newTestApp(t, &testStudent, nil)
	a, _ := update(h.app, tea.WindowSizeMsg{Width: 80, Height: 12})
	lines := strings.Count(a.View(), "\n") + 1
	if lines > 12 {
		t.Errorf("view has %d lines, terminal has 12", lines)
	}
}

func TestAppLoginFlow(t *testing.T) {
	h := newTestApp(t, nil, func(api *mux.Router) {
		api.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, domain.AuthToken{AccessToken: "tok-lin", User: testStudent})
		}).Methods(http.MethodPost)
	})
	a := typeText(h.app, "lin")
	a, _ = update(a, key("tab"))
	a = typeText(a, "pingpong1")
	a, cmd := update(a, key("enter"))
	if cmd == nil {
		t.Fatal("submitting the login form should return a command")
	}
	a, cmd = update(a, cmd())
	if !h.store.Snapshot().IsAuthenticated() {
		t.Fatal("not signed in after login")
	}
	a, _ = update(a, cmd())
	if a.route.Name != "Dashboard" {
		t.Errorf("route after login = %q, want Dashboard", a.route.Name)
	}
}
