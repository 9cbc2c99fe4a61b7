// Package router holds the static route table, the access guard evaluated
// before every navigation, and the current location.
package router

import (
	"strings"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// Well-known paths.
const (
	RootPath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
	HomePath     = "/dashboard"
	NotFoundName = "NotFound"
)

// AppTitle is appended to every window title.
const AppTitle = "Table Tennis Training"

// Meta is the access and display metadata of a route.
type Meta struct {
	Title        string
	RequiresAuth bool
	Roles        []domain.Role
	// EntryOnly routes are for signed-out users; signed-in users are sent home.
	EntryOnly bool
}

// Route is one entry of the route table. Child paths are relative to the parent.
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
	Children []Route
}

var (
	admins   = []domain.Role{domain.RoleSuperAdmin}
	managers = []domain.Role{domain.RoleSuperAdmin, domain.RoleCampusAdmin}
	students = []domain.Role{domain.RoleStudent}
	coaches  = []domain.Role{domain.RoleCoach}
)

// Table is the application's route table.
var Table = []Route{
	{Path: RootPath, Redirect: HomePath},
	{Path: LoginPath, Name: "Login", Meta: Meta{Title: "Log in", EntryOnly: true}},
	{Path: RegisterPath, Name: "Register", Meta: Meta{Title: "Register", EntryOnly: true}},
	{Path: HomePath, Name: "Dashboard", Meta: Meta{Title: "Dashboard", RequiresAuth: true}},
	{Path: "/profile", Name: "Profile", Meta: Meta{Title: "Profile", RequiresAuth: true}},
	{Path: "/notifications", Name: "Notifications", Meta: Meta{Title: "Notifications", RequiresAuth: true}},
	{
		Path: "/admin", Name: "Admin",
		Meta: Meta{Title: "Administration", RequiresAuth: true, Roles: admins},
		Children: []Route{
			{Path: "campus", Name: "CampusManagement", Meta: Meta{Title: "Campus management", RequiresAuth: true, Roles: admins}},
			{Path: "users", Name: "UserManagement", Meta: Meta{Title: "User management", RequiresAuth: true, Roles: managers}},
		},
	},
	{
		Path: "/student", Name: "Student",
		Meta: Meta{Title: "Student center", RequiresAuth: true, Roles: students},
		Children: []Route{
			{Path: "coaches", Name: "CoachList", Meta: Meta{Title: "Coaches", RequiresAuth: true, Roles: students}},
			{Path: "bookings", Name: "StudentBookings", Meta: Meta{Title: "My bookings", RequiresAuth: true, Roles: students}},
			{Path: "payments", Name: "StudentPayments", Meta: Meta{Title: "Recharge", RequiresAuth: true, Roles: students}},
			{Path: "booking", Name: "StudentBooking", Meta: Meta{Title: "Book a coach", RequiresAuth: true, Roles: students}},
			{Path: "competitions", Name: "StudentCompetitions", Meta: Meta{Title: "Competitions", RequiresAuth: true, Roles: students}},
		},
	},
	{
		Path: "/coach", Name: "Coach",
		Meta: Meta{Title: "Coach center", RequiresAuth: true, Roles: coaches},
		Children: []Route{
			{Path: "students", Name: "CoachStudents", Meta: Meta{Title: "My students", RequiresAuth: true, Roles: coaches}},
			{Path: "bookings", Name: "CoachBookings", Meta: Meta{Title: "Schedule", RequiresAuth: true, Roles: coaches}},
			{Path: "evaluations", Name: "CoachEvaluations", Meta: Meta{Title: "Evaluations", RequiresAuth: true, Roles: coaches}},
		},
	},
}

// notFound matches any path the table does not.
var notFound = Route{Name: NotFoundName, Meta: Meta{Title: "Page not found"}}

// flatten indexes routes by absolute path.
func flatten(routes []Route, parent string, into map[string]Route) {
	for _, r := range routes {
		full := r.Path
		if parent != "" {
			full = strings.TrimRight(parent, "/") + "/" + r.Path
		}
		flat := r
		flat.Path = full
		flat.Children = nil
		into[full] = flat
		flatten(r.Children, full, into)
	}
}

// clean normalizes a requested path: no query, leading slash, no trailing slash.
func clean(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	return path
}
