package router

import (
	"slices"

	"github.com/naveenspark/coachdesk/pkg/domain"
)

// Notices shown when the guard turns a navigation away.
const (
	NoticeLoginRequired = "please log in first"
	NoticeForbidden     = "insufficient permissions"
)

// Principal is who is navigating. session.State satisfies it.
type Principal interface {
	IsAuthenticated() bool
	Role() (domain.Role, bool)
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allow    bool
	Redirect string
	Notice   string
}

// Decide applies the access rules to route in order: authentication, then
// role, then the entry-only rule. A nil principal is treated as signed out.
func Decide(route Route, p Principal) Decision {
	authed := p != nil && p.IsAuthenticated()

	if route.Meta.RequiresAuth {
		if !authed {
			return Decision{Redirect: LoginPath, Notice: NoticeLoginRequired}
		}
		if len(route.Meta.Roles) > 0 {
			role, ok := p.Role()
			if !ok || !slices.Contains(route.Meta.Roles, role) {
				return Decision{Redirect: HomePath, Notice: NoticeForbidden}
			}
		}
	}

	if route.Meta.EntryOnly && authed {
		return Decision{Redirect: HomePath}
	}
	return Decision{Allow: true}
}
