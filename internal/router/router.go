package router

import (
	"sync"

	"go.uber.org/zap"

	"github.com/naveenspark/coachdesk/pkg/notice"
)

// maxStaticRedirects bounds chains of table redirects.
const maxStaticRedirects = 4

// Router resolves paths against the route table and remembers where the user is.
type Router struct {
	routes   map[string]Route
	notifier notice.Notifier
	logger   *zap.Logger

	mu      sync.Mutex
	current Route
	title   string
	resets  chan string
}

// Option configures a Router.
type Option func(*Router)

// WithNotifier sets where guard notices go.
func WithNotifier(n notice.Notifier) Option {
	return func(r *Router) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithLogger sets the router's logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a router over routes, starting at the login page.
func New(routes []Route, opts ...Option) *Router {
	r := &Router{
		routes:   make(map[string]Route),
		notifier: notice.Discard,
		logger:   zap.NewNop(),
		resets:   make(chan string, 1),
	}
	flatten(routes, "", r.routes)
	for _, opt := range opts {
		opt(r)
	}
	r.current = r.Resolve(LoginPath)
	r.title = titleFor(r.current)
	return r
}

// Resolve returns the route for path after following table redirects.
// Unknown paths resolve to the not-found route.
func (r *Router) Resolve(path string) Route {
	path = clean(path)
	for i := 0; i <= maxStaticRedirects; i++ {
		route, ok := r.routes[path]
		if !ok {
			nf := notFound
			nf.Path = path
			return nf
		}
		if route.Redirect == "" {
			return route
		}
		path = clean(route.Redirect)
	}
	nf := notFound
	nf.Path = path
	return nf
}

// Navigate moves to path if the guard allows it, following at most one guard
// redirect. Guard notices go to the notifier. It returns the route landed on
// and the guard's verdict for the requested path.
func (r *Router) Navigate(path string, p Principal) (Route, Decision) {
	target := r.Resolve(path)
	decision := Decide(target, p)
	if decision.Notice != "" {
		level := notice.Warning
		if decision.Notice == NoticeForbidden {
			level = notice.Error
		}
		r.notifier.Notify(level, decision.Notice)
	}

	landed := target
	if !decision.Allow {
		landed = r.Resolve(decision.Redirect)
		if second := Decide(landed, p); !second.Allow {
			r.logger.Warn("guard redirect target is itself guarded",
				zap.String("path", target.Path),
				zap.String("redirect", landed.Path))
		}
		r.logger.Debug("navigation redirected",
			zap.String("path", target.Path),
			zap.String("to", landed.Path))
	}

	r.set(landed)
	return landed, decision
}

// Reset jumps straight to path without consulting the guard. The session calls
// it when it ends.
func (r *Router) Reset(path string) {
	route := r.Resolve(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = route
	r.title = titleFor(route)
	select {
	case <-r.resets:
	default:
	}
	r.resets <- route.Path
}

// Resets signals paths passed to Reset, so a UI can follow a session-driven jump.
// Only the latest pending reset is delivered.
func (r *Router) Resets() <-chan string {
	return r.resets
}

// Current returns the route the user is on.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Title returns the window title for the current route.
func (r *Router) Title() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.title
}

func (r *Router) set(route Route) {
	r.mu.Lock()
	r.current = route
	r.title = titleFor(route)
	r.mu.Unlock()
}

func titleFor(route Route) string {
	if route.Meta.Title == "" {
		return AppTitle
	}
	return route.Meta.Title + " - " + AppTitle
}
