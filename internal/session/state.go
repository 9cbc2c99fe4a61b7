package session

import "github.com/naveenspark/coachdesk/pkg/domain"

// State is an immutable snapshot of the session.
type State struct {
	User          *domain.User
	Token         string
	Authenticated bool
}

// IsAuthenticated reports whether the snapshot carries a signed-in user.
func (s State) IsAuthenticated() bool {
	return s.Authenticated && s.User != nil && s.Token != ""
}

// clone returns a copy that shares no memory with s.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Role returns the signed-in user's role. ok is false when nobody is signed in.
func (s State) Role() (domain.Role, bool) {
	if !s.IsAuthenticated() {
		return "", false
	}
	return s.User.Role, true
}

// Result is the outcome of a session operation, ready to show to the user.
type Result struct {
	OK      bool
	Message string
}

func success(msg string) Result {
	return Result{OK: true, Message: msg}
}

func failure(msg string) Result {
	return Result{Message: msg}
}
