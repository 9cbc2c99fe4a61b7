// Package session holds the signed-in identity and its credential, keeps
// them in durable storage, and tells observers when they change.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

// LoginPath is where navigation is reset to when the session ends.
const LoginPath = "/login"

// ErrSessionEnded is reported for responses that arrive after the session they
// were issued under has ended.
var ErrSessionEnded = errors.New("session ended")

const sessionEndedMessage = "session ended, please log in again"

// AuthAPI is the subset of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, form domain.LoginForm) (*domain.AuthToken, error)
	RegisterStudent(ctx context.Context, form domain.RegisterForm) (*domain.User, error)
	RegisterCoach(ctx context.Context, form domain.RegisterForm) (*domain.User, error)
	GetCurrentUser(ctx context.Context) (*domain.User, error)
	UpdateCurrentUser(ctx context.Context, update domain.UserUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
}

// cacheResetter is implemented by APIs that keep per-account cached data.
type cacheResetter interface {
	ResetCache()
}

// Navigator performs a full navigation reset, bypassing any guard.
type Navigator interface {
	Reset(path string)
}

// Store is the session. It is safe for concurrent use; the lock is never held
// across a network call.
type Store struct {
	api           AuthAPI
	storage       Storage
	logger        *zap.Logger
	notifier      notice.Notifier
	now           func() time.Time
	tokenOverride string

	mu     sync.Mutex
	state  State
	epoch  uint64
	nav    Navigator
	subs   map[int]chan State
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets where user-facing notices go.
func WithNotifier(n notice.Notifier) Option {
	return func(s *Store) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithNavigator sets the navigator reset on logout.
func WithNavigator(n Navigator) Option {
	return func(s *Store) {
		s.nav = n
	}
}

// WithClock replaces time.Now, used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenOverride makes RestoreSession use token instead of the stored one.
func WithTokenOverride(token string) Option {
	return func(s *Store) {
		s.tokenOverride = token
	}
}

// NewStore returns an empty, signed-out session.
func NewStore(api AuthAPI, storage Storage, opts ...Option) *Store {
	s := &Store{
		api:      api,
		storage:  storage,
		logger:   zap.NewNop(),
		notifier: notice.Discard,
		now:      time.Now,
		subs:     make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AttachNavigator sets the navigator reset on logout.
func (s *Store) AttachNavigator(n Navigator) {
	s.mu.Lock()
	s.nav = n
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Token returns the current bearer token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

// Subscribe returns a channel that receives the state after every change, and
// a function that ends the subscription. A slow reader only sees the latest state.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// publishLocked sends the current state to every subscriber. Callers hold s.mu.
func (s *Store) publishLocked() {
	for _, ch := range s.subs {
		st := s.state.clone()
		select {
		case ch <- st:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- st
		}
	}
}

// restoreStorageLocked rewrites storage to match prev after a failed save.
// Callers hold s.mu.
func (s *Store) restoreStorageLocked(prev State) {
	var err error
	if prev.IsAuthenticated() {
		err = s.storage.Save(prev.Token, prev.User)
	} else {
		err = s.storage.Clear()
	}
	if err != nil {
		s.logger.Error("restore session storage", zap.Error(err))
	}
}

func (s *Store) resetAPICache() {
	if r, ok := s.api.(cacheResetter); ok {
		r.ResetCache()
	}
}

func (s *Store) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Login exchanges credentials for a token and signs the user in.
func (s *Store) Login(ctx context.Context, form domain.LoginForm) Result {
	if form.Username == "" || form.Password == "" {
		return failure("username and password are required")
	}
	epoch := s.currentEpoch()

	auth, err := s.api.Login(ctx, form)
	if err != nil {
		s.logger.Info("login failed", zap.String("username", form.Username), zap.Error(err))
		return failure(client.UserMessage(err))
	}
	if auth == nil || auth.AccessToken == "" || auth.User.ID == 0 {
		s.logger.Warn("login response missing token or user", zap.String("username", form.Username))
		return failure("login failed: malformed server response")
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Info("discarding login response from ended session")
		return failure(sessionEndedMessage)
	}
	user := auth.User
	if err := s.storage.Save(auth.AccessToken, &user); err != nil {
		s.restoreStorageLocked(s.state)
		s.mu.Unlock()
		s.logger.Error("persist session", zap.Error(err))
		return failure("login failed: could not save the session")
	}
	s.state = State{User: &user, Token: auth.AccessToken, Authenticated: true}
	s.epoch++
	s.publishLocked()
	s.mu.Unlock()
	s.resetAPICache()

	s.logger.Info("login", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	s.notifier.Notify(notice.Success, "login successful")
	return success("login successful")
}

// Logout clears the session and storage and resets navigation to the login
// page. Calling it when already signed out is harmless.
func (s *Store) Logout() {
	s.mu.Lock()
	wasAuthenticated := s.state.Authenticated
	s.state = State{}
	s.epoch++
	if err := s.storage.Clear(); err != nil {
		s.logger.Error("clear session storage", zap.Error(err))
	}
	s.publishLocked()
	nav := s.nav
	s.mu.Unlock()
	s.resetAPICache()

	if wasAuthenticated {
		s.logger.Info("logout")
	}
	if nav != nil {
		nav.Reset(LoginPath)
	}
}

// RestoreSession rebuilds the session from storage. When a token and user are
// stored, the session is marked authenticated at once and verified against the
// server in the background; any verification failure logs out. The returned
// channel yields the verification outcome (nil when nothing was restored) and
// is then closed.
func (s *Store) RestoreSession(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	token, user, err := s.storage.Load()
	if err != nil {
		s.logger.Warn("load stored session", zap.Error(err))
		s.clearStorage()
		done <- nil
		close(done)
		return done
	}
	if s.tokenOverride != "" {
		token = s.tokenOverride
	}
	if token == "" {
		done <- nil
		close(done)
		return done
	}
	if tokenExpired(token, s.now()) {
		s.logger.Info("stored token expired, staying signed out")
		s.clearStorage()
		done <- nil
		close(done)
		return done
	}

	s.mu.Lock()
	s.epoch++
	epoch := s.epoch
	if user != nil {
		s.state = State{User: user, Token: token, Authenticated: true}
	} else {
		// Without a stored user the token is carried but the session only
		// becomes authenticated once the server confirms it.
		s.state = State{Token: token}
	}
	s.publishLocked()
	s.mu.Unlock()

	go func() {
		defer close(done)
		done <- s.verify(ctx, epoch, token)
	}()
	return done
}

func (s *Store) verify(ctx context.Context, epoch uint64, token string) error {
	me, err := s.api.GetCurrentUser(ctx)
	if err != nil {
		s.logger.Info("stored session rejected", zap.Error(err))
		if s.currentEpoch() == epoch {
			s.Logout()
		}
		return fmt.Errorf("session.RestoreSession: %w", err)
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		return ErrSessionEnded
	}
	if err := s.storage.Save(token, me); err != nil {
		s.mu.Unlock()
		s.logger.Error("persist session", zap.Error(err))
		s.Logout()
		return fmt.Errorf("session.RestoreSession: save: %w", err)
	}
	s.state = State{User: me, Token: token, Authenticated: true}
	s.publishLocked()
	s.mu.Unlock()
	s.logger.Info("session restored", zap.Int("user_id", me.ID))
	return nil
}

// UpdateProfile saves profile changes and replaces the user with the server's
// record. Overlapping calls are not serialized: the last response to arrive wins.
func (s *Store) UpdateProfile(ctx context.Context, update domain.UserUpdate) Result {
	s.mu.Lock()
	epoch, authed := s.epoch, s.state.IsAuthenticated()
	s.mu.Unlock()
	if !authed {
		return failure("please log in first")
	}
	if update.Empty() {
		return failure("nothing to update")
	}

	me, err := s.api.UpdateCurrentUser(ctx, update)
	if err != nil {
		return failure(client.UserMessage(err))
	}

	s.mu.Lock()
	if s.epoch != epoch {
		s.mu.Unlock()
		s.logger.Info("discarding profile update from ended session")
		return failure(sessionEndedMessage)
	}
	if err := s.storage.Save(s.state.Token, me); err != nil {
		s.restoreStorageLocked(s.state)
		s.mu.Unlock()
		s.logger.Error("persist session", zap.Error(err))
		return failure("could not save the profile locally, please try again")
	}
	s.state.User = me
	s.publishLocked()
	s.mu.Unlock()

	s.notifier.Notify(notice.Success, "profile updated")
	return success("profile updated")
}

// ChangePassword changes the password and, on success, always signs out.
func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) Result {
	if oldPassword == "" || newPassword == "" {
		return failure("old and new password are required")
	}
	err := s.api.ChangePassword(ctx, domain.PasswordChange{OldPassword: oldPassword, NewPassword: newPassword})
	if err != nil {
		return failure(client.UserMessage(err))
	}
	s.Logout()
	s.notifier.Notify(notice.Success, "password changed, please log in again")
	return success("password changed, please log in again")
}

// Register creates a student or coach account. It never signs anyone in.
func (s *Store) Register(ctx context.Context, form domain.RegisterForm, role domain.Role) Result {
	var err error
	switch role {
	case domain.RoleStudent:
		_, err = s.api.RegisterStudent(ctx, form)
	case domain.RoleCoach:
		_, err = s.api.RegisterCoach(ctx, form)
	default:
		return failure(fmt.Sprintf("cannot register as %q", role))
	}
	if err != nil {
		return failure(client.UserMessage(err))
	}
	s.logger.Info("registered", zap.String("username", form.Username), zap.String("role", string(role)))
	msg := "registration successful, please log in"
	if role == domain.RoleCoach {
		msg = "registration submitted, awaiting campus approval"
	}
	s.notifier.Notify(notice.Success, msg)
	return success(msg)
}

func (s *Store) clearStorage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Clear(); err != nil {
		s.logger.Error("clear session storage", zap.Error(err))
	}
}
