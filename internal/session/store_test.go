package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/coachdesk/pkg/client"
	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

// fakeAPI lets each test script only the calls it cares about.
type fakeAPI struct {
	login          func(context.Context, domain.LoginForm) (*domain.AuthToken, error)
	getCurrentUser func(context.Context) (*domain.User, error)
	updateUser     func(context.Context, domain.UserUpdate) (*domain.User, error)
	changePassword func(context.Context, domain.PasswordChange) error
	register       func(context.Context, domain.RegisterForm, domain.Role) (*domain.User, error)
}

func (f *fakeAPI) Login(ctx context.Context, form domain.LoginForm) (*domain.AuthToken, error) {
	return f.login(ctx, form)
}

func (f *fakeAPI) RegisterStudent(ctx context.Context, form domain.RegisterForm) (*domain.User, error) {
	return f.register(ctx, form, domain.RoleStudent)
}

func (f *fakeAPI) RegisterCoach(ctx context.Context, form domain.RegisterForm) (*domain.User, error) {
	return f.register(ctx, form, domain.RoleCoach)
}

func (f *fakeAPI) GetCurrentUser(ctx context.Context) (*domain.User, error) {
	return f.getCurrentUser(ctx)
}

func (f *fakeAPI) UpdateCurrentUser(ctx context.Context, u domain.UserUpdate) (*domain.User, error) {
	return f.updateUser(ctx, u)
}

func (f *fakeAPI) ChangePassword(ctx context.Context, c domain.PasswordChange) error {
	return f.changePassword(ctx, c)
}

type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) Reset(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) resets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

func strPtr(s string) *string { return &s }

var student = domain.User{ID: 7, Username: "li", RealName: "Li Lei", Role: domain.RoleStudent}

// signedIn returns a store already holding an authenticated student.
func signedIn(t *testing.T, api AuthAPI, opts ...Option) (*Store, *MemoryStorage) {
	t.Helper()
	storage := NewMemoryStorage("", nil)
	s := NewStore(api, storage, opts...)
	s.state = State{User: &domain.User{ID: student.ID, Username: student.Username, Role: student.Role}, Token: "tok", Authenticated: true}
	require.NoError(t, storage.Save("tok", s.state.User))
	return s, storage
}

// newBackend serves the auth endpoints the store needs from a real HTTP server.
func newBackend(t *testing.T, meStatus int) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var form domain.LoginForm
		json.NewDecoder(r.Body).Decode(&form) //nolint:errcheck
		w.Header().Set("Content-Type", "application/json")
		if form.Username != "a" || form.Password != "b" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "wrong username or password"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthToken{AccessToken: "tok-a", TokenType: "bearer", User: student}) //nolint:errcheck
	}).Methods(http.MethodPost)
	api.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if meStatus != http.StatusOK {
			w.WriteHeader(meStatus)
			json.NewEncoder(w).Encode(map[string]string{"detail": "could not validate credentials"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(student) //nolint:errcheck
	}).Methods(http.MethodGet)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginPersistsSession(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	feed := notice.NewFeed(10)
	c := client.New(srv.URL + "/api/v1")
	storage := NewMemoryStorage("", nil)
	s := NewStore(c, storage, WithNotifier(feed))
	c.AttachSession(s)

	res := s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"})
	require.True(t, res.OK, res.Message)

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "tok-a", snap.Token)
	role, ok := snap.Role()
	assert.True(t, ok)
	assert.Equal(t, domain.RoleStudent, role)

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-a", token)
	require.NotNil(t, user)
	assert.Equal(t, student.ID, user.ID)

	notices := feed.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notice.Success, notices[0].Level)
}

func TestLoginFailureReturnsServerMessage(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	c := client.New(srv.URL + "/api/v1")
	s := NewStore(c, NewMemoryStorage("", nil))
	c.AttachSession(s)

	res := s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "wrong"})
	assert.False(t, res.OK)
	assert.Equal(t, "wrong username or password", res.Message)
	assert.False(t, s.Snapshot().IsAuthenticated())
}

func TestLoginRequiresCredentials(t *testing.T) {
	api := &fakeAPI{login: func(context.Context, domain.LoginForm) (*domain.AuthToken, error) {
		t.Fatal("login must not reach the server")
		return nil, nil
	}}
	s := NewStore(api, NewMemoryStorage("", nil))
	res := s.Login(context.Background(), domain.LoginForm{Username: "a"})
	assert.False(t, res.OK)
}

func TestLoginThenUnauthorizedCascade(t *testing.T) {
	srv := newBackend(t, http.StatusUnauthorized)
	c := client.New(srv.URL + "/api/v1")
	storage := NewMemoryStorage("", nil)
	nav := &recordingNav{}
	s := NewStore(c, storage, WithNavigator(nav))
	c.AttachSession(s)

	require.True(t, s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"}).OK)
	require.True(t, s.Snapshot().IsAuthenticated())

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))

	assert.False(t, s.Snapshot().Authenticated)
	assert.Empty(t, s.Token())
	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
	assert.Equal(t, []string{LoginPath}, nav.resets())
}

func TestLogoutThenRestoreWithoutToken(t *testing.T) {
	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		t.Fatal("nothing stored, nothing to verify")
		return nil, nil
	}}
	s, _ := signedIn(t, api)

	s.Logout()
	s.Logout()

	err := <-s.RestoreSession(context.Background())
	assert.NoError(t, err)
	assert.False(t, s.Snapshot().Authenticated)
}

func TestRestoreIsOptimisticUntilVerified(t *testing.T) {
	release := make(chan struct{})
	canonical := student
	canonical.RealName = "Li Lei (server)"
	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		<-release
		u := canonical
		return &u, nil
	}}
	storage := NewMemoryStorage("tok", &student)
	s := NewStore(api, storage)

	done := s.RestoreSession(context.Background())
	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "Li Lei", snap.User.RealName)

	close(release)
	require.NoError(t, <-done)
	_, open := <-done
	assert.False(t, open)

	assert.Equal(t, "Li Lei (server)", s.Snapshot().User.RealName)
	_, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "Li Lei (server)", user.RealName)
}

func TestRestoreVerificationFailureLogsOut(t *testing.T) {
	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		return nil, &client.HTTPError{Kind: client.KindNetwork, Err: errors.New("connection refused")}
	}}
	storage := NewMemoryStorage("tok", &student)
	nav := &recordingNav{}
	s := NewStore(api, storage, WithNavigator(nav))

	err := <-s.RestoreSession(context.Background())
	require.Error(t, err)
	kind, ok := client.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, client.KindNetwork, kind)

	assert.False(t, s.Snapshot().Authenticated)
	token, _, _ := storage.Load()
	assert.Empty(t, token)
	assert.Equal(t, []string{LoginPath}, nav.resets())
}

func TestRestoreWithExpiredJWTStaysSignedOut(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "li",
		"exp": now.Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		t.Fatal("expired token must not be verified")
		return nil, nil
	}}
	storage := NewMemoryStorage(expired, &student)
	s := NewStore(api, storage, WithClock(func() time.Time { return now }))

	require.NoError(t, <-s.RestoreSession(context.Background()))
	assert.False(t, s.Snapshot().Authenticated)
	token, user, _ := storage.Load()
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestRestoreWithTokenOverride(t *testing.T) {
	var seen string
	var s *Store
	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		seen = s.Token()
		u := student
		return &u, nil
	}}
	s = NewStore(api, NewMemoryStorage("", nil), WithTokenOverride("env-token"))

	require.NoError(t, <-s.RestoreSession(context.Background()))
	assert.Equal(t, "env-token", seen)
	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, student.ID, snap.User.ID)
}

func TestChangePasswordAlwaysSignsOut(t *testing.T) {
	api := &fakeAPI{changePassword: func(context.Context, domain.PasswordChange) error { return nil }}

	t.Run("signed in", func(t *testing.T) {
		s, storage := signedIn(t, api)
		res := s.ChangePassword(context.Background(), "old", "new")
		assert.True(t, res.OK)
		assert.False(t, s.Snapshot().Authenticated)
		token, _, _ := storage.Load()
		assert.Empty(t, token)
	})

	t.Run("signed out", func(t *testing.T) {
		s := NewStore(api, NewMemoryStorage("", nil))
		res := s.ChangePassword(context.Background(), "old", "new")
		assert.True(t, res.OK)
		assert.False(t, s.Snapshot().Authenticated)
	})
}

func TestChangePasswordFailureKeepsSession(t *testing.T) {
	api := &fakeAPI{changePassword: func(context.Context, domain.PasswordChange) error {
		return &client.HTTPError{Kind: client.KindStatus, StatusCode: http.StatusBadRequest, Message: "old password is incorrect"}
	}}
	s, _ := signedIn(t, api)

	res := s.ChangePassword(context.Background(), "bad", "new")
	assert.False(t, res.OK)
	assert.Equal(t, "old password is incorrect", res.Message)
	assert.True(t, s.Snapshot().IsAuthenticated())
}

func TestConcurrentProfileUpdatesLastArrivalWins(t *testing.T) {
	gates := map[string]chan struct{}{
		"A": make(chan struct{}),
		"B": make(chan struct{}),
	}
	api := &fakeAPI{updateUser: func(_ context.Context, u domain.UserUpdate) (*domain.User, error) {
		<-gates[*u.RealName]
		updated := student
		updated.RealName = *u.RealName
		return &updated, nil
	}}
	s, storage := signedIn(t, api)

	results := make(chan string, 2)
	go func() {
		s.UpdateProfile(context.Background(), domain.UserUpdate{RealName: strPtr("A")})
		results <- "A"
	}()
	go func() {
		s.UpdateProfile(context.Background(), domain.UserUpdate{RealName: strPtr("B")})
		results <- "B"
	}()

	close(gates["B"])
	require.Equal(t, "B", <-results)
	close(gates["A"])
	require.Equal(t, "A", <-results)

	assert.Equal(t, "A", s.Snapshot().User.RealName)
	_, user, _ := storage.Load()
	assert.Equal(t, "A", user.RealName)
}

func TestProfileUpdateAfterLogoutIsDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	api := &fakeAPI{updateUser: func(_ context.Context, u domain.UserUpdate) (*domain.User, error) {
		close(started)
		<-release
		updated := student
		updated.RealName = *u.RealName
		return &updated, nil
	}}
	s, storage := signedIn(t, api)

	result := make(chan Result, 1)
	go func() {
		result <- s.UpdateProfile(context.Background(), domain.UserUpdate{RealName: strPtr("late")})
	}()

	<-started
	s.Logout()
	close(release)

	res := <-result
	assert.False(t, res.OK)
	assert.False(t, s.Snapshot().Authenticated)
	assert.Nil(t, s.Snapshot().User)
	token, user, _ := storage.Load()
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestUpdateProfileRequiresSession(t *testing.T) {
	s := NewStore(&fakeAPI{}, NewMemoryStorage("", nil))
	res := s.UpdateProfile(context.Background(), domain.UserUpdate{RealName: strPtr("x")})
	assert.False(t, res.OK)
	assert.Equal(t, "please log in first", res.Message)
}

func TestRegisterLeavesSessionAlone(t *testing.T) {
	var roles []domain.Role
	api := &fakeAPI{register: func(_ context.Context, f domain.RegisterForm, r domain.Role) (*domain.User, error) {
		roles = append(roles, r)
		return &domain.User{ID: 99, Username: f.Username, Role: r}, nil
	}}
	s := NewStore(api, NewMemoryStorage("", nil))

	assert.True(t, s.Register(context.Background(), domain.RegisterForm{Username: "new"}, domain.RoleStudent).OK)
	assert.True(t, s.Register(context.Background(), domain.RegisterForm{Username: "coach"}, domain.RoleCoach).OK)
	assert.False(t, s.Register(context.Background(), domain.RegisterForm{Username: "boss"}, domain.RoleSuperAdmin).OK)

	assert.Equal(t, []domain.Role{domain.RoleStudent, domain.RoleCoach}, roles)
	assert.False(t, s.Snapshot().Authenticated)
}

func TestSubscribeSeesLatestState(t *testing.T) {
	api := &fakeAPI{login: func(context.Context, domain.LoginForm) (*domain.AuthToken, error) {
		return &domain.AuthToken{AccessToken: "tok", User: student}, nil
	}}
	s := NewStore(api, NewMemoryStorage("", nil))
	ch, cancel := s.Subscribe()

	require.True(t, s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"}).OK)
	st := <-ch
	assert.True(t, st.IsAuthenticated())

	s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"})
	s.Logout()
	st = <-ch
	assert.False(t, st.Authenticated, "only the latest state is kept for a slow reader")

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	s.Logout()
}

// failingStorage is a MemoryStorage whose writes fail once failSave is set.
type failingStorage struct {
	*MemoryStorage
	failSave atomic.Bool
}

func (f *failingStorage) Save(token string, user *domain.User) error {
	if f.failSave.Load() {
		return errors.New("disk full")
	}
	return f.MemoryStorage.Save(token, user)
}

// resettingAPI counts cache resets requested by the store.
type resettingAPI struct {
	*fakeAPI
	resets atomic.Int32
}

func (r *resettingAPI) ResetCache() { r.resets.Add(1) }

func TestFailedLoginKeepsExistingSession(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	c := client.New(srv.URL + "/api/v1")
	nav := &recordingNav{}
	s, storage := signedIn(t, c, WithNavigator(nav))
	c.AttachSession(s)

	res := s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "wrong"})
	assert.False(t, res.OK)
	assert.Equal(t, "wrong username or password", res.Message)

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "tok", snap.Token)
	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	require.NotNil(t, user)
	assert.Equal(t, student.ID, user.ID)
	assert.Empty(t, nav.resets())
}

func TestFailedLoginLeavesStoredSessionUntouched(t *testing.T) {
	srv := newBackend(t, http.StatusOK)
	c := client.New(srv.URL + "/api/v1")
	storage := NewMemoryStorage("tok-prev", &student)
	s := NewStore(c, storage)
	c.AttachSession(s)

	res := s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "wrong"})
	assert.False(t, res.OK)
	assert.Equal(t, "wrong username or password", res.Message)

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-prev", token)
	require.NotNil(t, user)
	assert.Equal(t, student.Username, user.Username)
}

func TestLoginFailsWhenSessionCannotBeSaved(t *testing.T) {
	api := &fakeAPI{login: func(context.Context, domain.LoginForm) (*domain.AuthToken, error) {
		return &domain.AuthToken{AccessToken: "tok-new", User: student}, nil
	}}
	storage := &failingStorage{MemoryStorage: NewMemoryStorage("", nil)}
	storage.failSave.Store(true)
	s := NewStore(api, storage)

	res := s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"})
	assert.False(t, res.OK)
	assert.Contains(t, res.Message, "could not save")
	assert.False(t, s.Snapshot().Authenticated)
	assert.Empty(t, s.Token())

	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Nil(t, user)
}

func TestUpdateProfileFailsWhenProfileCannotBeSaved(t *testing.T) {
	api := &fakeAPI{updateUser: func(_ context.Context, u domain.UserUpdate) (*domain.User, error) {
		me := student
		me.RealName = *u.RealName
		return &me, nil
	}}
	storage := &failingStorage{MemoryStorage: NewMemoryStorage("", nil)}
	s := NewStore(api, storage)
	s.state = State{User: &domain.User{ID: student.ID, Username: student.Username, RealName: "Li Lei", Role: student.Role}, Token: "tok", Authenticated: true}
	require.NoError(t, storage.Save("tok", s.state.User))
	storage.failSave.Store(true)

	res := s.UpdateProfile(context.Background(), domain.UserUpdate{RealName: strPtr("Li Wei")})
	assert.False(t, res.OK)

	snap := s.Snapshot()
	assert.True(t, snap.IsAuthenticated())
	assert.Equal(t, "Li Lei", snap.User.RealName)
	token, user, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	require.NotNil(t, user)
	assert.Equal(t, "Li Lei", user.RealName)
}

func TestRestoreFailsWhenVerifiedUserCannotBeSaved(t *testing.T) {
	api := &fakeAPI{getCurrentUser: func(context.Context) (*domain.User, error) {
		u := student
		return &u, nil
	}}
	storage := &failingStorage{MemoryStorage: NewMemoryStorage("tok", &student)}
	storage.failSave.Store(true)
	nav := &recordingNav{}
	s := NewStore(api, storage, WithNavigator(nav))

	err := <-s.RestoreSession(context.Background())
	require.Error(t, err)
	assert.False(t, s.Snapshot().Authenticated)
	token, _, _ := storage.Load()
	assert.Empty(t, token)
	assert.Equal(t, []string{LoginPath}, nav.resets())
}

func TestAccountChangeResetsAPICache(t *testing.T) {
	api := &resettingAPI{fakeAPI: &fakeAPI{login: func(context.Context, domain.LoginForm) (*domain.AuthToken, error) {
		return &domain.AuthToken{AccessToken: "tok", User: student}, nil
	}}}
	s := NewStore(api, NewMemoryStorage("", nil))

	require.True(t, s.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"}).OK)
	assert.Equal(t, int32(1), api.resets.Load())
	s.Logout()
	assert.Equal(t, int32(2), api.resets.Load())
}

func TestSnapshotDoesNotShareUser(t *testing.T) {
	s, _ := signedIn(t, &fakeAPI{})
	ch, cancel := s.Subscribe()
	defer cancel()

	snap := s.Snapshot()
	snap.User.RealName = "changed"
	assert.Empty(t, s.Snapshot().User.RealName)

	s.mu.Lock()
	s.publishLocked()
	s.mu.Unlock()
	got := <-ch
	got.User.Username = "changed"
	assert.Equal(t, student.Username, s.Snapshot().User.Username)
}
