package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/coachdesk/pkg/domain"
	"github.com/naveenspark/coachdesk/pkg/notice"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.logouts++
}

func (s *fakeSession) logoutCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

type recordedNotice struct {
	level notice.Level
	text  string
}

type noticeRecorder struct {
	mu    sync.Mutex
	items []recordedNotice
}

func (r *noticeRecorder) Notify(level notice.Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, recordedNotice{level, text})
}

func (r *noticeRecorder) last() recordedNotice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return recordedNotice{}
	}
	return r.items[len(r.items)-1]
}

func newBackend(t *testing.T, register func(r *mux.Router)) *httptest.Server {
	t.Helper()
	r := mux.NewRouter()
	register(r.PathPrefix("/api/v1").Subrouter())
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestGetCurrentUser(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/users/me", func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer test-token" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
				return
			}
			writeJSON(w, http.StatusOK, domain.User{ID: 3, Username: "zhang", Role: domain.RoleCoach})
		}).Methods(http.MethodGet)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "test-token"}))
	me, err := c.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "zhang", me.Username)
	assert.Equal(t, domain.RoleCoach, me.Role)
}

func TestRequestWithoutTokenHasNoAuthHeader(t *testing.T) {
	var gotAuth, gotRequestID string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/campus/main", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get(RequestIDHeader)
			writeJSON(w, http.StatusOK, domain.Campus{ID: 1, Name: "Main"})
		})
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{}))
	_, err := c.GetMainCampus(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.Len(t, gotRequestID, 36)
}

func TestUnauthorizedTriggersLogout(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/users/me", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "invalid token"})
		})
	})

	sess := &fakeSession{token: "stale"}
	rec := &noticeRecorder{}
	c := New(srv.URL+"/api/v1", WithSession(sess), WithNotifier(rec))

	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 401")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
	assert.Equal(t, 1, sess.logoutCount())
	assert.Equal(t, recordedNotice{notice.Error, "login expired, please log in again"}, rec.last())
}

func TestLoginRejectedKeepsExistingSession(t *testing.T) {
	var gotAuth string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "wrong username or password"})
		}).Methods(http.MethodPost)
	})

	sess := &fakeSession{token: "signed-in"}
	rec := &noticeRecorder{}
	c := New(srv.URL+"/api/v1", WithSession(sess), WithNotifier(rec))

	_, err := c.Login(context.Background(), domain.LoginForm{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Empty(t, gotAuth, "login must not carry the current token")
	assert.Equal(t, 0, sess.logoutCount())
	assert.Equal(t, "signed-in", sess.Token())
	assert.Equal(t, "wrong username or password", UserMessage(err))
	assert.Equal(t, "wrong username or password", rec.last().text)
}

func TestRegisterIsAnonymous(t *testing.T) {
	var gotAuth string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/auth/register/student", func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeJSON(w, http.StatusOK, domain.User{ID: 40, Username: "new", Role: domain.RoleStudent})
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "signed-in"}))
	u, err := c.RegisterStudent(context.Background(), domain.RegisterForm{Username: "new"})
	require.NoError(t, err)
	assert.Equal(t, 40, u.ID)
	assert.Empty(t, gotAuth)
}

func TestStatusMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"forbidden", http.StatusForbidden, map[string]string{"detail": "nope"}, "insufficient permissions"},
		{"not found", http.StatusNotFound, map[string]string{"detail": "gone"}, "requested resource does not exist"},
		{"validation", http.StatusUnprocessableEntity, map[string]any{"detail": []map[string]string{
			{"msg": "field required"}, {"msg": "value is not a valid integer"},
		}}, "field required, value is not a valid integer"},
		{"validation string detail", http.StatusUnprocessableEntity, map[string]string{"detail": "bad phone"}, "bad phone"},
		{"validation empty", http.StatusUnprocessableEntity, map[string]string{}, "invalid request parameters"},
		{"server error", http.StatusInternalServerError, map[string]string{"detail": "boom"}, "internal server error"},
		{"other with message", http.StatusConflict, map[string]string{"message": "slot taken"}, "slot taken"},
		{"other without message", http.StatusBadGateway, map[string]string{}, "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newBackend(t, func(r *mux.Router) {
				r.HandleFunc("/bookings/today", func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, tt.status, tt.body)
				})
			})
			sess := &fakeSession{token: "tok"}
			rec := &noticeRecorder{}
			c := New(srv.URL+"/api/v1", WithSession(sess), WithNotifier(rec))

			_, err := c.TodayBookings(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.want, UserMessage(err))
			assert.Equal(t, tt.want, rec.last().text)
			assert.Zero(t, sess.logoutCount())

			kind, ok := KindOf(err)
			require.True(t, ok)
			assert.Equal(t, KindStatus, kind)
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL + "/api/v1"
	srv.Close()

	rec := &noticeRecorder{}
	c := New(base, WithNotifier(rec))
	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
	assert.Equal(t, "network connection failed", rec.last().text)
}

func TestConfigFailure(t *testing.T) {
	c := New("://not a url")
	_, err := c.GetCurrentUser(context.Background())
	require.Error(t, err)

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindConfig, kind)
	assert.Equal(t, "request configuration error", UserMessage(err))
}

func TestListBookingsQuery(t *testing.T) {
	var gotQuery map[string]string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{}
			for k := range r.URL.Query() {
				gotQuery[k] = r.URL.Query().Get(k)
			}
			writeJSON(w, http.StatusOK, []domain.Booking{{ID: 1, Status: domain.BookingPending}})
		})
	})

	c := New(srv.URL + "/api/v1")
	bookings, err := c.ListBookings(context.Background(), domain.BookingQuery{
		Status:  domain.BookingPending,
		CoachID: 4,
		Limit:   20,
	})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, map[string]string{"status": "pending", "coach_id": "4", "limit": "20"}, gotQuery)
}

func TestListBookingsEmpty(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/bookings/my", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, []domain.Booking{})
		})
	})

	c := New(srv.URL + "/api/v1")
	bookings, err := c.MyBookings(context.Background(), "", 0, 50)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestChangePasswordNoContent(t *testing.T) {
	var got domain.PasswordChange
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/users/change-password", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
			w.WriteHeader(http.StatusNoContent)
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	err := c.ChangePassword(context.Background(), domain.PasswordChange{OldPassword: "old", NewPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, "old", got.OldPassword)
	assert.Equal(t, "new", got.NewPassword)
}

func TestCampusListIsCachedUntilMutation(t *testing.T) {
	var listCalls int
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/campus", func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusOK, domain.Campus{ID: 9, Name: "East"})
				return
			}
			listCalls++
			writeJSON(w, http.StatusOK, []domain.Campus{{ID: 1, Name: "Main"}})
		})
	})

	c := New(srv.URL + "/api/v1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		campuses, err := c.ListCampuses(ctx, "", 0, 0)
		require.NoError(t, err)
		require.Len(t, campuses, 1)
	}
	assert.Equal(t, 1, listCalls)

	_, err := c.CreateCampus(ctx, domain.CampusInput{Name: "East"})
	require.NoError(t, err)

	_, err = c.ListCampuses(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, listCalls)

	c.ResetCache()
	_, err = c.ListCampuses(ctx, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, listCalls)
}

func TestGenerateQRCodeRejectsOffline(t *testing.T) {
	c := New("http://127.0.0.1:1/api/v1")
	_, err := c.GenerateQRCode(context.Background(), domain.PaymentOffline, 1)
	require.Error(t, err)
	_, isHTTP := KindOf(err)
	assert.False(t, isHTTP)
}

func TestRegisterForCompetitionSendsGroupAsQuery(t *testing.T) {
	var group string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/competitions/{id}/register", func(w http.ResponseWriter, r *http.Request) {
			group = r.URL.Query().Get("group_type")
			assert.Equal(t, "12", mux.Vars(r)["id"])
			writeJSON(w, http.StatusOK, domain.CompetitionRegistration{ID: 5, CompetitionID: 12, GroupType: group})
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	reg, err := c.RegisterForCompetition(context.Background(), 12, "A")
	require.NoError(t, err)
	assert.Equal(t, "A", group)
	assert.Equal(t, 5, reg.ID)
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second): // slow server
		}
		writeJSON(w, http.StatusOK, domain.User{})
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	_, err := c.GetCurrentUser(ctx)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, kind)
}

func TestPendingEvaluationsDecodesBooking(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/evaluations/pending/my", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"course_id":21,"booking_id":21,"booking":{"start_time":"2026-11-02T18:00:00","end_time":"2026-11-02T19:00:00","student_name":"Lin Tao"}}]`)) //nolint:errcheck
		}).Methods(http.MethodGet)
	})

	c := New(srv.URL + "/api/v1")
	pending, err := c.PendingEvaluations(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, 21, pending[0].CourseID)
	assert.Equal(t, "Lin Tao", pending[0].Counterpart(domain.RoleCoach))
	assert.Equal(t, "-", pending[0].Counterpart(domain.RoleStudent))
	assert.Equal(t, 18, pending[0].Booking.StartTime.Hour())
}

func TestCreateEvaluationSendsRating(t *testing.T) {
	var got map[string]any
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/evaluations", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&got) //nolint:errcheck
			writeJSON(w, http.StatusOK, domain.Evaluation{ID: 3, CourseID: 21, EvaluatorType: domain.RoleCoach})
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	rating := 5
	e, err := c.CreateEvaluation(context.Background(), domain.EvaluationCreate{CourseID: 21, Content: "solid footwork", Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 3, e.ID)
	assert.Equal(t, map[string]any{"course_id": float64(21), "content": "solid footwork", "rating": float64(5)}, got)
}

func TestApplyCoachAndListRelations(t *testing.T) {
	var applied domain.CoachStudentCreate
	var status string
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/coach-students", func(w http.ResponseWriter, r *http.Request) {
			json.NewDecoder(r.Body).Decode(&applied) //nolint:errcheck
			writeJSON(w, http.StatusOK, domain.CoachStudent{ID: 9, CoachID: applied.CoachID, Status: domain.RelationPending})
		}).Methods(http.MethodPost)
		r.HandleFunc("/coach-students/my-coaches", func(w http.ResponseWriter, r *http.Request) {
			status = r.URL.Query().Get("status")
			writeJSON(w, http.StatusOK, []domain.CoachStudent{{ID: 9, CoachID: 12, Status: domain.RelationApproved}})
		}).Methods(http.MethodGet)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	rel, err := c.ApplyCoach(context.Background(), domain.CoachStudentCreate{CoachID: 12, ApplicationMessage: "weekday evenings"})
	require.NoError(t, err)
	assert.Equal(t, domain.RelationPending, rel.Status)
	assert.Equal(t, "weekday evenings", applied.ApplicationMessage)

	rels, err := c.MyCoaches(context.Background(), domain.RelationApproved)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "approved", status)
}

func TestApplyCoachRejectedWrapsError(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/coach-students", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "you already have two coaches"})
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	_, err := c.ApplyCoach(context.Background(), domain.CoachStudentCreate{CoachID: 12})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client.ApplyCoach")
	assert.True(t, IsStatus(err, http.StatusBadRequest))
	assert.Equal(t, "you already have two coaches", UserMessage(err))
}

func TestCoachCommentStats(t *testing.T) {
	srv := newBackend(t, func(r *mux.Router) {
		r.HandleFunc("/comments/coach/{id}/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, domain.CoachCommentStats{CoachID: 12, TotalComments: 4, AverageRating: 4.5,
				RecentComments: []domain.Comment{{ID: 1, BookingID: 5, Rating: 5}}})
		}).Methods(http.MethodGet)
		r.HandleFunc("/comments/", func(w http.ResponseWriter, r *http.Request) {
			var cc domain.CommentCreate
			json.NewDecoder(r.Body).Decode(&cc) //nolint:errcheck
			writeJSON(w, http.StatusOK, domain.Comment{ID: 2, BookingID: cc.BookingID, Rating: cc.Rating})
		}).Methods(http.MethodPost)
	})

	c := New(srv.URL+"/api/v1", WithSession(&fakeSession{token: "tok"}))
	stats, err := c.CoachCommentStats(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalComments)
	require.Len(t, stats.RecentComments, 1)

	cm, err := c.CreateComment(context.Background(), domain.CommentCreate{BookingID: 5, Rating: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, cm.BookingID)
}
