package kiosk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Food-Locker/consumer/internal/assignment"
	"github.com/Food-Locker/consumer/internal/auth"
	"github.com/Food-Locker/consumer/internal/auth/profile"
	"github.com/Food-Locker/consumer/internal/notify"
	"github.com/Food-Locker/consumer/internal/seat"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type mapProfiles struct {
	profiles map[string]*profile.Profile
}

func (m *mapProfiles) Get(_ context.Context, externalID string) (*profile.Profile, error) {
	p, ok := m.profiles[externalID]
	if !ok {
		return nil, profile.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mapProfiles) Update(_ context.Context, externalID string, patch profile.Patch) error {
	p, ok := m.profiles[externalID]
	if !ok {
		return profile.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Email != nil {
		p.Email = *patch.Email
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	return nil
}

type kioskFixture struct {
	router  *gin.Engine
	manager *auth.Manager
	store   *seat.Store
	queue   *notify.Queue
}

func newFixture(t *testing.T, lockerStatus int, lockerBody string) *kioskFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(lockerStatus)
		_, _ = w.Write([]byte(lockerBody))
	}))
	t.Cleanup(backend.Close)

	profiles := &mapProfiles{profiles: map[string]*profile.Profile{
		"guest-1": {Name: "Ada", Email: "ada@example.com"},
	}}

	manager := auth.NewManager(profiles)
	t.Cleanup(manager.Close)

	store := seat.NewStore(seat.NewMemoryKV())
	queue := notify.NewQueue()
	workflow := assignment.NewWorkflow(
		assignment.NewClient(backend.URL),
		manager,
		store,
		queue,
		assignment.WithCloseDelay(10*time.Millisecond),
	)
	t.Cleanup(workflow.Close)

	router := gin.New()
	NewHandler(manager, workflow, store, queue).RegisterRoutes(router.Group("/api"))

	return &kioskFixture{
		router:  router,
		manager: manager,
		store:   store,
		queue:   queue,
	}
}

func (f *kioskFixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.manager.SignIn(context.Background(), &auth.Identity{
		ExternalID:  "guest-1",
		DisplayName: "ada",
		Email:       "ada@provider.example",
	}))
	require.Eventually(t, func() bool {
		return f.manager.State() == auth.StateAuthenticatedWithProfile
	}, time.Second, 5*time.Millisecond)
}

func do(f *kioskFixture, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Me(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{}`)

	t.Run("signed out", func(t *testing.T) {
		rec := do(f, http.MethodGet, "/api/me", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"authenticated":false`)
	})

	t.Run("signed in", func(t *testing.T) {
		f.signIn(t)
		rec := do(f, http.MethodGet, "/api/me", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, `"authenticated":true`)
		require.Contains(t, body, `"displayName":"Ada"`)
		require.Contains(t, body, `"contactEmail":"ada@example.com"`)
		require.Contains(t, body, `"externalId":"guest-1"`)
	})
}

func TestHandler_SubmitSeat(t *testing.T) {
	t.Run("assigns and persists", func(t *testing.T) {
		f := newFixture(t, http.StatusOK,
			`{"success":true,"data":{"lockerId":"L-12","location":"Gate 3","zone":"North"}}`)
		f.signIn(t)

		rec := do(f, http.MethodPost, "/api/seat", `{"seatBlock":"102"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"lockerId":"L-12"`)

		got, err := f.store.Get(context.Background())
		require.NoError(t, err)
		require.Equal(t, "102", got.SeatBlock)

		rec = do(f, http.MethodGet, "/api/seat", "")
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"lockerLocation":"Gate 3"`)
	})

	t.Run("blank seat block", func(t *testing.T) {
		f := newFixture(t, http.StatusOK, `{}`)
		f.signIn(t)

		rec := do(f, http.MethodPost, "/api/seat", `{"seatBlock":"   "}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("signed out guest", func(t *testing.T) {
		f := newFixture(t, http.StatusOK, `{}`)

		rec := do(f, http.MethodPost, "/api/seat", `{"seatBlock":"102"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("backend rejection surfaces field error", func(t *testing.T) {
		f := newFixture(t, http.StatusBadRequest, `{"error":"no lockers nearby"}`)
		f.signIn(t)

		rec := do(f, http.MethodPost, "/api/seat", `{"seatBlock":"B-9"}`)
		require.Equal(t, http.StatusBadGateway, rec.Code)
		require.Contains(t, rec.Body.String(), "no lockers nearby")

		got, err := f.store.Get(context.Background())
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func TestHandler_ClearSeat(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{}`)
	require.NoError(t, f.store.Set(context.Background(), seat.Assignment{
		SeatBlock: "102", LockerID: "L-1", Location: "Gate 1",
	}))

	rec := do(f, http.MethodDelete, "/api/seat", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	got, err := f.store.Get(context.Background())
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestHandler_Notifications(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{}`)

	rec := do(f, http.MethodGet, "/api/notifications/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"notification":null`)

	f.queue.Enqueue("locker ready", notify.KindInfo, time.Minute)

	rec = do(f, http.MethodGet, "/api/notifications/current", "")
	require.Contains(t, rec.Body.String(), "locker ready")
	require.Contains(t, rec.Body.String(), `"kind":"info"`)

	rec = do(f, http.MethodPost, "/api/notifications/dismiss", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Nil(t, f.queue.Current())
}

func TestHandler_UpdateProfile(t *testing.T) {
	f := newFixture(t, http.StatusOK, `{}`)
	f.signIn(t)

	rec := do(f, http.MethodPut, "/api/me", `{"phone":"010-1234"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"phone":"010-1234"`)
	require.Equal(t, "010-1234", f.manager.Profile().Phone)

	t.Run("requires identity", func(t *testing.T) {
		f.manager.SignOut()
		rec := do(f, http.MethodPut, "/api/me", `{"phone":"000"}`)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
