package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	apperrors "github.com/target/hrportal-go/internal/errors"
	mocksauth "github.com/target/hrportal-go/internal/mocks/auth"
	"github.com/target/hrportal-go/internal/ports"
	"github.com/target/hrportal-go/internal/session"
	"github.com/target/hrportal-go/internal/transport"
)

type serviceFixture struct {
	svc      *AuthService
	tracker  *session.Tracker
	store    *session.MemoryStore
	notifier *mocksauth.RecordingSink
}

// newServiceFixture wires an AuthService through the real transport
// pipeline against the given test backend.
func newServiceFixture(t *testing.T, handler http.Handler) *serviceFixture {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	base, err := url.Parse(server.URL)
	require.NoError(t, err)

	store := session.NewMemoryStore()
	tracker := session.NewTracker(store, nil)
	client, err := transport.NewClient(transport.Options{BaseURL: base, Sessions: tracker})
	require.NoError(t, err)

	notifier := &mocksauth.RecordingSink{}
	svc := NewAuthService(AuthServiceOptions{
		HTTP:         client,
		BaseURL:      server.URL,
		RequiredRole: domainauth.RoleHR,
		Sessions:     tracker,
		Prefs:        store,
		Notifier:     notifier,
	})
	return &serviceFixture{svc: svc, tracker: tracker, store: store, notifier: notifier}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	assert.NoError(t, json.NewEncoder(w).Encode(v))
}

func hrLoginBackend(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			// The portal annotates every login with its required role.
			assert.Equal(t, "HR", body["role"])
			writeJSON(t, w, http.StatusOK, map[string]any{
				"accessToken": "ignored-by-client",
				"user": map[string]any{
					"id":        "u-7",
					"fullName":  "Priya Shah",
					"email":     "priya@example.com",
					"role":      "HR",
					"companyId": "org-2",
				},
			})
		case "/auth/logout":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
}

func TestLogin_Success(t *testing.T) {
	f := newServiceFixture(t, hrLoginBackend(t))

	id, err := f.svc.Login(context.Background(), ports.Credentials{Email: "priya@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, domainauth.Identity{
		ID:             "u-7",
		DisplayName:    "Priya Shah",
		Email:          "priya@example.com",
		Role:           domainauth.RoleHR,
		OrganizationID: "org-2",
	}, id)

	assert.Equal(t, domainauth.StatusAuthenticated, f.tracker.Status())
	cached, ok, err := f.store.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, cached)
}

func TestLogin_DisplayNameFallsBackToEmail(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": "u-1", "email": "no.name@example.com", "role": "HR"},
		})
	}))

	id, err := f.svc.Login(context.Background(), ports.Credentials{Email: "no.name@example.com", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "no.name@example.com", id.DisplayName)
}

func TestLogin_RoleGateRejectsOtherRoles(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The backend accepted the credentials, but for an Employee.
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": "u-3", "email": "emp@example.com", "role": "Employee"},
		})
	}))

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "emp@example.com", Password: "pw"})

	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenRole(err))

	// No session state was written.
	assert.NotEqual(t, domainauth.StatusAuthenticated, f.tracker.Status())
	_, ok, readErr := f.store.Read(context.Background())
	require.NoError(t, readErr)
	assert.False(t, ok)
}

func TestLogin_RejectedWithBackendMessage(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{"message": "Invalid email or password"})
	}))

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "a@example.com", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "Invalid email or password")

	events := f.notifier.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Invalid email or password", events[0].Message)
}

func TestLogin_RejectedWithoutMessageUsesGenericFallback(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "a@example.com", Password: "wrong"})

	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), GenericLoginFailure)
}

func TestLogin_ValidatesInputsBeforeAnyRequest(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := f.svc.Login(context.Background(), ports.Credentials{Password: "pw"})
	assert.Equal(t, "email", apperrors.GetField(err))

	_, err = f.svc.Login(context.Background(), ports.Credentials{Email: "a@example.com"})
	assert.Equal(t, "password", apperrors.GetField(err))
}

func TestLogin_RememberMeFlag(t *testing.T) {
	f := newServiceFixture(t, hrLoginBackend(t))

	_, err := f.svc.Login(context.Background(), ports.Credentials{Email: "priya@example.com", Password: "pw", RememberMe: true})
	require.NoError(t, err)

	v, ok, err := f.store.Flag(context.Background(), ports.PrefRememberMe)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "true", v)
}

func TestWhoAmI_BareAndWrappedShapes(t *testing.T) {
	bare := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"id": "u-1", "fullName": "Ana Cruz", "email": "ana@example.com", "role": "HR"})
	}))
	id, err := bare.svc.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", id.DisplayName)

	wrapped := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"user": map[string]any{"id": "u-1", "fullName": "Ana Cruz", "email": "ana@example.com", "role": "HR"},
		})
	}))
	id, err = wrapped.svc.WhoAmI(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Cruz", id.DisplayName)
}

func TestWhoAmI_401IsUnauthorizedAndTearsDownSession(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	require.NoError(t, f.tracker.Establish(context.Background(), domainauth.Identity{ID: "u-1", Role: domainauth.RoleHR}))

	_, err := f.svc.WhoAmI(context.Background())

	assert.True(t, apperrors.IsUnauthorized(err))
	// The pipeline's response stage already cleared local state.
	assert.Equal(t, domainauth.StatusUnauthenticated, f.tracker.Status())
}

func TestWhoAmI_5xxIsTransportNotUnauthorized(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	require.NoError(t, f.tracker.Establish(context.Background(), domainauth.Identity{ID: "u-1", Role: domainauth.RoleHR}))

	_, err := f.svc.WhoAmI(context.Background())

	assert.True(t, apperrors.IsTransport(err))
	assert.False(t, apperrors.IsUnauthorized(err))
	// A flaky backend does not invalidate the session.
	assert.Equal(t, domainauth.StatusAuthenticated, f.tracker.Status())
}

func TestLogout_ClearsLocalStateOnBackendFailure(t *testing.T) {
	f := newServiceFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()
	require.NoError(t, f.tracker.Establish(ctx, domainauth.Identity{ID: "u-1", Role: domainauth.RoleHR}))
	require.NoError(t, f.store.SetFlag(ctx, ports.PrefRememberMe, "true"))
	require.NoError(t, f.store.SetFlag(ctx, ports.PrefTheme, "dark"))

	require.NoError(t, f.svc.Logout(ctx))

	assert.Equal(t, domainauth.StatusUnauthenticated, f.tracker.Status())
	_, ok, err := f.store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = f.store.Flag(ctx, ports.PrefRememberMe)
	require.NoError(t, err)
	assert.False(t, ok)

	// The theme preference survives logout.
	theme, ok, err := f.store.Flag(ctx, ports.PrefTheme)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestLogout_IsIdempotent(t *testing.T) {
	f := newServiceFixture(t, hrLoginBackend(t))
	ctx := context.Background()
	require.NoError(t, f.tracker.Establish(ctx, domainauth.Identity{ID: "u-1", Role: domainauth.RoleHR}))

	require.NoError(t, f.svc.Logout(ctx))
	require.NoError(t, f.svc.Logout(ctx))

	assert.Equal(t, domainauth.StatusUnauthenticated, f.tracker.Status())
	_, ok, err := f.store.Read(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout_SurvivesUnreachableBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base, err := url.Parse(server.URL)
	require.NoError(t, err)
	server.Close() // total network failure

	store := session.NewMemoryStore()
	tracker := session.NewTracker(store, nil)
	client, err := transport.NewClient(transport.Options{BaseURL: base, Sessions: tracker})
	require.NoError(t, err)

	svc := NewAuthService(AuthServiceOptions{
		HTTP:     client,
		BaseURL:  server.URL,
		Sessions: tracker,
		Prefs:    store,
	})

	ctx := context.Background()
	require.NoError(t, tracker.Establish(ctx, domainauth.Identity{ID: "u-1", Role: domainauth.RoleHR}))

	require.NoError(t, svc.Logout(ctx))
	assert.Equal(t, domainauth.StatusUnauthenticated, tracker.Status())
}
