package auth

// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/observability/notify"
	"github.com/target/hrportal-go/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.Authenticator = (*MockAuthenticator)(nil)
	_ ports.Redirector    = (*RecordingRedirector)(nil)
	_ notify.Sink         = (*RecordingSink)(nil)
)

// MockAuthenticator simulates the backend auth round trips with
// per-method override funcs and call counting.
type MockAuthenticator struct {
	LoginFunc  func(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error)
	WhoAmIFunc func(ctx context.Context) (domainauth.Identity, error)
	LogoutFunc func(ctx context.Context) error

	// DefaultIdentity is returned when no override func is set.
	DefaultIdentity domainauth.Identity

	mu          sync.Mutex
	loginCalls  int
	whoAmICalls int
	logoutCalls int
}

// NewMockAuthenticator creates a MockAuthenticator with a sensible default identity.
func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{
		DefaultIdentity: domainauth.Identity{
			ID:             "mock-user-1",
			DisplayName:    "Mock User",
			Email:          "mock.user@example.com",
			Role:           domainauth.RoleHR,
			OrganizationID: "org-1",
		},
	}
}

func (m *MockAuthenticator) Login(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	m.mu.Lock()
	m.loginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return m.DefaultIdentity, nil
}

func (m *MockAuthenticator) WhoAmI(ctx context.Context) (domainauth.Identity, error) {
	m.mu.Lock()
	m.whoAmICalls++
	m.mu.Unlock()
	if m.WhoAmIFunc != nil {
		return m.WhoAmIFunc(ctx)
	}
	return m.DefaultIdentity, nil
}

func (m *MockAuthenticator) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.logoutCalls++
	m.mu.Unlock()
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

// LoginCalls returns how many times Login was invoked.
func (m *MockAuthenticator) LoginCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loginCalls
}

// WhoAmICalls returns how many times WhoAmI was invoked.
func (m *MockAuthenticator) WhoAmICalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.whoAmICalls
}

// LogoutCalls returns how many times Logout was invoked.
func (m *MockAuthenticator) LogoutCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logoutCalls
}

// RecordingRedirector captures navigation requests from the view layer.
type RecordingRedirector struct {
	mu           sync.Mutex
	loginCalls   []string
	landingCalls int
}

func (r *RecordingRedirector) ToLogin(_ context.Context, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loginCalls = append(r.loginCalls, reason)
}

func (r *RecordingRedirector) ToLanding(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.landingCalls++
}

// LoginRedirects returns the reasons passed to ToLogin, in order.
func (r *RecordingRedirector) LoginRedirects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.loginCalls))
	copy(out, r.loginCalls)
	return out
}

// LandingRedirects returns how many times ToLanding was invoked.
func (r *RecordingRedirector) LandingRedirects() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.landingCalls
}

// RecordingSink captures user notifications.
type RecordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *RecordingSink) Notify(_ context.Context, evt notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evt)
	return nil
}

// Events returns the captured notifications, in order.
func (s *RecordingSink) Events() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Event, len(s.events))
	copy(out, s.events)
	return out
}
