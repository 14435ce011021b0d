package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	apperrors "github.com/target/hrportal-go/internal/errors"
	"github.com/target/hrportal-go/internal/observability/notify"
	"github.com/target/hrportal-go/internal/observability/statsd"
	"github.com/target/hrportal-go/internal/ports"
	"github.com/target/hrportal-go/internal/session"
)

// Backend endpoints, relative to the API base URL.
const (
	loginPath  = "/auth/login"
	mePath     = "/auth/me"
	logoutPath = "/auth/logout"
)

// maxBodyBytes bounds how much of a backend response we read.
const maxBodyBytes = 1 << 20

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	// HTTP is the portal client built by internal/transport. Its cookie
	// jar carries the httpOnly session cookie; this service never sees it.
	HTTP *http.Client
	// BaseURL is the backend API root, without trailing slash.
	BaseURL string
	// RequiredRole is the single role admitted to this portal.
	RequiredRole domainauth.Role
	// Sessions owns session-state writes.
	Sessions *session.Tracker
	// Prefs persists the remember-me flag.
	Prefs ports.PrefStore
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Metrics defaults to a disabled sink.
	Metrics statsd.Sink
	// Notifier surfaces human-readable failures. Defaults to a slog sink.
	Notifier notify.Sink
}

// AuthService implements the login, logout, and "who am I" flows against
// the backend. It is the only component that calls Establish on the
// session tracker.
type AuthService struct {
	http     *http.Client
	baseURL  string
	required domainauth.Role
	sessions *session.Tracker
	prefs    ports.PrefStore
	logger   *slog.Logger
	metrics  statsd.Sink
	notifier notify.Sink
}

var _ ports.Authenticator = (*AuthService)(nil)

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Disabled()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.SlogSink{Logger: logger}
	}
	required := opts.RequiredRole
	if required == "" {
		required = domainauth.RoleHR
	}
	return &AuthService{
		http:     opts.HTTP,
		baseURL:  opts.BaseURL,
		required: required,
		sessions: opts.Sessions,
		prefs:    opts.Prefs,
		logger:   logger,
		metrics:  metrics,
		notifier: notifier,
	}
}

// loginRequest is the body of POST /auth/login, annotated with the role
// this portal requires.
type loginRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Role     domainauth.Role `json:"role"`
}

// identityPayload mirrors the backend user record.
type identityPayload struct {
	ID        string          `json:"id"`
	FullName  string          `json:"fullName"`
	Email     string          `json:"email"`
	Role      domainauth.Role `json:"role"`
	CompanyID string          `json:"companyId"`
}

// normalize maps the backend record to the domain identity. DisplayName
// falls back to the email when the backend omits fullName.
func (p identityPayload) normalize() domainauth.Identity {
	name := p.FullName
	if name == "" {
		name = p.Email
	}
	return domainauth.Identity{
		ID:             p.ID,
		DisplayName:    name,
		Email:          p.Email,
		Role:           p.Role,
		OrganizationID: p.CompanyID,
	}
}

// loginResponse is the body of a successful login. AccessToken is
// deliberately ignored: the session travels only in the httpOnly cookie,
// and this client does not preserve the bearer-token variant.
type loginResponse struct {
	User        identityPayload `json:"user"`
	AccessToken string          `json:"accessToken"`
}

// Login sends exactly one authorization request annotated with the
// required role. A response reporting any other role fails with a
// role-gate error even though the backend call succeeded; no session
// state is written on any failure path.
func (s *AuthService) Login(ctx context.Context, creds ports.Credentials) (domainauth.Identity, error) {
	var zero domainauth.Identity

	if creds.Email == "" {
		return zero, apperrors.ValidationField("email", "email is required")
	}
	if creds.Password == "" {
		return zero, apperrors.ValidationField("password", "password is required")
	}

	body, err := json.Marshal(loginRequest{Email: creds.Email, Password: creds.Password, Role: s.required})
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		s.metrics.Count("auth.login", 1, map[string]string{"result": "transport"})
		return zero, apperrors.Wrap(err, apperrors.ErrCodeTransport, "login request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		s.metrics.Count("auth.login", 1, map[string]string{"result": "transport"})
		return zero, apperrors.Wrap(err, apperrors.ErrCodeTransport, "read login response")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg := BackendMessage(payload)
		s.logger.InfoContext(ctx, "login rejected", "status", resp.StatusCode)
		s.metrics.Count("auth.login", 1, map[string]string{"result": "rejected"})
		s.notify(ctx, notify.KindLoginFailed, msg, nil)
		return zero, apperrors.Validation(msg)
	}

	var decoded loginResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode login response")
	}

	id := decoded.User.normalize()
	if id.Role != s.required {
		s.logger.WarnContext(ctx, "login rejected: role not admitted",
			"user_id", id.ID, "role", id.Role, "required", s.required)
		s.metrics.Count("auth.login", 1, map[string]string{"result": "forbidden_role"})
		return zero, apperrors.ForbiddenRolef("only %s accounts can access this portal", s.required)
	}

	if err := s.sessions.Establish(ctx, id); err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "record session")
	}
	if creds.RememberMe && s.prefs != nil {
		if err := s.prefs.SetFlag(ctx, ports.PrefRememberMe, "true"); err != nil {
			s.logger.WarnContext(ctx, "persist remember-me flag failed", "error", err)
		}
	}

	s.logger.InfoContext(ctx, "login succeeded", "user_id", id.ID, "org_id", id.OrganizationID)
	s.metrics.Count("auth.login", 1, map[string]string{"result": "ok"})
	return id, nil
}

// meResponse tolerates both shapes the backend variants emit for
// GET /auth/me: the bare user record, or the record under a "user" key.
type meResponse struct {
	User *identityPayload `json:"user"`
}

// WhoAmI asks the backend who the current session belongs to. A 401
// reports Unauthorized; the caller decides what that means for local
// state (the transport pipeline has already torn the session down).
func (s *AuthService) WhoAmI(ctx context.Context) (domainauth.Identity, error) {
	var zero domainauth.Identity

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+mePath, nil)
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build whoami request")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeTransport, "verify session")
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeTransport, "read whoami response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return zero, apperrors.Unauthorized("no valid backend session")
	case resp.StatusCode != http.StatusOK:
		return zero, apperrors.Transportf("verify session: backend returned %d", resp.StatusCode)
	}

	var envelope meResponse
	if err := json.Unmarshal(payload, &envelope); err == nil && envelope.User != nil {
		return envelope.User.normalize(), nil
	}

	var bare identityPayload
	if err := json.Unmarshal(payload, &bare); err != nil {
		return zero, apperrors.Wrap(err, apperrors.ErrCodeInternal, "decode whoami response")
	}
	return bare.normalize(), nil
}

// Logout invalidates the backend session on a best-effort basis. Local
// session state and the remember-me flag are cleared no matter what the
// backend says; the user can always log out. The theme preference
// survives. Always returns nil.
func (s *AuthService) Logout(ctx context.Context) error {
	defer func() {
		s.sessions.Reset(ctx)
		if s.prefs != nil {
			if err := s.prefs.DeleteFlag(ctx, ports.PrefRememberMe); err != nil {
				s.logger.WarnContext(ctx, "clear remember-me flag failed", "error", err)
			}
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+logoutPath, nil)
	if err != nil {
		s.logger.WarnContext(ctx, "build logout request failed, clearing local session anyway", "error", err)
		s.metrics.Count("auth.logout", 1, map[string]string{"result": "local_only"})
		return nil
	}

	resp, err := s.http.Do(req)
	if err != nil {
		s.logger.WarnContext(ctx, "backend logout failed, clearing local session anyway", "error", err)
		s.metrics.Count("auth.logout", 1, map[string]string{"result": "local_only"})
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()

	s.metrics.Count("auth.logout", 1, map[string]string{"result": "ok"})
	return nil
}

func (s *AuthService) notify(ctx context.Context, kind, message string, fields map[string]string) {
	evt := notify.Event{Kind: kind, Message: message, OccurredAt: time.Now(), Fields: fields}
	if err := s.notifier.Notify(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "user notification failed", "kind", kind, "error", err)
	}
}
