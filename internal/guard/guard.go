package guard

// Package guard gates protected views. Every entry re-verifies the
// session with the backend; the local mirror is only an optimistic hint.

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	apperrors "github.com/target/hrportal-go/internal/errors"
	"github.com/target/hrportal-go/internal/observability/statsd"
	"github.com/target/hrportal-go/internal/ports"
	"github.com/target/hrportal-go/internal/session"
	"golang.org/x/sync/singleflight"
)

// Decision tells the caller what to do with a protected view.
type Decision string

const (
	// DecisionAllow releases the protected content.
	DecisionAllow Decision = "allow"
	// DecisionWait renders the neutral waiting state: no content, no redirect.
	DecisionWait Decision = "wait"
	// DecisionRedirectToLogin sends the view to the login entry point.
	DecisionRedirectToLogin Decision = "redirect_login"
)

// Options groups dependencies for Guard.
type Options struct {
	Auth         ports.Authenticator
	Sessions     *session.Tracker
	RequiredRole domainauth.Role
	Logger       *slog.Logger
	Metrics      statsd.Sink
}

// Guard runs the verification state machine for protected-view entries.
// Concurrent entries share one in-flight "who am I" round trip per
// session instance.
type Guard struct {
	auth     ports.Authenticator
	sessions *session.Tracker
	required domainauth.Role
	logger   *slog.Logger
	metrics  statsd.Sink
	group    singleflight.Group
}

// New constructs a Guard.
func New(opts Options) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = statsd.Disabled()
	}
	required := opts.RequiredRole
	if required == "" {
		required = domainauth.RoleHR
	}
	return &Guard{
		auth:     opts.Auth,
		sessions: opts.Sessions,
		required: required,
		logger:   logger,
		metrics:  metrics,
	}
}

// Status returns the current lifecycle status.
func (g *Guard) Status() domainauth.AuthStatus {
	return g.sessions.Status()
}

// Current maps the lifecycle status to a view decision without touching
// the network. While a verification is in flight it returns DecisionWait.
func (g *Guard) Current() Decision {
	switch g.sessions.Status() {
	case domainauth.StatusAuthenticated:
		return DecisionAllow
	case domainauth.StatusUnauthenticated:
		return DecisionRedirectToLogin
	default:
		return DecisionWait
	}
}

// Enter runs one protected-view entry to its terminal decision. The
// session moves to Verifying (unless already live), a "who am I" round
// trip confirms the backend session and the role gate, and the session
// resolves Authenticated or Unauthenticated. The returned error carries
// diagnostics for non-allow outcomes; callers act on the Decision alone.
func (g *Guard) Enter(ctx context.Context) (Decision, error) {
	epoch := g.sessions.BeginVerify()

	if hint, ok := g.sessions.CachedIdentity(ctx); ok && hint.Role == g.required {
		// Good enough to render a name while the round trip completes;
		// never good enough to skip it.
		g.logger.DebugContext(ctx, "cached identity hint", "user_id", hint.ID)
	}

	start := time.Now()
	result, err, _ := g.group.Do(strconv.FormatUint(epoch, 10), func() (any, error) {
		return g.auth.WhoAmI(ctx)
	})
	g.metrics.Timing("auth.verify.duration", time.Since(start), nil)

	var verified *domainauth.Identity
	outcome := "authenticated"
	switch {
	case err == nil:
		id, ok := result.(domainauth.Identity)
		if !ok {
			outcome = "internal"
			err = apperrors.Internal("verification returned unexpected result type")
			break
		}
		if id.Role != g.required {
			// A session of the wrong role is treated identically to no
			// session; the distinct outcome survives in logs only.
			outcome = "forbidden_role"
			g.logger.WarnContext(ctx, "session role not admitted",
				"user_id", id.ID, "role", id.Role, "required", g.required)
			err = apperrors.ForbiddenRolef("account role %q is not admitted to this portal", id.Role)
			break
		}
		verified = &id
	case apperrors.IsUnauthorized(err):
		outcome = "unauthorized"
		g.logger.InfoContext(ctx, "no valid backend session")
	default:
		outcome = "transport"
		g.logger.WarnContext(ctx, "session verification failed", "error", err)
	}

	status := g.sessions.CompleteVerify(ctx, epoch, verified)
	g.metrics.Count("auth.verify", 1, map[string]string{"result": outcome})

	if status == domainauth.StatusAuthenticated {
		return DecisionAllow, nil
	}
	return DecisionRedirectToLogin, err
}
