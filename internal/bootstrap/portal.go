package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/redis/go-redis/v9"
	"github.com/target/hrportal-go/config"
	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/guard"
	"github.com/target/hrportal-go/internal/observability/notify"
	"github.com/target/hrportal-go/internal/observability/statsd"
	"github.com/target/hrportal-go/internal/ports"
	"github.com/target/hrportal-go/internal/service"
	"github.com/target/hrportal-go/internal/session"
	"github.com/target/hrportal-go/internal/transport"
)

// PortalOptions customizes portal wiring. All fields are optional.
type PortalOptions struct {
	// Redirector receives navigation signals: ToLogin on session teardown.
	// When nil, teardowns are logged only.
	Redirector ports.Redirector

	// Notifier surfaces human-readable auth failures. Defaults to slog.
	Notifier notify.Sink
}

// Portal is the composition root: the HTTP pipeline, the session tracker,
// the auth service, and the view guard, wired per the loaded config.
type Portal struct {
	Config   config.AppConfig
	HTTP     *http.Client
	Sessions *session.Tracker
	Guard    *guard.Guard
	Auth     *service.AuthService
	Prefs    ports.PrefStore
	Metrics  *statsd.Client

	logger *slog.Logger
	redis  *redis.Client
}

// NewPortal wires the portal from configuration.
func NewPortal(cfg config.AppConfig, logger *slog.Logger, opts PortalOptions) (*Portal, error) {
	if logger == nil {
		logger = slog.Default()
	}

	baseURL, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.StatsD.Enabled,
		Address: cfg.Observability.StatsD.Address,
		Prefix:  cfg.Observability.StatsD.Prefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init statsd client: %w", err)
	}

	p := &Portal{Config: cfg, Metrics: metrics, logger: logger}

	var cache ports.SessionCache
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		p.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		store := session.NewRedisStore(p.redis, cfg.Cache.KeyPrefix, cfg.Cache.TTL())
		cache = store
		p.Prefs = store
	default:
		store := session.NewMemoryStore()
		cache = store
		p.Prefs = store
	}

	p.Sessions = session.NewTracker(cache, logger)

	p.HTTP, err = transport.NewClient(transport.Options{
		BaseURL:        baseURL,
		Timeout:        cfg.API.Timeout(),
		CSRFCookieName: cfg.API.CSRFCookieName,
		CSRFHeaderName: cfg.API.CSRFHeaderName,
		Sessions:       p.Sessions,
		Logger:         logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build HTTP client: %w", err)
	}

	required := domainauth.Role(cfg.Auth.RequiredRole)

	p.Auth = service.NewAuthService(service.AuthServiceOptions{
		HTTP:         p.HTTP,
		BaseURL:      cfg.API.BaseURL,
		RequiredRole: required,
		Sessions:     p.Sessions,
		Prefs:        p.Prefs,
		Logger:       logger,
		Metrics:      metrics,
		Notifier:     opts.Notifier,
	})

	p.Guard = guard.New(guard.Options{
		Auth:         p.Auth,
		Sessions:     p.Sessions,
		RequiredRole: required,
		Logger:       logger,
		Metrics:      metrics,
	})

	p.Sessions.OnInvalidated(func(context.Context, string) {
		metrics.Count("auth.invalidated_401", 1, nil)
	})
	if opts.Redirector != nil {
		redirector := opts.Redirector
		p.Sessions.OnInvalidated(func(ctx context.Context, reason string) {
			redirector.ToLogin(ctx, reason)
		})
	}

	return p, nil
}

// Close releases external connections held by the portal.
func (p *Portal) Close() error {
	var firstErr error
	if p.redis != nil {
		if err := p.redis.Close(); err != nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}
	if err := p.Metrics.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close statsd: %w", err)
	}
	return firstErr
}
