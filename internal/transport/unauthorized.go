package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
)

// Invalidator is the session teardown hook the response stage drives on a
// backend 401. Invalidate returns true when this call performed the
// teardown (it runs at most once per session instance).
type Invalidator interface {
	Invalidate(ctx context.Context, reason string) bool
}

// UnauthorizedTransport is the response stage of the pipeline. A 401
// tears the local session down before the response is returned, so any
// code reacting to the rejection observes a consistent Unauthenticated
// state. Every other status and every transport error passes through
// untouched; only the backend saying "no session" invalidates.
type UnauthorizedTransport struct {
	// Base is the next stage. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// Sessions receives the teardown call.
	Sessions Invalidator
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

var _ http.RoundTripper = (*UnauthorizedTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *UnauthorizedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil || resp == nil {
		return resp, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.Sessions != nil {
		reason := fmt.Sprintf("%s %s returned 401", req.Method, req.URL.Path)
		if t.Sessions.Invalidate(req.Context(), reason) {
			logger := t.Logger
			if logger == nil {
				logger = slog.Default()
			}
			logger.InfoContext(req.Context(), "session invalidated by backend",
				"method", req.Method, "path", req.URL.Path)
		}
	}

	return resp, nil
}
