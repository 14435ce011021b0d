package notify

import (
	"context"
	"log/slog"
	"time"
)

// Event kinds emitted by the auth core.
const (
	KindLoginFailed    = "login_failed"
	KindSessionExpired = "session_expired"
)

// Event is a human-readable notification for the UI surface (toast or
// equivalent). Message is already safe to show to the user.
type Event struct {
	Kind       string
	Message    string
	OccurredAt time.Time
	Fields     map[string]string
}

// Sink describes a destination capable of consuming user notifications.
type Sink interface {
	Notify(ctx context.Context, evt Event) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, evt Event) error

// Notify implements the Sink interface.
func (f SinkFunc) Notify(ctx context.Context, evt Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, evt)
}

// SlogSink logs notifications. It is the default surface when no UI is wired.
type SlogSink struct {
	Logger *slog.Logger
}

// Notify implements the Sink interface.
func (s SlogSink) Notify(ctx context.Context, evt Event) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attrs := []any{"kind", evt.Kind, "message", evt.Message}
	for k, v := range evt.Fields {
		attrs = append(attrs, k, v)
	}
	logger.InfoContext(ctx, "user notification", attrs...)
	return nil
}
