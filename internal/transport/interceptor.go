package transport

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/target/hrportal-go/config"
)

// requiresCSRF reports whether the HTTP method is state-changing. Safe
// methods (GET, HEAD, OPTIONS, TRACE) are idempotent and replay-safe and
// never carry the token.
func requiresCSRF(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

// CSRFTransport is the request stage of the pipeline. It attaches the
// double-submit CSRF header to state-changing requests before dispatch
// and logs outgoing intent with a correlation id.
//
// It never fails a request on its own: when the token cannot be read the
// request is sent without it and the backend's status code reports the
// outcome.
type CSRFTransport struct {
	// Base is the next stage. Defaults to http.DefaultTransport.
	Base http.RoundTripper
	// HeaderName is the CSRF request header. Defaults to config.DefaultCSRFHeaderName.
	HeaderName string
	// Token yields the current CSRF cookie value, if present.
	Token func() (string, bool)
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

var _ http.RoundTripper = (*CSRFTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *CSRFTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.DebugContext(req.Context(), "portal api request",
		"request_id", uuid.NewString(),
		"method", req.Method,
		"path", req.URL.Path)

	if !requiresCSRF(req.Method) {
		return base.RoundTrip(req)
	}

	token, ok := t.readToken(req, logger)
	if !ok {
		logger.DebugContext(req.Context(), "csrf token absent, sending without header",
			"method", req.Method, "path", req.URL.Path)
		return base.RoundTrip(req)
	}

	// The RoundTripper contract forbids mutating the caller's request.
	out := req.Clone(req.Context())
	out.Header.Set(t.headerName(), token)
	return base.RoundTrip(out)
}

// readToken isolates the token lookup so a misbehaving source degrades to
// send-without-token instead of failing the request.
func (t *CSRFTransport) readToken(req *http.Request, logger *slog.Logger) (token string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.WarnContext(req.Context(), "csrf token lookup failed, sending without token",
				"method", req.Method, "path", req.URL.Path, "panic", r)
			token, ok = "", false
		}
	}()

	if t.Token == nil {
		return "", false
	}
	return t.Token()
}

func (t *CSRFTransport) headerName() string {
	if t.HeaderName == "" {
		return config.DefaultCSRFHeaderName
	}
	return t.HeaderName
}
