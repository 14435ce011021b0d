package transport

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/target/hrportal-go/config"
	"golang.org/x/net/publicsuffix"
)

// Options configures the portal HTTP client pipeline.
type Options struct {
	// BaseURL is the backend API root; the CSRF cookie is read for it.
	BaseURL *url.URL
	// Timeout bounds every round trip, including body reads.
	Timeout time.Duration
	// CSRFCookieName / CSRFHeaderName default to the config package names.
	CSRFCookieName string
	CSRFHeaderName string
	// Sessions receives 401 teardown calls.
	Sessions Invalidator
	// Logger defaults to slog.Default.
	Logger *slog.Logger
	// Base overrides the innermost transport (tests). Defaults to
	// http.DefaultTransport.
	Base http.RoundTripper
}

// NewClient builds the portal's HTTP client: a public-suffix-aware cookie
// jar holding the backend's httpOnly session cookie (never read by this
// code), wrapped by the ordered chain attach-CSRF -> send -> classify.
// All requests carry cookies by default; that is what the jar is for.
func NewClient(opts Options) (*http.Client, error) {
	if opts.BaseURL == nil {
		return nil, fmt.Errorf("base URL is required")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("build cookie jar: %w", err)
	}

	base := opts.Base
	if base == nil {
		base = http.DefaultTransport
	}

	cookieName := opts.CSRFCookieName
	if cookieName == "" {
		cookieName = config.DefaultCSRFCookieName
	}

	chain := &CSRFTransport{
		Base: &UnauthorizedTransport{
			Base:     base,
			Sessions: opts.Sessions,
			Logger:   opts.Logger,
		},
		HeaderName: opts.CSRFHeaderName,
		Token:      TokenFunc(jar, opts.BaseURL, cookieName),
		Logger:     opts.Logger,
	}

	return &http.Client{
		Jar:       jar,
		Transport: chain,
		Timeout:   opts.Timeout,
	}, nil
}
