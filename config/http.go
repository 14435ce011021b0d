package config

import (
	"strings"
	"time"
)

const (
	// DefaultCSRFCookieName is the readable double-submit cookie set by the backend.
	DefaultCSRFCookieName = "XSRF-TOKEN"
	// DefaultCSRFHeaderName is the header the token is echoed back in (canonical form).
	DefaultCSRFHeaderName = "X-Csrf-Token"

	defaultTimeoutSeconds = 10
)

// APIConfig configures the backend HTTP client.
type APIConfig struct {
	// BaseURL is the backend API root, including the version prefix.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:3000/api/v1"`

	// TimeoutSeconds bounds every backend round trip.
	TimeoutSeconds int `env:"TIMEOUT_SECONDS" envDefault:"10"`

	// CSRFCookieName is the readable cookie the backend sets.
	CSRFCookieName string `env:"CSRF_COOKIE" envDefault:"XSRF-TOKEN"`

	// CSRFHeaderName is the request header the token travels back in.
	CSRFHeaderName string `env:"CSRF_HEADER" envDefault:"X-Csrf-Token"`
}

// Sanitize applies guardrails to the API configuration.
func (c *APIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.CSRFCookieName) == "" {
		c.CSRFCookieName = DefaultCSRFCookieName
	}
	if strings.TrimSpace(c.CSRFHeaderName) == "" {
		c.CSRFHeaderName = DefaultCSRFHeaderName
	}
}

// Timeout returns the request timeout as a duration.
func (c *APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
