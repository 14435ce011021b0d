package transport

// Package transport implements the portal's HTTP client pipeline: a
// cookie jar holding the backend's httpOnly session cookie, a request
// stage that attaches the double-submit CSRF header, and a response stage
// that classifies backend rejections. Stages are ordered structurally by
// wrapping, so CSRF attachment always precedes the send and 401 handling
// always completes before a rejection reaches the caller.

import (
	"net/http"
	"net/url"
)

// CookieToken reads the double-submit CSRF cookie from the jar. Pure
// lookup: no I/O, no error. A nil jar, missing cookie, or empty value all
// report absent, which is an expected state, not a failure.
func CookieToken(jar http.CookieJar, base *url.URL, name string) (string, bool) {
	if jar == nil || base == nil || name == "" {
		return "", false
	}
	for _, c := range jar.Cookies(base) {
		if c.Name == name && c.Value != "" {
			return c.Value, true
		}
	}
	return "", false
}

// TokenFunc binds CookieToken to one jar for use by CSRFTransport.
func TokenFunc(jar http.CookieJar, base *url.URL, name string) func() (string, bool) {
	return func() (string, bool) {
		return CookieToken(jar, base, name)
	}
}
