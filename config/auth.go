package config

import "strings"

// AuthConfig groups the role gate and the redirect targets used when a
// session resolves.
type AuthConfig struct {
	// RequiredRole is the single role admitted to this portal.
	RequiredRole string `env:"REQUIRED_ROLE" envDefault:"HR"`

	// LoginPath is where terminal Unauthenticated transitions redirect to.
	LoginPath string `env:"LOGIN_PATH" envDefault:"/login"`

	// LandingPath is where a successful login redirects to.
	LandingPath string `env:"LANDING_PATH" envDefault:"/dashboard"`
}

// Sanitize applies guardrails to the auth configuration.
func (c *AuthConfig) Sanitize() {
	if strings.TrimSpace(c.RequiredRole) == "" {
		c.RequiredRole = "HR"
	}
	if strings.TrimSpace(c.LoginPath) == "" {
		c.LoginPath = "/login"
	}
	if strings.TrimSpace(c.LandingPath) == "" {
		c.LandingPath = "/dashboard"
	}
}
