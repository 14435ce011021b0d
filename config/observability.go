package config

import "strings"

// StatsDConfig configures the StatsD metrics sink.
type StatsDConfig struct {
	// Enabled turns metric emission on. Requires Address.
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// Address is the UDP host:port of the StatsD agent.
	Address string `env:"ADDRESS"`

	// Prefix is prepended to every metric name.
	Prefix string `env:"PREFIX" envDefault:"hrportal"`
}

// ObservabilityConfig groups observability-related configuration.
type ObservabilityConfig struct {
	StatsD StatsDConfig `envPrefix:"STATSD_"`
}

// Sanitize applies guardrails to the observability configuration.
func (c *ObservabilityConfig) Sanitize() {
	c.StatsD.Address = strings.TrimSpace(c.StatsD.Address)
	if c.StatsD.Address == "" {
		c.StatsD.Enabled = false
	}
}
