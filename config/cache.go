package config

import (
	"fmt"
	"strings"
	"time"
)

// CacheBackend selects where the non-authoritative session mirror lives.
type CacheBackend string

const (
	// CacheBackendMemory keeps the mirror in-process (default).
	CacheBackendMemory CacheBackend = "memory"
	// CacheBackendRedis persists the mirror in Redis, for long-lived
	// kiosk/gateway deployments of the client.
	CacheBackendRedis CacheBackend = "redis"
)

// UnmarshalText implements encoding.TextUnmarshaler for CacheBackend.
func (b *CacheBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "memory", "redis":
		*b = CacheBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid CacheBackend: %q (valid options: memory, redis)", v)
	}
}

// RedisConfig holds Redis connection settings for the session cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"       envDefault:"0"`
}

// CacheConfig configures the session cache.
type CacheConfig struct {
	// Backend selects the cache implementation.
	Backend CacheBackend `env:"BACKEND" envDefault:"memory"`

	// KeyPrefix namespaces cache keys when the backend is shared.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"hrportal:"`

	// TTLMinutes bounds how long a stale identity mirror is kept.
	TTLMinutes int `env:"TTL_MINUTES" envDefault:"720"`

	// Redis connection settings (used when Backend=redis).
	Redis RedisConfig `envPrefix:"REDIS_"`
}

// Sanitize applies guardrails to the cache configuration.
func (c *CacheConfig) Sanitize() {
	if c.Backend == "" {
		c.Backend = CacheBackendMemory
	}
	if c.TTLMinutes <= 0 {
		c.TTLMinutes = 720
	}
	if strings.TrimSpace(c.KeyPrefix) == "" {
		c.KeyPrefix = "hrportal:"
	}
}

// TTL returns the mirror time-to-live as a duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}
