package testutil

// Package testutil provides shared helpers for integration-style tests.

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisAddr = "localhost:6379"

// redisAddr resolves the test Redis address from REDIS_ADDR, falling back
// to the local default.
func redisAddr() string {
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		return addr
	}
	return defaultRedisAddr
}

// requireRedis reports whether tests must fail (rather than skip) when
// Redis is unreachable. Set REQUIRE_REDIS=true in CI.
func requireRedis() bool {
	return strings.EqualFold(os.Getenv("REQUIRE_REDIS"), "true")
}

// SetupTestRedis creates a Redis client for testing. Tests are skipped if
// Redis is not available, unless REQUIRE_REDIS=true.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: redisAddr()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if cerr := client.Close(); cerr != nil {
			t.Logf("warning: close redis client after ping error: %v", cerr)
		}
		if requireRedis() {
			t.Fatalf("Redis not available for testing: %v", err)
		}
		t.Skipf("Redis not available for testing: %v", err)
	}

	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("warning: close redis client: %v", err)
		}
	})
	return client
}
