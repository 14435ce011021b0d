package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/ports"
)

// RedisStore persists the identity mirror and preference flags in Redis.
// Used when the portal client runs as a long-lived kiosk or gateway
// process whose local state must survive restarts. The mirror stays
// non-authoritative: the TTL only bounds staleness.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

var (
	_ ports.SessionCache = (*RedisStore)(nil)
	_ ports.PrefStore    = (*RedisStore)(nil)
)

// NewRedisStore creates a Redis-backed store. Keys are namespaced under
// the given prefix; the identity record expires after ttl.
func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) identityKey() string { return s.prefix + "identity" }
func (s *RedisStore) flagKey(key string) string {
	return s.prefix + "pref:" + key
}

// Write replaces the mirrored identity as a single SET.
func (s *RedisStore) Write(ctx context.Context, id domainauth.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("marshal identity: %w", err)
	}
	return s.client.Set(ctx, s.identityKey(), data, s.ttl).Err()
}

// Read returns the mirrored identity, if any. A missing key is not an error.
func (s *RedisStore) Read(ctx context.Context) (domainauth.Identity, bool, error) {
	data, err := s.client.Get(ctx, s.identityKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Identity{}, false, nil
		}
		return domainauth.Identity{}, false, fmt.Errorf("redis get: %w", err)
	}

	var id domainauth.Identity
	if unmarshalErr := json.Unmarshal([]byte(data), &id); unmarshalErr != nil {
		return domainauth.Identity{}, false, fmt.Errorf("unmarshal identity: %w", unmarshalErr)
	}
	return id, true, nil
}

// Clear removes the mirrored identity. Preference flags are untouched.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.identityKey()).Err()
}

// SetFlag stores a preference flag. Flags do not expire.
func (s *RedisStore) SetFlag(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.flagKey(key), value, 0).Err()
}

// Flag returns a preference flag, if set.
func (s *RedisStore) Flag(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.flagKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return v, true, nil
}

// DeleteFlag removes a preference flag.
func (s *RedisStore) DeleteFlag(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.flagKey(key)).Err()
}
