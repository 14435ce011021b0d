package session

// Package session owns the client's local session state: the
// non-authoritative identity mirror, the preference flags, and the
// lifecycle tracker every auth component reads from.

import (
	"context"
	"sync"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/ports"
)

// MemoryStore is the default in-process session cache. Writes replace the
// whole record under one lock so a reader can never observe a
// half-applied identity.
type MemoryStore struct {
	mu       sync.RWMutex
	identity domainauth.Identity
	present  bool
	flags    map[string]string
}

var (
	_ ports.SessionCache = (*MemoryStore)(nil)
	_ ports.PrefStore    = (*MemoryStore)(nil)
)

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{flags: make(map[string]string)}
}

// Write replaces the mirrored identity.
func (s *MemoryStore) Write(_ context.Context, id domainauth.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = id
	s.present = true
	return nil
}

// Read returns the mirrored identity, if any.
func (s *MemoryStore) Read(_ context.Context) (domainauth.Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return domainauth.Identity{}, false, nil
	}
	return s.identity, true, nil
}

// Clear removes the mirrored identity. Preference flags are untouched.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = domainauth.Identity{}
	s.present = false
	return nil
}

// SetFlag stores a preference flag.
func (s *MemoryStore) SetFlag(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags[key] = value
	return nil
}

// Flag returns a preference flag, if set.
func (s *MemoryStore) Flag(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.flags[key]
	return v, ok, nil
}

// DeleteFlag removes a preference flag.
func (s *MemoryStore) DeleteFlag(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flags, key)
	return nil
}
