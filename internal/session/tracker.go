package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
	"github.com/target/hrportal-go/internal/ports"
)

// InvalidateFunc reacts to a session teardown. Handlers run outside the
// tracker lock, after the cache is already cleared.
type InvalidateFunc func(ctx context.Context, reason string)

// Tracker owns every write to the session cache and the lifecycle status.
// Login (Establish), logout (Reset), verification (BeginVerify /
// CompleteVerify), and the 401 handler (Invalidate) all mutate session
// state through it; everything else only reads. Status and cache move
// under one lock so no reader can observe them disagreeing.
//
// The epoch counts session instances. Every terminal Unauthenticated
// transition and every Establish bumps it, which is what makes a stale
// verification result harmless: its epoch no longer matches.
type Tracker struct {
	cache  ports.SessionCache
	logger *slog.Logger

	mu           sync.Mutex
	status       domainauth.AuthStatus
	epoch        uint64
	onInvalidate []InvalidateFunc
}

// NewTracker creates a tracker in the Unknown state.
func NewTracker(cache ports.SessionCache, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{cache: cache, logger: logger, status: domainauth.StatusUnknown}
}

// OnInvalidated registers a teardown handler. Call at wiring time only.
func (t *Tracker) OnInvalidated(fn InvalidateFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onInvalidate = append(t.onInvalidate, fn)
}

// Status returns the current lifecycle status.
func (t *Tracker) Status() domainauth.AuthStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Epoch returns the current session instance number.
func (t *Tracker) Epoch() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.epoch
}

// CachedIdentity exposes the mirror as an optimistic hint. Never proof of
// authorization.
func (t *Tracker) CachedIdentity(ctx context.Context) (domainauth.Identity, bool) {
	id, ok, err := t.cache.Read(ctx)
	if err != nil {
		t.logger.WarnContext(ctx, "session cache read failed", "error", err)
		return domainauth.Identity{}, false
	}
	return id, ok
}

// BeginVerify marks the session Verifying and returns the epoch the
// verification belongs to. An already-authenticated session keeps its
// status so live content is not torn down during a re-check.
func (t *Tracker) BeginVerify() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != domainauth.StatusAuthenticated {
		t.status = domainauth.StatusVerifying
	}
	return t.epoch
}

// CompleteVerify applies a verification outcome. A nil identity means the
// verification failed the role gate or the backend round trip; the
// session resolves Unauthenticated and the mirror is cleared. The result
// is dropped when the epoch advanced while the request was in flight: an
// invalidation or logout already won, and the more restrictive outcome
// stands. Returns the status the session resolved to.
func (t *Tracker) CompleteVerify(ctx context.Context, epoch uint64, id *domainauth.Identity) domainauth.AuthStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	if epoch != t.epoch {
		return t.status
	}

	if id != nil {
		if err := t.cache.Write(ctx, *id); err != nil {
			t.logger.WarnContext(ctx, "session cache write failed", "error", err)
		}
		t.status = domainauth.StatusAuthenticated
		return t.status
	}

	t.clearLocked(ctx)
	t.status = domainauth.StatusUnauthenticated
	t.epoch++
	return t.status
}

// Establish records a freshly verified login. Only the login flow calls
// it, and only after the backend accepted the credentials and the role
// gate passed.
func (t *Tracker) Establish(ctx context.Context, id domainauth.Identity) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.cache.Write(ctx, id); err != nil {
		return err
	}
	t.status = domainauth.StatusAuthenticated
	t.epoch++
	return nil
}

// Reset clears local session state unconditionally (logout). It never
// fails the caller: a cache error is logged and the status still resolves
// Unauthenticated.
func (t *Tracker) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clearLocked(ctx)
	t.status = domainauth.StatusUnauthenticated
	t.epoch++
}

// Invalidate tears the session down in response to a backend 401. It runs
// at most once per session instance: concurrent rejections collapse into
// a single teardown and a single signal to the registered handlers. The
// cache is cleared before Invalidate returns, so the caller delivering
// the rejection always hands its observer a consistent Unauthenticated
// state. Returns true when this call performed the teardown.
func (t *Tracker) Invalidate(ctx context.Context, reason string) bool {
	t.mu.Lock()
	if t.status == domainauth.StatusUnauthenticated {
		t.mu.Unlock()
		return false
	}

	t.clearLocked(ctx)
	t.status = domainauth.StatusUnauthenticated
	t.epoch++
	handlers := slices.Clone(t.onInvalidate)
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "session invalidated", "reason", reason)
	for _, fn := range handlers {
		fn(ctx, reason)
	}
	return true
}

func (t *Tracker) clearLocked(ctx context.Context) {
	if err := t.cache.Clear(ctx); err != nil {
		t.logger.WarnContext(ctx, "session cache clear failed", "error", err)
	}
}
