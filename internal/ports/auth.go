package ports

// Package ports defines interfaces (hexagonal ports) for the portal's
// auth core. Implementations live in internal/session and internal/service;
// view-layer collaborators (routing, notifications) plug in from outside.

import (
	"context"

	domainauth "github.com/target/hrportal-go/internal/domain/auth"
)

// Preference keys persisted beside the identity mirror. UI convenience
// only; never consulted for authorization.
const (
	// PrefRememberMe is set during login and cleared by logout.
	PrefRememberMe = "remember_me"
	// PrefTheme survives logout.
	PrefTheme = "theme"
)

// Credentials carries the login form inputs.
type Credentials struct {
	Email      string
	Password   string
	RememberMe bool
}

// SessionCache mirrors the last verified identity. It is a projection of
// backend truth, never proof of authorization. Write replaces the whole
// record; partial updates are not part of the contract.
type SessionCache interface {
	Write(ctx context.Context, id domainauth.Identity) error
	Read(ctx context.Context) (domainauth.Identity, bool, error)
	Clear(ctx context.Context) error
}

// PrefStore persists UI preference flags (remember-me, theme).
type PrefStore interface {
	SetFlag(ctx context.Context, key, value string) error
	Flag(ctx context.Context, key string) (string, bool, error)
	DeleteFlag(ctx context.Context, key string) error
}

// Authenticator performs the backend auth round trips. Login and WhoAmI
// return a normalized identity; Logout never fails the caller once local
// state is cleared.
type Authenticator interface {
	Login(ctx context.Context, creds Credentials) (domainauth.Identity, error)
	WhoAmI(ctx context.Context) (domainauth.Identity, error)
	Logout(ctx context.Context) error
}

// Redirector is the view-routing collaborator. The auth core never
// navigates directly; it emits decisions and invalidation signals that a
// Redirector reacts to.
type Redirector interface {
	ToLogin(ctx context.Context, reason string)
	ToLanding(ctx context.Context)
}
