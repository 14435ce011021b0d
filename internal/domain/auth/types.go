package auth

// Package auth contains domain-level types for the portal's client-side
// session state. It is pure and free of transport/adapter concerns.

// Role represents an application's authorization role as reported by the
// backend. Keep string form for easy persistence and comparison.
type Role string

const (
	// RoleHR is the single role admitted to this portal.
	RoleHR Role = "HR"
	// RoleEmployee exists in the backend but is never admitted here.
	RoleEmployee Role = "Employee"
)

// Identity is the normalized principal returned by the backend.
type Identity struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"organizationId"`
}

// AuthStatus tracks where the local session is in its lifecycle.
type AuthStatus string

const (
	// StatusUnknown is the initial state before any verification.
	StatusUnknown AuthStatus = "unknown"
	// StatusVerifying means a "who am I" round trip is in flight.
	StatusVerifying AuthStatus = "verifying"
	// StatusAuthenticated means the backend confirmed a role-qualified session.
	StatusAuthenticated AuthStatus = "authenticated"
	// StatusUnauthenticated is terminal for the session instance; a new
	// login starts a fresh one.
	StatusUnauthenticated AuthStatus = "unauthenticated"
)

// Terminal reports whether the status ends the current session instance.
func (s AuthStatus) Terminal() bool {
	return s == StatusAuthenticated || s == StatusUnauthenticated
}

// Session couples the lifecycle status with the last verified identity.
// Identity is set if and only if Status is StatusAuthenticated.
type Session struct {
	Status   AuthStatus
	Identity *Identity
}

// NewSession returns the initial session state.
func NewSession() Session {
	return Session{Status: StatusUnknown}
}

// AuthenticatedSession builds the only session shape that carries an identity.
func AuthenticatedSession(id Identity) Session {
	return Session{Status: StatusAuthenticated, Identity: &id}
}

// UnauthenticatedSession is the terminal no-session state.
func UnauthenticatedSession() Session {
	return Session{Status: StatusUnauthenticated}
}

// IsAuthenticated reports whether protected content may be released.
func (s Session) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// Valid checks the identity-presence invariant: an identity is carried
// exactly when the session is authenticated.
func (s Session) Valid() bool {
	if s.Status == StatusAuthenticated {
		return s.Identity != nil
	}
	return s.Identity == nil
}
