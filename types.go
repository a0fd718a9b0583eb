package authclient

import (
	"context"
	"strings"
)

// Phase is the discrete authentication state of the session.
//
// Unauthenticated and Authenticated are the only stable rest states.
// Authenticating is transient and always resolves to one of the other phases.
type Phase uint8

const (
	// PhaseUnauthenticated is the initial and post-logout state.
	PhaseUnauthenticated Phase = iota
	// PhaseAuthenticating is the transient state while a login or hydrate request is in flight.
	PhaseAuthenticating
	// PhaseAuthenticated is the stable state with a valid credential and identity.
	PhaseAuthenticated
	// PhaseFailed is entered after a rejected login attempt.
	PhaseFailed
)

// String implements fmt.Stringer for log and audit output.
func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Role is an opaque membership token assigned by the backend. The guard
// checks set membership only; there is no role hierarchy.
type Role string

const (
	// RoleEmployee is the default role of every account.
	RoleEmployee Role = "employee"
	// RoleHRManager can manage users and run reports.
	RoleHRManager Role = "hr_manager"
	// RoleAdmin can additionally change system settings.
	RoleAdmin Role = "admin"
)

// Identity is the authenticated user's profile record as returned by the
// backend. It is treated as read-only by this package.
type Identity struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	Department   string
	Position     string
	HireDate     string
	ProfileImage string
}

// DisplayName returns "First Last", falling back to the email address.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name == "" {
		return i.Email
	}
	return name
}

// Snapshot is a read-only copy of the session state handed to the route
// guard and the view layer. It never aliases mutable session internals.
type Snapshot struct {
	Phase      Phase
	Credential string
	Identity   *Identity
	LastError  string
	Generation uint64
}

// Authenticated reports whether the snapshot carries a usable identity.
func (s Snapshot) Authenticated() bool {
	return s.Phase == PhaseAuthenticated && s.Identity != nil
}

// LoginGrant is the successful credential-exchange payload: the bearer
// credential to persist and the identity it belongs to.
type LoginGrant struct {
	Credential string
	Identity   Identity
}

// Backend is the REST collaborator contract consumed by the session. The
// production implementation is [api.Client]; tests substitute stubs.
type Backend interface {
	// ExchangeCredentials performs POST /auth/login.
	ExchangeCredentials(ctx context.Context, identifier, secret string) (*LoginGrant, error)
	// CurrentIdentity performs GET /auth/me under the given credential.
	CurrentIdentity(ctx context.Context, credential string) (*Identity, error)
	// ChangePassword performs POST /auth/change-password under the given
	// credential. The returned string is a replacement credential when the
	// backend reissues one, or empty.
	ChangePassword(ctx context.Context, credential, oldSecret, newSecret string) (string, error)
	// NotifyLogout performs the best-effort POST /auth/logout.
	NotifyLogout(ctx context.Context, credential string) error
}
