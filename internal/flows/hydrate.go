package flows

import (
	"context"
	"errors"
	"time"
)

// HydrateDeps captures hydrate flow dependencies.
type HydrateDeps struct {
	LoadCredential  func(ctx context.Context) (string, error)
	ClearCredential func(ctx context.Context) error
	// CredentialDead reports whether the persisted token is malformed or
	// locally expired, making the identity fetch pointless.
	CredentialDead func(credential string, now time.Time) bool
	FetchIdentity  func(ctx context.Context, credential string) (*IdentityRecord, error)
	Now            func() time.Time
	// NoCredential is the vault's empty-slot sentinel.
	NoCredential error
	// Corrupt is the vault's undecodable-slot sentinel. A corrupt slot is
	// erased and treated like a dead credential, not a storage failure.
	Corrupt error
	// RetainOnNetworkError keeps the persisted slot when the fetch failed at
	// the transport level rather than with a 401.
	RetainOnNetworkError bool
}

// HydrateLoadResult reports what the persisted slot held before any network
// activity.
type HydrateLoadResult struct {
	// Credential is non-empty when an identity fetch should follow.
	Credential string
	// ClearedLocally is true when a dead token was found and erased.
	ClearedLocally bool
	// Err is a storage-level failure (not an empty slot).
	Err error
}

// RunHydrateLoad reads the persisted slot and decides whether a fetch is
// warranted. An empty slot and a locally dead token both produce an empty
// Credential and no network activity.
func RunHydrateLoad(ctx context.Context, deps HydrateDeps) HydrateLoadResult {
	credential, err := deps.LoadCredential(ctx)
	if err != nil {
		if errors.Is(err, deps.NoCredential) {
			return HydrateLoadResult{}
		}
		if deps.Corrupt != nil && errors.Is(err, deps.Corrupt) {
			_ = deps.ClearCredential(ctx)
			return HydrateLoadResult{ClearedLocally: true}
		}
		return HydrateLoadResult{Err: err}
	}
	if credential == "" {
		return HydrateLoadResult{}
	}

	if deps.CredentialDead != nil && deps.CredentialDead(credential, deps.Now()) {
		_ = deps.ClearCredential(ctx)
		return HydrateLoadResult{ClearedLocally: true}
	}
	return HydrateLoadResult{Credential: credential}
}

// HydrateFetchOutcome is the identity-fetch result.
type HydrateFetchOutcome struct {
	Identity *IdentityRecord
	Failure  FailureKind
	Message  string
	// CredentialCleared is true when the persisted slot was erased as part
	// of handling the failure.
	CredentialCleared bool
}

// RunHydrateFetch issues the single identity fetch for a hydrating session.
// Any failure deauthenticates; the persisted slot is erased unless the
// failure was transport-level and RetainOnNetworkError is set.
func RunHydrateFetch(ctx context.Context, credential string, deps HydrateDeps) HydrateFetchOutcome {
	identity, err := deps.FetchIdentity(ctx, credential)
	if err != nil {
		kind, message := classifyAuthed(err)
		outcome := HydrateFetchOutcome{
			Failure: kind,
			Message: message,
		}
		if kind == FailureNetwork && deps.RetainOnNetworkError {
			return outcome
		}
		_ = deps.ClearCredential(ctx)
		outcome.CredentialCleared = true
		return outcome
	}
	if identity == nil {
		_ = deps.ClearCredential(ctx)
		return HydrateFetchOutcome{
			Failure:           FailureNetwork,
			Message:           genericNetworkMessage,
			CredentialCleared: true,
		}
	}
	return HydrateFetchOutcome{Identity: identity}
}
