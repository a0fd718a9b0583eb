package authclient

import "errors"

var (
	// ErrSessionNotReady is returned when a Session was not built through [Builder.Build].
	ErrSessionNotReady = errors.New("session not initialized")
	// ErrInvalidCredentials is returned when the backend rejects the identifier/secret pair.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrCredentialRejected is returned when a stored bearer credential is rejected by the backend.
	ErrCredentialRejected = errors.New("credential rejected")
	// ErrBackendUnavailable is returned on transport-level failures (timeout, refused, DNS).
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrIdentifierRequired is returned when Login is called with an empty identifier.
	ErrIdentifierRequired = errors.New("identifier required")
	// ErrIdentifierInvalid is returned when the identifier is not email-shaped.
	ErrIdentifierInvalid = errors.New("identifier must be an email address")
	// ErrSecretRequired is returned when a required secret field is empty.
	ErrSecretRequired = errors.New("secret required")
	// ErrPasswordPolicy is returned when a new secret fails the configured strength policy.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrOperationInFlight is returned when a mutating call races an unfinished one.
	ErrOperationInFlight = errors.New("operation already in flight")
	// ErrAlreadyAuthenticated is returned when Login is called on an authenticated session.
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	// ErrNotAuthenticated is returned when an operation requires an authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionSuperseded is returned when an in-flight response was discarded
	// because the session generation advanced (logout during the request).
	ErrSessionSuperseded = errors.New("session superseded")
)
