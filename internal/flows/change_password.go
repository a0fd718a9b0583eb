package flows

import "context"

// ChangePasswordErrors carries host-level sentinel errors used by the
// password change flow.
type ChangePasswordErrors struct {
	SecretRequired     error
	PasswordPolicy     error
	CredentialRejected error
	BackendRejected    error
	BackendUnavailable error
}

// ChangePasswordDeps captures password change flow dependencies.
type ChangePasswordDeps struct {
	// CheckPolicy validates the new secret against the configured strength
	// policy before any request is issued.
	CheckPolicy func(secret string) error
	Change      func(ctx context.Context, credential, oldSecret, newSecret string) (string, error)
	Errors      ChangePasswordErrors
}

// ChangePasswordOutcome is either success (with an optional replacement
// credential) or a classified failure.
type ChangePasswordOutcome struct {
	// Replacement is a reissued credential when the backend returned one.
	Replacement string
	Failure     FailureKind
	Message     string
	Err         error
}

// ValidateChangeInput rejects empty fields and policy violations locally.
func ValidateChangeInput(oldSecret, newSecret string, deps ChangePasswordDeps) error {
	if oldSecret == "" || newSecret == "" {
		return deps.Errors.SecretRequired
	}
	if err := deps.CheckPolicy(newSecret); err != nil {
		return deps.Errors.PasswordPolicy
	}
	return nil
}

// RunChangePassword issues the credential-change request under the existing
// session. Input is assumed to have passed ValidateChangeInput.
func RunChangePassword(ctx context.Context, credential, oldSecret, newSecret string, deps ChangePasswordDeps) ChangePasswordOutcome {
	replacement, err := deps.Change(ctx, credential, oldSecret, newSecret)
	if err != nil {
		kind, message := classifyAuthed(err)
		outcome := ChangePasswordOutcome{
			Failure: kind,
			Message: message,
		}
		switch kind {
		case FailureCredentialRejected:
			outcome.Err = deps.Errors.CredentialRejected
		case FailureBackendRejected:
			outcome.Err = deps.Errors.BackendRejected
		default:
			outcome.Err = deps.Errors.BackendUnavailable
		}
		return outcome
	}
	return ChangePasswordOutcome{Replacement: replacement}
}
