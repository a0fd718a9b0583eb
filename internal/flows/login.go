package flows

import (
	"context"
	"strings"
)

// IdentityRecord is the flow-local user model; the root package converts it
// to its exported Identity type.
type IdentityRecord struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	Role         string
	Department   string
	Position     string
	HireDate     string
	ProfileImage string
}

// GrantRecord is the flow-local credential-exchange success payload.
type GrantRecord struct {
	Credential string
	Identity   IdentityRecord
}

// LoginErrors carries host-level sentinel errors used by the login flow.
type LoginErrors struct {
	IdentifierRequired error
	IdentifierInvalid  error
	SecretRequired     error
	InvalidCredentials error
	BackendUnavailable error
}

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Exchange func(ctx context.Context, identifier, secret string) (*GrantRecord, error)
	Errors   LoginErrors
}

// LoginOutcome is either a grant or a classified failure with the
// user-facing message to record.
type LoginOutcome struct {
	Grant   *GrantRecord
	Failure FailureKind
	Message string
	Err     error
}

// ValidateLoginInput rejects empty or non-email-shaped input before any
// request is issued.
func ValidateLoginInput(identifier, secret string, errs LoginErrors) error {
	if strings.TrimSpace(identifier) == "" {
		return errs.IdentifierRequired
	}
	if !emailShaped(identifier) {
		return errs.IdentifierInvalid
	}
	if secret == "" {
		return errs.SecretRequired
	}
	return nil
}

// emailShaped is a shape check, not RFC validation: one '@' with non-empty
// local part and a dotted domain, no spaces.
func emailShaped(identifier string) bool {
	if strings.ContainsAny(identifier, " \t") {
		return false
	}
	at := strings.IndexByte(identifier, '@')
	if at <= 0 || at != strings.LastIndexByte(identifier, '@') {
		return false
	}
	domain := identifier[at+1:]
	dot := strings.IndexByte(domain, '.')
	return dot > 0 && dot < len(domain)-1
}

// RunLogin exchanges credentials and classifies the result. Input is assumed
// to have passed ValidateLoginInput.
func RunLogin(ctx context.Context, identifier, secret string, deps LoginDeps) LoginOutcome {
	grant, err := deps.Exchange(ctx, identifier, secret)
	if err != nil {
		kind, message := classifyLogin(err)
		outcome := LoginOutcome{
			Failure: kind,
			Message: message,
		}
		switch kind {
		case FailureInvalidCredentials:
			outcome.Err = deps.Errors.InvalidCredentials
		default:
			outcome.Err = deps.Errors.BackendUnavailable
		}
		return outcome
	}
	if grant == nil || grant.Credential == "" {
		return LoginOutcome{
			Failure: FailureNetwork,
			Message: genericNetworkMessage,
			Err:     deps.Errors.BackendUnavailable,
		}
	}
	return LoginOutcome{Grant: grant}
}
