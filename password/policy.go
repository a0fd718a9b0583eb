package password

import (
	"errors"
	"fmt"
	"unicode"
)

const (
	minConfigurableLength = 6
	maxConfigurableLength = 256
)

var (
	// ErrTooShort is returned when the secret is shorter than Policy.MinLength.
	ErrTooShort = errors.New("password too short")
	// ErrMissingUpper is returned when an uppercase letter is required but absent.
	ErrMissingUpper = errors.New("password needs an uppercase letter")
	// ErrMissingLower is returned when a lowercase letter is required but absent.
	ErrMissingLower = errors.New("password needs a lowercase letter")
	// ErrMissingDigit is returned when a digit is required but absent.
	ErrMissingDigit = errors.New("password needs a digit")
	// ErrMissingSymbol is returned when a symbol is required but absent.
	ErrMissingSymbol = errors.New("password needs a symbol")
)

// Policy is the configured strength requirement for new secrets.
//
// Policy instances are intended to be configured during initialization and
// then treated as immutable.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

// Default returns the policy matching the original front-end's login form
// validation: six characters minimum, no character-class requirements.
func Default() Policy {
	return Policy{MinLength: minConfigurableLength}
}

// ValidateConfig rejects policies that cannot be satisfied or that silently
// accept everything.
func ValidateConfig(p Policy) error {
	if p.MinLength < minConfigurableLength {
		return fmt.Errorf("password policy MinLength must be >= %d", minConfigurableLength)
	}
	if p.MinLength > maxConfigurableLength {
		return fmt.Errorf("password policy MinLength must be <= %d", maxConfigurableLength)
	}
	return nil
}

// Check verifies secret against the policy and returns the first violation.
func (p Policy) Check(secret string) error {
	runes := []rune(secret)
	if len(runes) < p.MinLength {
		return ErrTooShort
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if p.RequireUpper && !hasUpper {
		return ErrMissingUpper
	}
	if p.RequireLower && !hasLower {
		return ErrMissingLower
	}
	if p.RequireDigit && !hasDigit {
		return ErrMissingDigit
	}
	if p.RequireSymbol && !hasSymbol {
		return ErrMissingSymbol
	}
	return nil
}
