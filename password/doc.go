// Package password implements the client-side secret strength policy applied
// before a password change request is allowed to leave the process.
//
// The policy is configuration, not security: the backend remains the
// authority and may reject a secret the client accepted. Checking locally
// only saves the user a round-trip for obviously unacceptable input.
//
// Secrets are checked as raw UTF-8 strings exactly as provided; no Unicode
// normalization is applied.
package password
