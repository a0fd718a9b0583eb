package vault

import (
	"context"
	"errors"
)

// ErrNoCredential is returned by Load when the slot is empty.
var ErrNoCredential = errors.New("no persisted credential")

// ErrCorrupt is returned by Load when the slot exists but cannot be decoded.
// Callers treat it like an invalid credential: clear and start over.
var ErrCorrupt = errors.New("persisted credential corrupt")

// Vault is the single persisted credential slot.
type Vault interface {
	// Load returns the persisted credential, or ErrNoCredential.
	Load(ctx context.Context) (string, error)
	// Store replaces the slot content.
	Store(ctx context.Context, credential string) error
	// Clear empties the slot. Clearing an empty slot succeeds.
	Clear(ctx context.Context) error
}
