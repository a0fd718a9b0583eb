// Package vault persists the bearer credential across process restarts.
//
// A vault is a single key-value slot scoped to the device: it either holds
// one credential or nothing. Three backends are provided: an in-memory slot
// for tests and ephemeral shells, a file slot (optionally encrypted at rest
// with an argon2id-derived secretbox key), and a Redis slot for kiosk or
// shared-terminal deployments where the credential must follow a device key
// rather than a local disk.
//
// All backends treat Clear of an empty slot as success; logout must never
// fail because there was nothing to remove.
package vault
