// Package authclient owns the client-side authentication session of an HR
// front-end: the bearer credential, the current identity, the discrete phase
// the session is in, and the last user-facing error. It is the single writer
// of that state; route guards and views consume read-only snapshots.
//
// The package is designed so that a host (terminal UI, locally rendered web
// UI, kiosk shell) only wires three collaborators: a [Backend] that speaks
// the REST contract, a [vault.Vault] that persists the credential across
// process restarts, and a guard table describing which routes need which
// roles. Session methods are safe to call from multiple goroutines after
// construction through [Builder.Build].
//
// # Architecture boundaries
//
// authclient is the public surface. It exposes [Session], [Builder], [Config],
// and value types (Snapshot, Identity, Phase). All internal coordination —
// flow orchestration, metrics storage, audit dispatch — lives under internal/
// and is never exported. The HTTP adapter (package api), credential storage
// (package vault), strength policy (package password), and route guarding
// (package guard) are topic subpackages with no knowledge of each other.
//
// # What this package must NOT do
//
//   - Render anything, or hold view concerns such as success-banner timers.
//   - Verify or mint tokens; the credential is opaque apart from a local,
//     unverified expiry peek before hydrate.
//   - Let a backend or storage failure escape as a fault: every failure is
//     captured at the Session boundary and surfaced via the snapshot's
//     LastError plus a sentinel error return.
//
// # Concurrency contract
//
// At most one mutating network operation (Login, Hydrate, ChangePassword) is
// in flight at a time; competing callers are rejected with
// [ErrOperationInFlight], and concurrent Hydrate callers join the first
// call's result. Logout is immediate and local: it bumps the session
// generation so that any in-flight response arriving afterwards is discarded
// rather than reauthenticating a session the user already left.
package authclient
