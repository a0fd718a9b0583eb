// Package flows holds the per-operation orchestration of the session store:
// input validation, backend calls, and failure classification. Each
// operation is a Run* function taking a Deps struct of injected function
// fields, so the root package owns all state transitions and locking while
// flows stay free of shared state and trivially testable.
//
// Host-level sentinel errors are threaded in through the Errors fields of
// each Deps struct; flows never define user-visible error values of their
// own (avoids import cycles with the root package).
package flows
