// Package guard decides, per navigation, whether to render a requested
// route, redirect to the login view, or redirect to the default
// authenticated view.
//
// The decision is a pure function of the current session snapshot and an
// ordered, data-driven route table; it has no side effects and is meant to
// be re-evaluated on every session change and every navigation attempt.
// Roles are opaque membership tokens, not a hierarchy.
//
// A http middleware adapter is provided for hosts that render over HTTP;
// other hosts call Authorize directly.
package guard
