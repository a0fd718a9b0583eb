// Package audit defines the audit event model and the sink implementations
// the session dispatcher writes to.
//
// Events describe session lifecycle operations (login, hydrate, logout,
// password change, credential rejection) from the client's point of view.
// Sinks are interchangeable: a buffered channel for in-process consumers, a
// line-delimited JSON writer for files, or a no-op.
package audit
