package authclient

import (
	"io"

	internalaudit "github.com/hrkit/authclient/internal/audit"
)

// AuditEvent is a structured audit record emitted by the session store.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the session's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

const (
	auditEventLoginSuccess        = "login_success"
	auditEventLoginFailure        = "login_failure"
	auditEventLoginRejectedBusy   = "login_rejected_busy"
	auditEventHydrateSuccess      = "hydrate_success"
	auditEventHydrateFailure      = "hydrate_failure"
	auditEventHydrateNoCredential = "hydrate_no_credential"
	auditEventHydrateExpired      = "hydrate_expired_locally"
	auditEventLogout              = "logout"
	auditEventPasswordChanged     = "password_change_success"
	auditEventPasswordRejected    = "password_change_failure"
	auditEventCredentialRejected  = "credential_rejected"
	auditEventStaleDiscarded      = "stale_response_discarded"
)
