package authclient

import (
	internalmetrics "github.com/hrkit/authclient/internal/metrics"
)

// MetricID identifies a specific counter or histogram bucket in the
// in-process metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricLoginSuccess counts logins that landed Authenticated.
	MetricLoginSuccess = internalmetrics.MetricLoginSuccess
	// MetricLoginFailure counts logins that landed Failed.
	MetricLoginFailure = internalmetrics.MetricLoginFailure
	// MetricLoginRejectedBusy counts login calls rejected while another operation was in flight.
	MetricLoginRejectedBusy = internalmetrics.MetricLoginRejectedBusy
	// MetricLoginValidationFailure counts logins rejected before any request was issued.
	MetricLoginValidationFailure = internalmetrics.MetricLoginValidationFailure
	// MetricHydrateSuccess counts hydrations that restored a session.
	MetricHydrateSuccess = internalmetrics.MetricHydrateSuccess
	// MetricHydrateFailure counts hydrations whose identity fetch failed.
	MetricHydrateFailure = internalmetrics.MetricHydrateFailure
	// MetricHydrateNoCredential counts hydrations that found an empty slot.
	MetricHydrateNoCredential = internalmetrics.MetricHydrateNoCredential
	// MetricHydrateExpiredLocally counts hydrations that cleared a locally dead token.
	MetricHydrateExpiredLocally = internalmetrics.MetricHydrateExpiredLocally
	// MetricLogout counts logouts.
	MetricLogout = internalmetrics.MetricLogout
	// MetricPasswordChangeSuccess counts accepted password changes.
	MetricPasswordChangeSuccess = internalmetrics.MetricPasswordChangeSuccess
	// MetricPasswordChangeFailure counts rejected password changes.
	MetricPasswordChangeFailure = internalmetrics.MetricPasswordChangeFailure
	// MetricCredentialRejected counts deauthentications caused by a 401 on any request.
	MetricCredentialRejected = internalmetrics.MetricCredentialRejected
	// MetricStaleResponseDiscarded counts in-flight responses dropped after a generation bump.
	MetricStaleResponseDiscarded = internalmetrics.MetricStaleResponseDiscarded
	// MetricRequestLatency is the histogram of backend round-trip latencies.
	MetricRequestLatency = internalmetrics.MetricRequestLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a new [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
