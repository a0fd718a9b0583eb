package metrics

import (
	"sync/atomic"
	"time"
)

// MetricID indexes a single counter or histogram slot.
type MetricID uint16

const (
	MetricLoginSuccess MetricID = iota
	MetricLoginFailure
	MetricLoginRejectedBusy
	MetricLoginValidationFailure
	MetricHydrateSuccess
	MetricHydrateFailure
	MetricHydrateNoCredential
	MetricHydrateExpiredLocally
	MetricLogout
	MetricPasswordChangeSuccess
	MetricPasswordChangeFailure
	MetricCredentialRejected
	MetricStaleResponseDiscarded
	MetricRequestLatency

	MetricIDCount
)

var metricNames = [MetricIDCount]string{
	MetricLoginSuccess:           "login_success",
	MetricLoginFailure:           "login_failure",
	MetricLoginRejectedBusy:      "login_rejected_busy",
	MetricLoginValidationFailure: "login_validation_failure",
	MetricHydrateSuccess:         "hydrate_success",
	MetricHydrateFailure:         "hydrate_failure",
	MetricHydrateNoCredential:    "hydrate_no_credential",
	MetricHydrateExpiredLocally:  "hydrate_expired_locally",
	MetricLogout:                 "logout",
	MetricPasswordChangeSuccess:  "password_change_success",
	MetricPasswordChangeFailure:  "password_change_failure",
	MetricCredentialRejected:     "credential_rejected",
	MetricStaleResponseDiscarded: "stale_response_discarded",
	MetricRequestLatency:         "request_latency",
}

// String implements fmt.Stringer for log and report output.
func (id MetricID) String() string {
	if id < MetricIDCount {
		return metricNames[id]
	}
	return "unknown"
}

// Config controls metric collection. When Enabled is false every operation
// is a no-op and Snapshot returns empty maps.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

const bucketCount = 8

// latencyBounds are the upper bounds of the first seven histogram buckets;
// the eighth bucket is +Inf.
var latencyBounds = [bucketCount - 1]time.Duration{
	5 * time.Millisecond,
	10 * time.Millisecond,
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	1 * time.Second,
}

type paddedCounter struct {
	value uint64
	_     [7]uint64
}

// Metrics holds atomic counters and optional latency histograms.
type Metrics struct {
	cfg      Config
	counters [MetricIDCount]paddedCounter
	buckets  [MetricIDCount][bucketCount]uint64
}

// New creates a Metrics instance. A nil return is never produced; a disabled
// instance is still safe to call.
func New(cfg Config) *Metrics {
	return &Metrics{cfg: cfg}
}

// Inc increments a counter. Out-of-range IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.cfg.Enabled || id >= MetricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records a latency sample into the histogram for id.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.cfg.Enabled || !m.cfg.EnableLatency || id >= MetricIDCount {
		return
	}
	bucket := bucketCount - 1
	for i, bound := range latencyBounds {
		if d <= bound {
			bucket = i
			break
		}
	}
	atomic.AddUint64(&m.buckets[id][bucket], 1)
}

// Snapshot is a point-in-time deep copy of all non-zero metrics.
type Snapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// Snapshot copies every counter and histogram that has recorded at least one
// event. The copy is independent of subsequent writes.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Counters:   map[MetricID]uint64{},
		Histograms: map[MetricID][]uint64{},
	}
	if m == nil || !m.cfg.Enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		if v := atomic.LoadUint64(&m.counters[id].value); v > 0 {
			snap.Counters[id] = v
		}
		var total uint64
		buckets := make([]uint64, bucketCount)
		for b := 0; b < bucketCount; b++ {
			buckets[b] = atomic.LoadUint64(&m.buckets[id][b])
			total += buckets[b]
		}
		if total > 0 {
			snap.Histograms[id] = buckets
		}
	}
	return snap
}
