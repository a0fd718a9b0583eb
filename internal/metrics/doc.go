// Package metrics provides lock-free counters and latency histograms for
// authclient observability.
//
// # Design
//
// Counters are stored in cache-line-padded uint64 slots and incremented
// atomically via [sync/atomic.AddUint64]. Histograms use 8 fixed buckets
// (≤5ms … +Inf). Both are allocation-free on the write path.
//
// # Architecture boundaries
//
// This package owns metric storage and snapshot creation. It performs no I/O,
// imports no sibling package, and exposes no global registries; callers hold
// an explicit *Metrics handle.
package metrics
