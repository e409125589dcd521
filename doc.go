// Package goJobStats provides a low-overhead execution metrics tracker for
// background-job engines, with per-class counters, latency histograms, and
// Redis-backed time-series rollups using fixed-width, auto-expiring buckets.
//
// The package is designed for concurrent worker workloads: Tracker methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Track wraps a single job execution; a low-frequency caller
// (the optional Flusher, or the host's own heartbeat) calls Flush to persist
// the accumulated window.
//
// # Architecture boundaries
//
// goJobStats is the public surface. It exposes [Tracker], [Builder], [Config],
// and value types (EpochSnapshot, Event, MetricsSnapshot). The histogram
// collaborator lives in the histogram subpackage behind the narrow [Histogram]
// interface; metric exporters live under metrics/export and read snapshots
// only.
//
// # What this package must NOT do
//
//   - Expose Redis clients, epoch internals, or bucket-key derivation in its
//     public API.
//   - Perform I/O inside Track (construction via Builder is allocation-only
//     until Build; only Flush contacts Redis).
//   - Decide retry policy, persist per-job records, or query stored metrics.
//     It only produces the aggregated write.
//
// # Performance contract
//
// Track is the hot path. It must not perform Redis round-trips, must never
// hold the epoch lock across the job body, and its two bookkeeping critical
// sections must stay short enough that thousands of completions per second
// contend negligibly. Flush is allowed pipelined Redis round-trips against a
// detached, privately-owned epoch while holding no lock.
package goJobStats
