// Package histogram provides the fixed-bucket execution-time histogram and
// its Redis persistence for goJobStats rollups.
//
// # Bucket table
//
// Durations are classified into 26 geometric buckets spanning 20ms to ~5.5
// minutes of finite bounds plus one overflow bucket. The table is append-only
// in spirit: readers address buckets by index, so bounds must never be
// reordered or reinterpreted.
//
// # Architecture boundaries
//
// This package owns its Redis key layout ("h|<minute-bucket>-<class>") and
// the 8-hour expiry of histogram keys. It does NOT derive counter bucket
// keys, classify job outcomes, or decide when persistence happens. Those
// responsibilities belong to the Tracker.
//
// # What this package must NOT do
//
//   - Import goJobStats (no upward imports).
//   - Execute pipelines; it only queues commands onto the one it is given.
//   - Block or allocate on the RecordTime hot path beyond one atomic add.
package histogram
