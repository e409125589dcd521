// Package otel provides OpenTelemetry metric exporter bindings for goJobStats
// counters and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each
// tracker diagnostic and Int64ObservableGauge per histogram bucket. A single
// callback reads [goJobStats.Tracker.MetricsSnapshot] on each collection
// cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider. Callers supply the Meter.
//   - Mutate tracker state.
package otel
