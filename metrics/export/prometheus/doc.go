// Package prometheus renders goJobStats diagnostics in the Prometheus text
// exposition format without owning a registry.
//
// [NewPrometheusExporter] reads [goJobStats.Tracker.MetricsSnapshot] on each
// scrape; [PrometheusExporter.Handler] serves it over HTTP.
//
// # What this package must NOT do
//
//   - Register collectors with a global registry.
//   - Mutate tracker state.
package prometheus
