package internaldefs

import (
	goJobStats "github.com/MrEthical07/goJobStats"
)

// CounterDef defines a public type used by goJobStats APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   goJobStats.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by goJobStats APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   goJobStats.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the execution tracker.
var CounterDefs = []CounterDef{
	{ID: goJobStats.MetricJobSuccess, Name: "gojobstats_jobs_success_total", Help: "Tracked executions that completed normally."},
	{ID: goJobStats.MetricJobFailure, Name: "gojobstats_jobs_failure_total", Help: "Tracked executions that terminated with an error."},
	{ID: goJobStats.MetricJobInterrupted, Name: "gojobstats_jobs_interrupted_total", Help: "Tracked executions that yielded cooperatively."},
	{ID: goJobStats.MetricJobPanic, Name: "gojobstats_jobs_panic_total", Help: "Tracked executions that panicked."},
	{ID: goJobStats.MetricFlushSuccess, Name: "gojobstats_flush_success_total", Help: "Flushes persisted without error."},
	{ID: goJobStats.MetricFlushFailure, Name: "gojobstats_flush_failure_total", Help: "Flushes that hit a store error."},
	{ID: goJobStats.MetricFlushSkippedEmpty, Name: "gojobstats_flush_skipped_empty_total", Help: "Flushes skipped because the epoch was empty."},
	{ID: goJobStats.MetricStoreOps, Name: "gojobstats_store_ops_total", Help: "Redis commands issued by successful flushes."},
}

// HistogramDefs is an exported constant or variable used by the execution tracker.
var HistogramDefs = []HistogramDef{
	{ID: goJobStats.MetricFlushLatency, Name: "gojobstats_flush_latency_seconds", Help: "Flush latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the execution tracker.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the execution tracker.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
