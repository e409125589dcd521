package goJobStats

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Per-class hash field suffixes. These are part of the persisted contract:
// readers of the rollup buckets join on "<class>|<suffix>".
const (
	suffixProcessed = "p"
	suffixFailed    = "f"
	suffixMillis    = "ms"
)

// Histogram is the narrow contract the tracker requires from its duration
// histogram collaborator. The default implementation is
// [github.com/MrEthical07/goJobStats/histogram.Histogram]; hosts may supply
// their own via [Builder.WithHistogramFactory].
//
// RecordTime observes one execution duration in milliseconds. Persist queues
// the accumulated distribution onto the given pipeline for the given flush
// timestamp and returns the number of commands queued. Key naming is owned
// entirely by the implementation.
type Histogram interface {
	RecordTime(ms int64)
	Persist(ctx context.Context, pipe redis.Pipeliner, at time.Time) int
}

// HistogramFactory creates the per-class histogram on first observation of
// that class within an epoch.
type HistogramFactory func(jobClass string) Histogram

// EpochSnapshot is the safe introspection view of the live aggregation
// window. It is a copy; mutating it has no effect on the tracker.
type EpochSnapshot struct {
	Processed int64
	Failed    int64
	TotalMS   int64
	// PerClass maps "<class>|p", "<class>|f", and "<class>|ms" fields to
	// their accumulated counts, mirroring the persisted hash fields.
	PerClass map[string]int64
	// HistogramClasses lists the job classes with a live histogram.
	HistogramClasses []string
}
