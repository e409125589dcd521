package goJobStats

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zoobzio/clockz"
)

// Tracker defines a public type used by goJobStats APIs.
//
// Tracker instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Tracker struct {
	config  Config
	redis   redis.UniversalClient
	clock   clockz.Clock
	events  *eventDispatcher
	metrics *Metrics
	newHist HistogramFactory

	mu    sync.Mutex
	epoch *epoch

	flusherMu sync.Mutex
	flusher   *Flusher
}

// epoch is the mutable aggregation window between two flushes. The tracker
// exclusively owns the current epoch's maps; Flush detaches the whole value
// under t.mu, after which it is private to that Flush call.
type epoch struct {
	processed int64
	failed    int64
	totalMS   int64
	perClass  map[string]int64
	hists     map[string]Histogram
}

func newEpoch() *epoch {
	return &epoch{
		perClass: make(map[string]int64),
		hists:    make(map[string]Histogram),
	}
}

// Track executes body exactly once, measures its duration, classifies the
// outcome, and updates the current epoch. It returns body's error verbatim;
// a panic in body is counted as a failed execution and re-raised unchanged.
//
// Outcome accounting:
//   - nil return: processed + duration (class ms totals and histogram).
//   - error wrapping [ErrJobInterrupted]: processed + duration, never failed.
//   - any other error or a panic: processed + failed, no duration recorded
//     (failure durations would skew the regression-detection distribution).
//
// The epoch lock is never held across body. Safe for concurrent use.
func (t *Tracker) Track(ctx context.Context, queueName, jobClass string, body func() error) error {
	if t == nil || t.clock == nil {
		return ErrTrackerNotReady
	}
	if body == nil {
		return ErrNilJob
	}

	start := t.clock.Now()
	completed := false

	defer func() {
		if !completed {
			// body panicked: the deferred increments still run while the
			// panic continues to the caller unrecovered.
			t.recordFailure(jobClass)
			t.metricInc(MetricJobPanic)
			t.emitJobFailed(ctx, queueName, jobClass, "panic")
		}
		t.recordProcessed(jobClass)
	}()

	err := body()
	elapsed := t.clock.Now().Sub(start)
	completed = true

	switch {
	case err == nil:
		t.recordExecutionTime(jobClass, elapsed)
		t.metricInc(MetricJobSuccess)
	case errors.Is(err, ErrJobInterrupted):
		// A cooperative yield is not a fault; its timing data is still
		// representative.
		t.recordExecutionTime(jobClass, elapsed)
		t.metricInc(MetricJobInterrupted)
	default:
		t.recordFailure(jobClass)
		t.metricInc(MetricJobFailure)
		t.emitJobFailed(ctx, queueName, jobClass, err.Error())
	}

	return err
}

// recordExecutionTime is one atomic mutation group: class histogram, class ms
// total, and global ms total land together in the same epoch.
func (t *Tracker) recordExecutionTime(jobClass string, elapsed time.Duration) {
	ms := elapsed.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	t.mu.Lock()
	if t.newHist != nil {
		h := t.epoch.hists[jobClass]
		if h == nil {
			h = t.newHist(jobClass)
			t.epoch.hists[jobClass] = h
		}
		h.RecordTime(ms)
	}
	t.epoch.totalMS += ms
	t.epoch.perClass[jobClass+"|"+suffixMillis] += ms
	t.mu.Unlock()
}

func (t *Tracker) recordFailure(jobClass string) {
	t.mu.Lock()
	t.epoch.failed++
	t.epoch.perClass[jobClass+"|"+suffixFailed]++
	t.mu.Unlock()
}

func (t *Tracker) recordProcessed(jobClass string) {
	t.mu.Lock()
	t.epoch.processed++
	t.epoch.perClass[jobClass+"|"+suffixProcessed]++
	t.mu.Unlock()
}

// detachEpoch swaps in a fresh empty epoch and returns the old one. Every
// Track call lands entirely in one epoch or the other; no split writes.
func (t *Tracker) detachEpoch() *epoch {
	t.mu.Lock()
	detached := t.epoch
	t.epoch = newEpoch()
	t.mu.Unlock()
	return detached
}

// EpochSnapshot returns a copy of the live aggregation window for
// introspection. It never touches Redis.
func (t *Tracker) EpochSnapshot() EpochSnapshot {
	if t == nil || t.clock == nil {
		return EpochSnapshot{PerClass: map[string]int64{}}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	snap := EpochSnapshot{
		Processed: t.epoch.processed,
		Failed:    t.epoch.failed,
		TotalMS:   t.epoch.totalMS,
		PerClass:  make(map[string]int64, len(t.epoch.perClass)),
	}
	for field, n := range t.epoch.perClass {
		snap.PerClass[field] = n
	}
	for class := range t.epoch.hists {
		snap.HistogramClasses = append(snap.HistogramClasses, class)
	}
	return snap
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (t *Tracker) MetricsSnapshot() MetricsSnapshot {
	if t == nil || t.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return t.metrics.Snapshot()
}

// EventsDropped reports events discarded by the dispatcher under
// backpressure.
func (t *Tracker) EventsDropped() uint64 {
	if t == nil || t.events == nil {
		return 0
	}
	return t.events.Dropped()
}

// Close stops the periodic flusher (if started) and drains the event
// dispatcher. It does not flush; callers that want a final persist should
// call Flush first or use the Flusher, whose Close performs one.
func (t *Tracker) Close() {
	if t == nil {
		return
	}

	t.flusherMu.Lock()
	flusher := t.flusher
	t.flusher = nil
	t.flusherMu.Unlock()
	if flusher != nil {
		flusher.Close()
	}

	if t.events != nil {
		t.events.Close()
	}
}

func (t *Tracker) metricInc(id MetricID) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.Inc(id)
}

func (t *Tracker) metricAdd(id MetricID, delta uint64) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.Add(id, delta)
}

func (t *Tracker) metricObserve(id MetricID, d time.Duration) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.Observe(id, d)
}
