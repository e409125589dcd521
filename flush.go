package goJobStats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Flush atomically detaches the current epoch and persists it into Redis as
// two time-bucketed hash rollups (10-minute and 1-minute granularity) plus
// the per-class histograms. A zero at means "now". It returns the number of
// Redis commands issued.
//
// An epoch with zero processed and zero failed executions is swapped out but
// not persisted; Flush returns (0, nil) without contacting Redis. On a store
// error the detached data is not re-merged into the live epoch: metrics for
// that interval are lost unless the caller retries around Flush.
//
// Safe to call concurrently with Track. Concurrent Flush calls each own a
// private detached epoch and cannot corrupt state, though the caller should
// avoid self-overlap if it cares about exactly-once persistence.
func (t *Tracker) Flush(ctx context.Context, at time.Time) (int, error) {
	if t == nil || t.redis == nil {
		return 0, ErrTrackerNotReady
	}
	if at.IsZero() {
		at = t.clock.Now()
	}
	at = at.UTC()
	start := t.clock.Now()

	detached := t.detachEpoch()

	if detached.processed == 0 && detached.failed == 0 {
		t.metricInc(MetricFlushSkippedEmpty)
		return 0, nil
	}

	ops := 0

	if len(detached.hists) > 0 {
		pipe := t.redis.Pipeline()
		queued := 0
		for _, h := range detached.hists {
			queued += h.Persist(ctx, pipe, at)
		}
		if queued > 0 {
			if _, err := pipe.Exec(ctx); err != nil {
				return t.flushFailed(ctx, at, ops, err)
			}
			ops += queued
		}
	}

	fine := fineBucketID(at)
	buckets := []struct {
		id  string
		ttl time.Duration
	}{
		{coarseBucketID(at), t.config.Buckets.CoarseTTL},
		{fine, t.config.Buckets.FineTTL},
	}

	for _, b := range buckets {
		key := bucketKey(t.config.Buckets.RedisPrefix, b.id)
		pipe := t.redis.Pipeline()
		for field, n := range detached.perClass {
			pipe.HIncrBy(ctx, key, field, n)
		}
		pipe.Expire(ctx, key, b.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return t.flushFailed(ctx, at, ops, err)
		}
		ops += len(detached.perClass) + 1
	}

	t.metricInc(MetricFlushSuccess)
	t.metricAdd(MetricStoreOps, uint64(ops))
	t.metricObserve(MetricFlushLatency, t.clock.Now().Sub(start))
	t.emitFlush(ctx, at, ops, nil)

	return ops, nil
}

func (t *Tracker) flushFailed(ctx context.Context, at time.Time, ops int, err error) (int, error) {
	t.metricInc(MetricFlushFailure)
	wrapped := fmt.Errorf("%w: %v", ErrFlushUnavailable, err)
	t.emitFlush(ctx, at, ops, wrapped)
	return ops, wrapped
}

func (t *Tracker) emitFlush(ctx context.Context, at time.Time, ops int, err error) {
	if t.events == nil {
		return
	}

	event := Event{
		Timestamp: t.clock.Now(),
		EventType: EventFlush,
		EventID:   uuid.NewString(),
		BucketID:  fineBucketID(at),
		Ops:       ops,
		Success:   err == nil,
	}
	if err != nil {
		event.Error = err.Error()
	}
	t.events.Emit(ctx, event)
}

func (t *Tracker) emitJobFailed(ctx context.Context, queueName, jobClass, reason string) {
	if t.events == nil {
		return
	}

	t.events.Emit(ctx, Event{
		Timestamp: t.clock.Now(),
		EventType: EventJobFailed,
		EventID:   uuid.NewString(),
		Queue:     queueName,
		JobClass:  jobClass,
		WorkerID:  workerIDFromContext(ctx),
		JobID:     jobIDFromContext(ctx),
		Success:   false,
		Error:     reason,
	})
}
