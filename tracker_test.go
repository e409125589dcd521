package goJobStats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTracker(t *testing.T, mutate ...func(*Config)) (*Tracker, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := defaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	tracker, err := New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		mr.Close()
		t.Fatalf("build failed: %v", err)
	}

	return tracker, mr, func() {
		tracker.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func newTestTrackerWithSink(t *testing.T, sink EventSink) (*Tracker, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := defaultConfig()
	cfg.Events.Enabled = true

	tracker, err := New().WithConfig(cfg).WithRedis(rdb).WithEventSink(sink).Build()
	if err != nil {
		mr.Close()
		t.Fatalf("build failed: %v", err)
	}

	return tracker, mr, func() {
		tracker.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

func TestTrackSuccessCountsProcessedAndDuration(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	err := tracker.Track(context.Background(), "default", "ReportJob", func() error {
		time.Sleep(15 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("track returned error: %v", err)
	}

	snap := tracker.EpochSnapshot()
	if snap.Processed != 1 {
		t.Fatalf("expected processed=1, got %d", snap.Processed)
	}
	if snap.Failed != 0 {
		t.Fatalf("expected failed=0, got %d", snap.Failed)
	}
	if snap.PerClass["ReportJob|p"] != 1 {
		t.Fatalf("expected ReportJob|p=1, got %d", snap.PerClass["ReportJob|p"])
	}
	if ms := snap.PerClass["ReportJob|ms"]; ms < 10 {
		t.Fatalf("expected ReportJob|ms >= 10, got %d", ms)
	}
	if snap.TotalMS != snap.PerClass["ReportJob|ms"] {
		t.Fatalf("global ms %d != class ms %d", snap.TotalMS, snap.PerClass["ReportJob|ms"])
	}
	if len(snap.HistogramClasses) != 1 || snap.HistogramClasses[0] != "ReportJob" {
		t.Fatalf("expected one ReportJob histogram, got %v", snap.HistogramClasses)
	}
}

func TestTrackFailureCountsFailedNotDuration(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	boom := errors.New("boom")
	err := tracker.Track(context.Background(), "default", "ImportJob", func() error {
		time.Sleep(5 * time.Millisecond)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error propagated, got %v", err)
	}

	snap := tracker.EpochSnapshot()
	if snap.PerClass["ImportJob|p"] != 1 {
		t.Fatalf("expected ImportJob|p=1, got %d", snap.PerClass["ImportJob|p"])
	}
	if snap.PerClass["ImportJob|f"] != 1 {
		t.Fatalf("expected ImportJob|f=1, got %d", snap.PerClass["ImportJob|f"])
	}
	if _, ok := snap.PerClass["ImportJob|ms"]; ok {
		t.Fatal("failure must not record duration")
	}
	if len(snap.HistogramClasses) != 0 {
		t.Fatalf("failure must not create a histogram, got %v", snap.HistogramClasses)
	}
}

func TestTrackInterruptionCountsProcessedAndDurationNeverFailed(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	err := tracker.Track(context.Background(), "default", "LongJob", func() error {
		time.Sleep(5 * time.Millisecond)
		return fmt.Errorf("checkpoint reached: %w", ErrJobInterrupted)
	})
	if !errors.Is(err, ErrJobInterrupted) {
		t.Fatalf("expected interruption propagated, got %v", err)
	}

	snap := tracker.EpochSnapshot()
	if snap.PerClass["LongJob|p"] != 1 {
		t.Fatalf("expected LongJob|p=1, got %d", snap.PerClass["LongJob|p"])
	}
	if snap.PerClass["LongJob|f"] != 0 {
		t.Fatalf("interruption must never count as failed, got %d", snap.PerClass["LongJob|f"])
	}
	if _, ok := snap.PerClass["LongJob|ms"]; !ok {
		t.Fatal("interruption must record duration")
	}
}

func TestTrackPanicCountsFailureAndRepanics(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	var recovered any
	func() {
		defer func() { recovered = recover() }()
		_ = tracker.Track(context.Background(), "default", "CrashJob", func() error {
			panic("job exploded")
		})
	}()

	if recovered != "job exploded" {
		t.Fatalf("expected panic to propagate unchanged, got %v", recovered)
	}

	snap := tracker.EpochSnapshot()
	if snap.PerClass["CrashJob|p"] != 1 {
		t.Fatalf("expected CrashJob|p=1, got %d", snap.PerClass["CrashJob|p"])
	}
	if snap.PerClass["CrashJob|f"] != 1 {
		t.Fatalf("expected CrashJob|f=1, got %d", snap.PerClass["CrashJob|f"])
	}
	if _, ok := snap.PerClass["CrashJob|ms"]; ok {
		t.Fatal("panic must not record duration")
	}
}

func TestTrackNilBody(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	if err := tracker.Track(context.Background(), "default", "NilJob", nil); !errors.Is(err, ErrNilJob) {
		t.Fatalf("expected ErrNilJob, got %v", err)
	}

	if snap := tracker.EpochSnapshot(); snap.Processed != 0 {
		t.Fatalf("nil body must not be counted, got processed=%d", snap.Processed)
	}
}

func TestTrackNilTracker(t *testing.T) {
	var tracker *Tracker
	if err := tracker.Track(context.Background(), "default", "Job", func() error { return nil }); !errors.Is(err, ErrTrackerNotReady) {
		t.Fatalf("expected ErrTrackerNotReady, got %v", err)
	}
}

func TestTrackConcurrentAccounting(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	const goroutines = 16
	const perG = 500

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perG; j++ {
				_ = tracker.Track(context.Background(), "default", "BulkJob", func() error { return nil })
			}
		}()
	}
	wg.Wait()

	snap := tracker.EpochSnapshot()
	want := int64(goroutines * perG)
	if snap.Processed != want {
		t.Fatalf("expected processed=%d, got %d", want, snap.Processed)
	}
	if snap.PerClass["BulkJob|p"] != want {
		t.Fatalf("expected BulkJob|p=%d, got %d", want, snap.PerClass["BulkJob|p"])
	}
	if snap.Failed != 0 {
		t.Fatalf("expected failed=0, got %d", snap.Failed)
	}
}

func TestTrackTotalsMatchPerClassSums(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	classes := []string{"A", "B", "C"}
	for i, class := range classes {
		for j := 0; j <= i; j++ {
			_ = tracker.Track(context.Background(), "default", class, func() error { return nil })
		}
		_ = tracker.Track(context.Background(), "default", class, func() error { return errors.New("x") })
	}

	snap := tracker.EpochSnapshot()

	var p, f, ms int64
	for _, class := range classes {
		p += snap.PerClass[class+"|p"]
		f += snap.PerClass[class+"|f"]
		ms += snap.PerClass[class+"|ms"]
	}
	if p != snap.Processed {
		t.Fatalf("per-class p sum %d != processed %d", p, snap.Processed)
	}
	if f != snap.Failed {
		t.Fatalf("per-class f sum %d != failed %d", f, snap.Failed)
	}
	if ms != snap.TotalMS {
		t.Fatalf("per-class ms sum %d != total ms %d", ms, snap.TotalMS)
	}
}

func TestTrackerSelfMetrics(t *testing.T) {
	tracker, _, cleanup := newTestTracker(t)
	defer cleanup()

	_ = tracker.Track(context.Background(), "default", "A", func() error { return nil })
	_ = tracker.Track(context.Background(), "default", "A", func() error { return errors.New("x") })
	_ = tracker.Track(context.Background(), "default", "A", func() error { return ErrJobInterrupted })

	snap := tracker.MetricsSnapshot()
	if snap.Counters[MetricJobSuccess] != 1 {
		t.Fatalf("expected 1 success, got %d", snap.Counters[MetricJobSuccess])
	}
	if snap.Counters[MetricJobFailure] != 1 {
		t.Fatalf("expected 1 failure, got %d", snap.Counters[MetricJobFailure])
	}
	if snap.Counters[MetricJobInterrupted] != 1 {
		t.Fatalf("expected 1 interruption, got %d", snap.Counters[MetricJobInterrupted])
	}
}
