//go:build integration
// +build integration

package test

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"testing"
	"time"

	goJobStats "github.com/MrEthical07/goJobStats"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// cmdCounter is a go-redis Hook that counts the number of Redis round-trips
// (individual commands and pipeline calls).
type cmdCounter struct {
	commands  atomic.Int64
	pipelines atomic.Int64
}

func (h *cmdCounter) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *cmdCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		h.commands.Add(1)
		return next(ctx, cmd)
	}
}

func (h *cmdCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		// Each pipeline call is one network round-trip regardless of command count.
		h.pipelines.Add(1)
		h.commands.Add(int64(len(cmds)))
		return next(ctx, cmds)
	}
}

func (h *cmdCounter) Reset() {
	h.commands.Store(0)
	h.pipelines.Store(0)
}

func (h *cmdCounter) Commands() int64  { return h.commands.Load() }
func (h *cmdCounter) Pipelines() int64 { return h.pipelines.Load() }

// newCountedTracker creates a tracker backed by miniredis with a cmdCounter
// hook installed. Reset the counter before each measured operation.
func newCountedTracker(t *testing.T) (*goJobStats.Tracker, *cmdCounter, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	counter := &cmdCounter{}
	rdb.AddHook(counter)

	// Warm the connection: go-redis may emit extra commands on first use
	// (handshake, HELLO, CLIENT SETNAME, etc.). Issuing a PING before
	// measuring avoids counting that noise.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("warmup ping: %v", err)
	}
	counter.Reset()

	tracker, err := goJobStats.New().WithRedis(rdb).Build()
	if err != nil {
		t.Fatalf("tracker build: %v", err)
	}

	return tracker, counter, func() {
		tracker.Close()
		_ = rdb.Close()
		mr.Close()
	}
}

// TestTrackRedisBudget verifies that Track itself never contacts Redis;
// all I/O is deferred to Flush.
func TestTrackRedisBudget(t *testing.T) {
	tracker, counter, cleanup := newCountedTracker(t)
	defer cleanup()

	counter.Reset()

	for i := 0; i < 100; i++ {
		_ = tracker.Track(context.Background(), "default", "BudgetJob", func() error { return nil })
	}

	if cmds := counter.Commands(); cmds != 0 {
		t.Errorf("Track issued %d Redis commands; budget is 0 (in-memory only)", cmds)
	}
}

// TestFlushRoundTripBudget verifies that a flush uses at most 3 pipeline
// round-trips (histograms, coarse counters, fine counters) regardless of how
// many executions the epoch holds.
func TestFlushRoundTripBudget(t *testing.T) {
	tracker, counter, cleanup := newCountedTracker(t)
	defer cleanup()

	for i := 0; i < 500; i++ {
		_ = tracker.Track(context.Background(), "default", "BudgetJob", func() error { return nil })
	}

	counter.Reset()

	if _, err := tracker.Flush(context.Background(), time.Now()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	if pipelines := counter.Pipelines(); pipelines > 3 {
		t.Errorf("Flush used %d pipeline round-trips; budget is 3", pipelines)
	}
	t.Logf("Flush: %d commands, %d pipelines", counter.Commands(), counter.Pipelines())
}

// TestFlushCommandBudgetScalesWithClasses verifies that flush command volume
// grows with distinct job classes, not with execution count.
func TestFlushCommandBudgetScalesWithClasses(t *testing.T) {
	tracker, counter, cleanup := newCountedTracker(t)
	defer cleanup()

	const classCount = 5
	const perClass = 200

	for c := 0; c < classCount; c++ {
		class := fmt.Sprintf("BudgetJob%d", c)
		for i := 0; i < perClass; i++ {
			_ = tracker.Track(context.Background(), "default", class, func() error { return nil })
		}
	}

	counter.Reset()

	ops, err := tracker.Flush(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("flush: %v", err)
	}

	// Per class: p + ms fields in two counter hashes plus one histogram
	// bucket write, bounded well below one command per execution.
	cmds := counter.Commands()
	if cmds > int64(classCount*30) {
		t.Errorf("Flush used %d Redis commands for %d classes; growth must be per-class", cmds, classCount)
	}
	if int64(ops) != cmds {
		t.Errorf("Flush reported %d ops but issued %d commands", ops, cmds)
	}
	t.Logf("Flush (%d classes, %d executions): %d commands, %d pipelines", classCount, classCount*perClass, cmds, counter.Pipelines())
}

// TestEmptyFlushRedisBudget verifies that flushing an empty epoch performs
// no Redis I/O at all.
func TestEmptyFlushRedisBudget(t *testing.T) {
	tracker, counter, cleanup := newCountedTracker(t)
	defer cleanup()

	counter.Reset()

	ops, err := tracker.Flush(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if ops != 0 {
		t.Fatalf("expected 0 ops, got %d", ops)
	}
	if cmds := counter.Commands(); cmds != 0 {
		t.Errorf("empty Flush issued %d Redis commands; budget is 0", cmds)
	}
}
