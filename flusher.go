package goJobStats

import (
	"context"
	"sync"
	"time"
)

// Flusher periodically persists the tracker's epoch on the configured
// Flush.Interval cadence. It is optional: hosts with their own heartbeat can
// call [Tracker.Flush] directly instead.
type Flusher struct {
	tracker   *Tracker
	interval  time.Duration
	timeout   time.Duration
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// StartFlusher launches the periodic flush goroutine. At most one Flusher
// runs per Tracker; repeated calls return the already-running instance.
func (t *Tracker) StartFlusher() *Flusher {
	if t == nil || t.clock == nil {
		return nil
	}

	t.flusherMu.Lock()
	defer t.flusherMu.Unlock()

	if t.flusher != nil {
		return t.flusher
	}

	f := &Flusher{
		tracker:  t,
		interval: t.config.Flush.Interval,
		timeout:  t.config.Flush.Timeout,
		done:     make(chan struct{}),
	}

	f.wg.Add(1)
	go f.run()

	t.flusher = f
	return f
}

func (f *Flusher) run() {
	defer f.wg.Done()

	ticker := f.tracker.clock.NewTicker(f.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C():
			f.flushOnce()
		case <-f.done:
			// Final drain so shutdown does not lose the last window.
			f.flushOnce()
			return
		}
	}
}

// flushOnce swallows the error: flush failures are already surfaced through
// MetricFlushFailure and the EventFlush stream, and the accepted-loss policy
// means there is nothing further to do here.
func (f *Flusher) flushOnce() {
	ctx, cancel := f.tracker.clock.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	_, _ = f.tracker.Flush(ctx, time.Time{})
}

// Close stops the cadence, performs one final flush, and waits for the
// goroutine to exit. Safe to call more than once.
func (f *Flusher) Close() {
	if f == nil {
		return
	}
	f.closeOnce.Do(func() {
		close(f.done)
		f.wg.Wait()
	})
}
