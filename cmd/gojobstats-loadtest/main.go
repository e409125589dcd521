package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goJobStats "github.com/MrEthical07/goJobStats"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func main() {
	var (
		workers        = flag.Int("workers", 64, "number of concurrent workers")
		jobs           = flag.Int("jobs", 200000, "total job executions")
		classes        = flag.Int("classes", 8, "number of distinct job classes")
		failRatio      = flag.Float64("fail-ratio", 0.05, "fraction of jobs that fail")
		interruptRatio = flag.Float64("interrupt-ratio", 0.02, "fraction of jobs that yield via interruption")
		flushEvery     = flag.Duration("flush-every", 2*time.Second, "periodic flush cadence")
		redisAddr      = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
	)
	flag.Parse()

	if *workers <= 0 || *jobs <= 0 || *classes <= 0 {
		fmt.Fprintln(os.Stderr, "workers, jobs, and classes must be > 0")
		os.Exit(2)
	}
	if *failRatio < 0 || *interruptRatio < 0 || *failRatio+*interruptRatio > 1 {
		fmt.Fprintln(os.Stderr, "fail-ratio and interrupt-ratio must be >= 0 and sum to <= 1")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goJobStats.DefaultConfig()
	cfg.Flush.Interval = *flushEvery

	tracker, err := goJobStats.New().
		WithConfig(cfg).
		WithRedis(client).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracker build failed: %v\n", err)
		os.Exit(1)
	}
	defer tracker.Close()

	flusher := tracker.StartFlusher()

	classNames := make([]string, *classes)
	for i := range classNames {
		classNames[i] = fmt.Sprintf("LoadJob%02d", i)
	}

	fmt.Printf("tracking %d jobs across %d workers...\n", *jobs, *workers)

	stats := runTrackPhase(ctx, tracker, classNames, *jobs, *workers, *failRatio, *interruptRatio)

	// Stop the cadence; its close performs the final drain.
	flusher.Close()

	fmt.Println("---- results ----")
	printStats("track", stats)

	snap := tracker.MetricsSnapshot()
	fmt.Printf("tracker: success=%d failed=%d interrupted=%d panics=%d\n",
		snap.Counters[goJobStats.MetricJobSuccess],
		snap.Counters[goJobStats.MetricJobFailure],
		snap.Counters[goJobStats.MetricJobInterrupted],
		snap.Counters[goJobStats.MetricJobPanic],
	)
	fmt.Printf("flush: success=%d failed=%d skipped-empty=%d redis-ops=%d events-dropped=%d\n",
		snap.Counters[goJobStats.MetricFlushSuccess],
		snap.Counters[goJobStats.MetricFlushFailure],
		snap.Counters[goJobStats.MetricFlushSkippedEmpty],
		snap.Counters[goJobStats.MetricStoreOps],
		tracker.EventsDropped(),
	)

	keys, err := client.Keys(ctx, cfg.Buckets.RedisPrefix+"|*").Result()
	if err == nil {
		fmt.Printf("counter buckets written: %d\n", len(keys))
	}
}

func runTrackPhase(ctx context.Context, tracker *goJobStats.Tracker, classNames []string, jobs, workers int, failRatio, interruptRatio float64) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, jobs)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			workerID := fmt.Sprintf("worker-%d", worker)
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= jobs {
					return
				}

				class := classNames[r.Intn(len(classNames))]
				roll := r.Float64()

				jobCtx := goJobStats.WithWorkerID(ctx, workerID)
				jobCtx = goJobStats.WithJobID(jobCtx, uuid.NewString())

				t0 := time.Now()
				err := tracker.Track(jobCtx, "load", class, func() error {
					busyWork(r.Intn(64))
					switch {
					case roll < failRatio:
						return fmt.Errorf("simulated failure %d", i)
					case roll < failRatio+interruptRatio:
						return goJobStats.ErrJobInterrupted
					default:
						return nil
					}
				})
				d := time.Since(t0)

				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

// busyWork burns a few microseconds so job durations spread across the
// histogram's low buckets instead of all landing in the first one.
func busyWork(n int) {
	acc := 0
	for i := 0; i < n*1000; i++ {
		acc += i % 7
	}
	_ = acc
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d errors=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
