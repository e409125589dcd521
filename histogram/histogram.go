package histogram

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// BucketIntervals lists the inclusive upper bounds, in milliseconds, of the
// finite buckets. An execution of exactly 20ms lands in bucket 0; anything
// above the last bound lands in the overflow bucket.
var BucketIntervals = []int64{
	20, 30, 45, 65, 100,
	150, 225, 335, 500, 750,
	1100, 1700, 2500, 3800, 5750,
	8500, 13000, 20000, 30000, 45000,
	65000, 100000, 150000, 225000, 335000,
}

// BucketCount is the total bucket count, including the overflow bucket.
const BucketCount = 26

const (
	keyPrefix = "h"
	keyTTL    = 8 * time.Hour
)

// Histogram accumulates a duration distribution for one job class within one
// aggregation window. Buckets use atomic counters so the type stays safe even
// when recorded outside the tracker's epoch lock.
type Histogram struct {
	jobClass string
	buckets  [BucketCount]int64
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(jobClass string) *Histogram {
	return &Histogram{jobClass: jobClass}
}

// JobClass describes the jobclass operation and its observable behavior.
//
// JobClass does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Histogram) JobClass() string {
	if h == nil {
		return ""
	}
	return h.jobClass
}

// RecordTime observes one execution duration. Negative inputs count as zero.
func (h *Histogram) RecordTime(ms int64) {
	if h == nil {
		return
	}
	if ms < 0 {
		ms = 0
	}

	idx := sort.Search(len(BucketIntervals), func(i int) bool {
		return ms <= BucketIntervals[i]
	})
	atomic.AddInt64(&h.buckets[idx], 1)
}

// Count describes the count operation and its observable behavior.
//
// Count does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (h *Histogram) Count() int64 {
	if h == nil {
		return 0
	}

	var total int64
	for i := range h.buckets {
		total += atomic.LoadInt64(&h.buckets[i])
	}
	return total
}

// Buckets returns a copy of the per-bucket counts, indexed to match
// [BucketIntervals] with the overflow bucket last.
func (h *Histogram) Buckets() []int64 {
	out := make([]int64, BucketCount)
	if h == nil {
		return out
	}
	for i := range h.buckets {
		out[i] = atomic.LoadInt64(&h.buckets[i])
	}
	return out
}

// Persist queues the non-empty buckets onto pipe as hash-field increments on
// [Key] for the given flush timestamp, followed by an 8-hour expiry, and
// returns the number of commands queued. An empty histogram queues nothing.
func (h *Histogram) Persist(ctx context.Context, pipe redis.Pipeliner, at time.Time) int {
	if h == nil || pipe == nil {
		return 0
	}

	key := Key(h.jobClass, at)
	ops := 0
	for i := range h.buckets {
		v := atomic.LoadInt64(&h.buckets[i])
		if v == 0 {
			continue
		}
		pipe.HIncrBy(ctx, key, strconv.Itoa(i), v)
		ops++
	}
	if ops > 0 {
		pipe.Expire(ctx, key, keyTTL)
		ops++
	}
	return ops
}

// Key renders the Redis key a class's distribution is persisted under for a
// given UTC minute: "h|yymmdd|H:MM-<class>".
func Key(jobClass string, at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("%s|%02d%02d%02d|%d:%02d-%s",
		keyPrefix, at.Year()%100, int(at.Month()), at.Day(), at.Hour(), at.Minute(), jobClass)
}
