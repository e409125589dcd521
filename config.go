package goJobStats

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by goJobStats APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Buckets   BucketConfig
	Histogram HistogramConfig
	Flush     FlushConfig
	Events    EventConfig
	Metrics   MetricsConfig
}

/*
====================================
BUCKET CONFIG
====================================
*/

// BucketConfig defines a public type used by goJobStats APIs.
//
// BucketConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type BucketConfig struct {
	// RedisPrefix is prepended (with a '|' separator) to every counter
	// bucket key. The default "j" is the interop contract expected by
	// rollup readers; change it only when readers agree.
	RedisPrefix string
	CoarseTTL   time.Duration // 10-minute buckets, default 72h
	FineTTL     time.Duration // 1-minute buckets, default 8h
}

/*
====================================
HISTOGRAM CONFIG
====================================
*/

// HistogramConfig defines a public type used by goJobStats APIs.
//
// HistogramConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramConfig struct {
	Enabled bool
}

/*
====================================
FLUSH CONFIG
====================================
*/

// FlushConfig defines a public type used by goJobStats APIs.
//
// FlushConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type FlushConfig struct {
	// Interval is the periodic flush cadence used by [Tracker.StartFlusher].
	Interval time.Duration
	// Timeout bounds each periodic flush's Redis I/O.
	Timeout time.Duration
}

/*
====================================
EVENT CONFIG
====================================
*/

// EventConfig defines a public type used by goJobStats APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goJobStats APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                     bool
	EnableFlushLatencyHistogram bool
}

// DefaultConfig describes the defaultconfig operation and its observable behavior.
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Buckets: BucketConfig{
			RedisPrefix: "j",
			CoarseTTL:   72 * time.Hour,
			FineTTL:     8 * time.Hour,
		},
		Histogram: HistogramConfig{
			Enabled: true,
		},
		Flush: FlushConfig{
			Interval: 5 * time.Second,
			Timeout:  2 * time.Second,
		},
		Events: EventConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                     true,
			EnableFlushLatencyHistogram: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a copy is a deep copy.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	// Buckets
	if c.Buckets.RedisPrefix == "" {
		return errors.New("Buckets RedisPrefix must not be empty")
	}
	if strings.Contains(c.Buckets.RedisPrefix, "|") {
		return errors.New("Buckets RedisPrefix must not contain '|'")
	}
	if c.Buckets.CoarseTTL <= 0 {
		return errors.New("Buckets CoarseTTL must be > 0")
	}
	if c.Buckets.FineTTL <= 0 {
		return errors.New("Buckets FineTTL must be > 0")
	}
	if c.Buckets.CoarseTTL < c.Buckets.FineTTL {
		return errors.New("Buckets CoarseTTL must be >= FineTTL")
	}

	// Flush
	if c.Flush.Interval <= 0 {
		return errors.New("Flush Interval must be > 0")
	}
	if c.Flush.Timeout <= 0 {
		return errors.New("Flush Timeout must be > 0")
	}

	// Events
	if c.Events.Enabled {
		if c.Events.BufferSize <= 0 {
			return errors.New("Events BufferSize must be > 0 when events are enabled")
		}
	}

	return nil
}
