package goJobStats

import (
	"errors"

	"github.com/MrEthical07/goJobStats/histogram"
	"github.com/redis/go-redis/v9"
	"github.com/zoobzio/clockz"
)

// Builder defines a public type used by goJobStats APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	clock  clockz.Clock

	eventSink   EventSink
	histFactory HistogramFactory

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithClock overrides the time source. Default is clockz.RealClock;
// clockz.FakeClock makes bucket derivation and the periodic flusher
// deterministic in tests.
func (b *Builder) WithClock(clock clockz.Clock) *Builder {
	b.clock = clock
	return b
}

// WithEventSink describes the witheventsink operation and its observable behavior.
//
// WithEventSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEventSink(sink EventSink) *Builder {
	b.eventSink = sink
	return b
}

// WithHistogramFactory describes the withhistogramfactory operation and its observable behavior.
//
// WithHistogramFactory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithHistogramFactory(factory HistogramFactory) *Builder {
	b.histFactory = factory
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithFlushLatencyHistogram describes the withflushlatencyhistogram operation and its observable behavior.
//
// WithFlushLatencyHistogram does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithFlushLatencyHistogram(enabled bool) *Builder {
	b.config.Metrics.EnableFlushLatencyHistogram = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Tracker, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clock := b.clock
	if clock == nil {
		clock = clockz.RealClock
	}

	factory := b.histFactory
	if factory == nil && cfg.Histogram.Enabled {
		factory = func(jobClass string) Histogram {
			return histogram.New(jobClass)
		}
	}
	if !cfg.Histogram.Enabled {
		factory = nil
	}

	tracker := &Tracker{
		config:  cfg,
		redis:   b.redis,
		clock:   clock,
		newHist: factory,
		epoch:   newEpoch(),
	}

	tracker.events = newEventDispatcher(cfg.Events, b.eventSink)
	tracker.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return tracker, nil
}
