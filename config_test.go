package goJobStats

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate, got %v", err)
	}
}

func TestDefaultConfigValues(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Buckets.RedisPrefix != "j" {
		t.Fatalf("expected prefix j, got %q", cfg.Buckets.RedisPrefix)
	}
	if cfg.Buckets.CoarseTTL != 72*time.Hour || cfg.Buckets.FineTTL != 8*time.Hour {
		t.Fatalf("unexpected TTL defaults: coarse=%v fine=%v", cfg.Buckets.CoarseTTL, cfg.Buckets.FineTTL)
	}
	if !cfg.Histogram.Enabled {
		t.Fatal("histograms must default on")
	}
	if cfg.Flush.Interval != 5*time.Second || cfg.Flush.Timeout != 2*time.Second {
		t.Fatalf("unexpected flush defaults: interval=%v timeout=%v", cfg.Flush.Interval, cfg.Flush.Timeout)
	}
	if cfg.Events.Enabled {
		t.Fatal("events must default off")
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics must default on")
	}
}

func TestConfigValidateRejections(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "empty prefix",
			mutate:  func(c *Config) { c.Buckets.RedisPrefix = "" },
			wantErr: "RedisPrefix",
		},
		{
			name:    "prefix with separator",
			mutate:  func(c *Config) { c.Buckets.RedisPrefix = "j|x" },
			wantErr: "RedisPrefix",
		},
		{
			name:    "zero coarse ttl",
			mutate:  func(c *Config) { c.Buckets.CoarseTTL = 0 },
			wantErr: "CoarseTTL",
		},
		{
			name:    "zero fine ttl",
			mutate:  func(c *Config) { c.Buckets.FineTTL = 0 },
			wantErr: "FineTTL",
		},
		{
			name: "coarse shorter than fine",
			mutate: func(c *Config) {
				c.Buckets.CoarseTTL = time.Hour
				c.Buckets.FineTTL = 8 * time.Hour
			},
			wantErr: "CoarseTTL",
		},
		{
			name:    "zero flush interval",
			mutate:  func(c *Config) { c.Flush.Interval = 0 },
			wantErr: "Interval",
		},
		{
			name:    "zero flush timeout",
			mutate:  func(c *Config) { c.Flush.Timeout = 0 },
			wantErr: "Timeout",
		},
		{
			name: "events enabled without buffer",
			mutate: func(c *Config) {
				c.Events.Enabled = true
				c.Events.BufferSize = 0
			},
			wantErr: "BufferSize",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}
}

func TestCloneConfigIsIndependent(t *testing.T) {
	original := defaultConfig()
	clone := cloneConfig(original)

	clone.Buckets.RedisPrefix = "x"
	clone.Flush.Interval = time.Minute

	if original.Buckets.RedisPrefix != "j" {
		t.Fatal("mutating the clone leaked into the original")
	}
	if original.Flush.Interval != 5*time.Second {
		t.Fatal("mutating the clone leaked into the original")
	}
}
