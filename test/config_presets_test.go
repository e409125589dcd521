package test

import (
	"testing"
	"time"

	goJobStats "github.com/MrEthical07/goJobStats"
)

func TestDefaultConfigPresetValidates(t *testing.T) {
	cfg := goJobStats.DefaultConfig()

	if cfg.Buckets.RedisPrefix != "j" {
		t.Fatalf("expected rollup prefix j, got %q", cfg.Buckets.RedisPrefix)
	}
	if cfg.Buckets.CoarseTTL != 72*time.Hour {
		t.Fatalf("expected 72h coarse retention, got %v", cfg.Buckets.CoarseTTL)
	}
	if cfg.Buckets.FineTTL != 8*time.Hour {
		t.Fatalf("expected 8h fine retention, got %v", cfg.Buckets.FineTTL)
	}
	if !cfg.Histogram.Enabled {
		t.Fatal("expected histograms enabled in preset baseline")
	}
	if cfg.Events.Enabled {
		t.Fatal("expected events disabled in preset baseline")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected preset to validate, got %v", err)
	}
}
