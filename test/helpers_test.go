//go:build integration
// +build integration

package test

import (
	"testing"

	goJobStats "github.com/MrEthical07/goJobStats"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newIntegrationTracker(t *testing.T, mutate ...func(*goJobStats.Config)) (*goJobStats.Tracker, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := goJobStats.DefaultConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	tracker, err := goJobStats.New().WithConfig(cfg).WithRedis(rdb).Build()
	if err != nil {
		mr.Close()
		t.Fatalf("tracker build failed: %v", err)
	}

	return tracker, mr, func() {
		tracker.Close()
		_ = rdb.Close()
		mr.Close()
	}
}
