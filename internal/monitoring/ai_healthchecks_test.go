package monitoring

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

// scriptedChecker blocks each probe until the test supplies its result.
type scriptedChecker struct {
	results chan bool
}

func (f *scriptedChecker) HealthCheck(ctx context.Context) bool {
	select {
	case r := <-f.results:
		return r
	case <-ctx.Done():
		return false
	}
}

func TestMonitorSummarizerHealth(t *testing.T) {
	checker := &scriptedChecker{results: make(chan bool)}

	healthy := &atomic.Bool{}
	healthy.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		MonitorSummarizerHealth(ctx, checker, healthy, 5*time.Millisecond)
		close(done)
	}()

	checker.results <- false
	waitFor(t, func() bool { return !healthy.Load() }, "first probe to mark unhealthy")
	checker.results <- true
	waitFor(t, healthy.Load, "later probe to mark healthy")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
