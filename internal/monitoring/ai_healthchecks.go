package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_INTERVAL = 15 * time.Second

type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// MonitorSummarizerHealth probes the abstractive backend once immediately and
// then every interval, storing the result in healthy until ctx is done.
func MonitorSummarizerHealth(ctx context.Context, checker HealthChecker, healthy *atomic.Bool, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	probe(ctx, checker, healthy)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probe(ctx, checker, healthy)
		}
	}
}

func probe(ctx context.Context, checker HealthChecker, healthy *atomic.Bool) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	isHealthy := checker.HealthCheck(checkCtx)
	if was := healthy.Swap(isHealthy); was != isHealthy {
		if isHealthy {
			slog.Info("[HealthCheck] Summarizer recovered")
		} else {
			slog.Warn("[HealthCheck] Summarizer is unhealthy")
		}
	}
}
