// Package ratelimit implements request pacing for the export driver. The
// remote campaign API tolerates modest sequential request rates; the driver
// injects a Limiter and waits on it once per processed page. Substituting
// Nop makes pagination deterministic in tests.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for request pacing.
var (
	limiterWaitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_export_limiter_waits_total",
		Help: "Total number of inter-request waits",
	})

	limiterWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campaign_export_limiter_wait_seconds",
		Help:    "Duration of inter-request waits",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})
)

// Limiter gates the driver between page requests.
type Limiter interface {
	// Wait blocks until the next request may proceed, or until the
	// context is cancelled.
	Wait(ctx context.Context) error
}

// FixedInterval spaces requests at least a fixed duration apart. The first
// Wait releases immediately; each later Wait sleeps only for the remainder
// of the interval, so slow page processing is not penalised twice.
type FixedInterval struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
}

// NewFixedInterval creates a gate with the given minimum spacing.
// A non-positive interval behaves like Nop.
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{interval: interval}
}

// Wait implements Limiter.
func (g *FixedInterval) Wait(ctx context.Context) error {
	if g.interval <= 0 {
		return nil
	}

	g.mu.Lock()
	now := time.Now()
	var sleep time.Duration
	if !g.last.IsZero() {
		if elapsed := now.Sub(g.last); elapsed < g.interval {
			sleep = g.interval - elapsed
		}
	}
	g.last = now.Add(sleep)
	g.mu.Unlock()

	if sleep <= 0 {
		return nil
	}

	limiterWaitsTotal.Inc()
	limiterWaitSeconds.Observe(sleep.Seconds())

	timer := time.NewTimer(sleep)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Nop is a limiter that never waits. Used in tests and test-mode runs where
// deterministic timing matters more than API courtesy.
type Nop struct{}

// Wait implements Limiter.
func (Nop) Wait(ctx context.Context) error {
	return ctx.Err()
}
