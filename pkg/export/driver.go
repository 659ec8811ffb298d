package export

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/openmkt/campaign-export/pkg/ratelimit"
)

// Prometheus metrics for the pagination driver.
var (
	pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_export_pages_fetched_total",
		Help: "Total pages fetched across all runs",
	})

	campaignsFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_export_campaigns_fetched_total",
		Help: "Total campaigns fetched across all runs",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_export_runs_total",
		Help: "Total export runs by terminal state",
	}, []string{"state"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "campaign_export_run_duration_seconds",
		Help:    "Export run duration in seconds",
		Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
	})
)

// State is the driver's position in its lifecycle.
type State string

const (
	// StateFetching means the driver is requesting and processing pages.
	StateFetching State = "fetching"

	// StateStoppedEmpty means the driver hit an empty page: the natural
	// end of data. Terminal, success.
	StateStoppedEmpty State = "stopped_empty"

	// StateStoppedTestLimit means test mode capped the run after one
	// page's worth of campaigns. Terminal, success.
	StateStoppedTestLimit State = "stopped_test_limit"

	// StateDone means the run completed and the result was persisted.
	StateDone State = "done"

	// StateFailed means a page fetch failed. Terminal, the error is
	// propagated and nothing is persisted.
	StateFailed State = "failed"
)

// DriverConfig configures a pagination run.
type DriverConfig struct {
	// BatchSize is the page size requested from the API (default 100).
	BatchSize int

	// TestMode stops the run once one page's worth of campaigns has been
	// fetched, regardless of how much data remains.
	TestMode bool

	// Filter is applied to every fetched campaign.
	Filter FilterConfig

	// Limiter gates each iteration after a successfully processed page.
	// Defaults to no pacing; production runs use a fixed-interval gate.
	Limiter ratelimit.Limiter

	// Errors receives relationship violations and per-record failures.
	Errors ErrorSink
}

// DefaultBatchSize is used when DriverConfig.BatchSize is unset.
const DefaultBatchSize = 100

// Driver walks a paginated campaign endpoint page by page, strictly
// sequentially, restructuring each page and accumulating totals until an
// empty page, the test-mode cap, or a fetch failure ends the run.
//
// A Driver is single-use: one Run per Driver. It owns all mutable run state;
// nothing is shared across pages except the accumulated output and counters.
type Driver struct {
	fetcher PageFetcher
	config  DriverConfig
	logger  zerolog.Logger

	state           State
	offset          int
	totalFetched    int
	totalKept       int
	totalWithErrors int
}

// NewDriver creates a driver for one export run.
func NewDriver(fetcher PageFetcher, config DriverConfig, logger zerolog.Logger) (*Driver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("page fetcher is required")
	}
	if config.BatchSize < 0 {
		return nil, fmt.Errorf("batch size must not be negative (got %d)", config.BatchSize)
	}
	if config.BatchSize == 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Limiter == nil {
		config.Limiter = ratelimit.Nop{}
	}
	if config.Errors == nil {
		config.Errors = nopErrorSink{}
	}

	return &Driver{
		fetcher: fetcher,
		config:  config,
		logger:  logger,
		state:   StateFetching,
	}, nil
}

// State returns the driver's current state.
func (d *Driver) State() State {
	return d.state
}

// Totals returns the running counters: campaigns fetched, kept, and kept
// with relationship errors.
func (d *Driver) Totals() (fetched, kept, withErrors int) {
	return d.totalFetched, d.totalKept, d.totalWithErrors
}

// Run drives pagination to a terminal state and returns the accumulated
// enriched campaigns. On a fetch failure the error is logged, recorded, and
// returned; partial results are discarded by the caller.
func (d *Driver) Run(ctx context.Context) ([]EnrichedCampaign, error) {
	start := time.Now()
	// The document's campaign sequence must serialize as an array even when
	// nothing is kept, so the accumulator starts non-nil.
	out := []EnrichedCampaign{}

	d.logger.Info().
		Int("batch_size", d.config.BatchSize).
		Bool("test_mode", d.config.TestMode).
		Msg("Starting campaign export run")

	for d.state == StateFetching {
		// Test-mode cap: one page's worth of campaigns is enough to
		// validate a configuration.
		if d.config.TestMode && d.totalFetched >= d.config.BatchSize {
			d.state = StateStoppedTestLimit
			d.logger.Info().
				Int("total_fetched", d.totalFetched).
				Msg("Test mode limit reached, stopping")
			break
		}

		page, err := d.fetcher.FetchPage(ctx, d.offset, d.config.BatchSize)
		if err != nil {
			d.state = StateFailed
			msg := fmt.Sprintf("page fetch failed at offset %d: %v", d.offset, err)
			d.config.Errors.LogError(msg)
			d.logger.Error().
				Err(err).
				Int("offset", d.offset).
				Msg("Page fetch failed, aborting run")
			runsTotal.WithLabelValues(string(StateFailed)).Inc()
			return nil, fmt.Errorf("fetch page at offset %d: %w", d.offset, err)
		}

		pagesFetchedTotal.Inc()

		if page == nil || len(page.Campaigns) == 0 {
			d.state = StateStoppedEmpty
			d.logger.Info().
				Int("offset", d.offset).
				Msg("Empty page, end of data")
			break
		}

		batch := RestructureBatch(page, d.config.Filter, d.config.Errors, d.logger)

		out = append(out, batch...)
		d.totalFetched += len(page.Campaigns)
		d.totalKept += len(batch)
		for i := range batch {
			if !batch[i].Meta.RelationshipsValid {
				d.totalWithErrors++
			}
		}
		campaignsFetchedTotal.Add(float64(len(page.Campaigns)))

		d.logger.Debug().
			Int("offset", d.offset).
			Int("page_campaigns", len(page.Campaigns)).
			Int("page_kept", len(batch)).
			Int("total_fetched", d.totalFetched).
			Msg("Page processed")

		d.offset += d.config.BatchSize

		// Single suspension point per iteration, courtesy pacing for
		// the remote API.
		if err := d.config.Limiter.Wait(ctx); err != nil {
			d.state = StateFailed
			runsTotal.WithLabelValues(string(StateFailed)).Inc()
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}
	}

	runsTotal.WithLabelValues(string(d.state)).Inc()
	runDuration.Observe(time.Since(start).Seconds())

	d.logger.Info().
		Str("state", string(d.state)).
		Int("total_fetched", d.totalFetched).
		Int("total_kept", d.totalKept).
		Int("total_with_errors", d.totalWithErrors).
		Dur("duration", time.Since(start)).
		Msg("Export run finished")

	return out, nil
}
