package export

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Exporter is the single entry point of the pipeline: it drives pagination
// to completion, assembles the run summary, and hands the final document to
// the result sink exactly once. A failed run persists nothing.
type Exporter struct {
	driver  *Driver
	result  ResultSink
	logger  zerolog.Logger
	summary RunSummary
}

// NewExporter wires a driver and a result sink into a runnable export.
// The result sink may be nil when the caller only wants the returned records.
func NewExporter(fetcher PageFetcher, config DriverConfig, result ResultSink, logger zerolog.Logger) (*Exporter, error) {
	driver, err := NewDriver(fetcher, config, logger)
	if err != nil {
		return nil, err
	}

	return &Exporter{
		driver: driver,
		result: result,
		logger: logger,
	}, nil
}

// State returns the lifecycle state: the driver's state while paginating,
// StateDone once the result has been persisted.
func (e *Exporter) State() State {
	return e.driver.State()
}

// Run executes the export run end to end and returns the enriched campaigns.
func (e *Exporter) Run(ctx context.Context) ([]EnrichedCampaign, error) {
	start := time.Now()

	campaigns, err := e.driver.Run(ctx)
	if err != nil {
		return nil, err
	}

	fetched, kept, withErrors := e.driver.Totals()
	doc := &Document{
		Summary: RunSummary{
			TotalFetched:    fetched,
			TotalKept:       kept,
			TotalWithErrors: withErrors,
			DurationSeconds: time.Since(start).Seconds(),
			Timestamp:       time.Now().UTC(),
			TestMode:        e.driver.config.TestMode,
			Filter:          e.driver.config.Filter,
		},
		Campaigns: campaigns,
	}
	e.summary = doc.Summary

	if e.result != nil {
		if err := e.result.Persist(ctx, doc); err != nil {
			return nil, fmt.Errorf("persist export result: %w", err)
		}
	}

	e.driver.state = StateDone
	e.logger.Info().
		Int("campaigns", len(campaigns)).
		Float64("duration_seconds", doc.Summary.DurationSeconds).
		Msg("Export complete")

	return campaigns, nil
}

// Summary returns the summary of the last run, identical to the one in the
// persisted document. Valid once Run has returned.
func (e *Exporter) Summary() RunSummary {
	return e.summary
}
