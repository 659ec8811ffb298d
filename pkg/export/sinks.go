package export

import "context"

// PageFetcher fetches one page of campaigns at the given offset. The
// concrete implementation is the HTTP API client; tests substitute fakes.
// A nil-safe empty page (no campaigns) signals the natural end of data.
type PageFetcher interface {
	FetchPage(ctx context.Context, offset, limit int) (*Page, error)
}

// ErrorSink receives one line per relationship violation or per-record
// processing failure. Implementations are expected to durably append a
// timestamped line and surface it for operator visibility; the pipeline
// itself does not inspect sink failures.
type ErrorSink interface {
	LogError(message string)
}

// ResultSink persists the final export document. It is invoked exactly once
// per successful run; a failed run persists nothing.
type ResultSink interface {
	Persist(ctx context.Context, doc *Document) error
}

// nopErrorSink discards everything. Used when no sink is configured.
type nopErrorSink struct{}

func (nopErrorSink) LogError(string) {}
