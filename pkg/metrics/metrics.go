// Package metrics provides the central Prometheus metrics reference for the
// campaign exporter. All metrics are defined in their respective packages
// (client, cache, export, ratelimit) to maintain modularity and avoid
// circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the exporter.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - campaign_export_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - campaign_export_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - campaign_export_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Cache Metrics (pkg/cache):
//   - campaign_export_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - campaign_export_cache_misses_total (Counter): Cache misses
//   - campaign_export_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - campaign_export_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pipeline Metrics (pkg/export):
//   - campaign_export_pages_fetched_total (Counter): Pages fetched
//   - campaign_export_campaigns_fetched_total (Counter): Campaigns fetched
//   - campaign_export_restructured_total (Counter): Campaigns kept after filtering
//   - campaign_export_skipped_total{reason} (Counter): Campaigns skipped (filter, error)
//   - campaign_export_relationship_errors_total (Counter): Relationship violations recorded
//   - campaign_export_runs_total{state} (Counter): Runs by terminal state
//   - campaign_export_run_duration_seconds (Histogram): Run duration
//
// Pacing Metrics (pkg/ratelimit):
//   - campaign_export_limiter_waits_total (Counter): Inter-request waits
//   - campaign_export_limiter_wait_seconds (Histogram): Wait durations
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(campaign_export_cache_hits_total[5m])) /
//   (sum(rate(campaign_export_cache_hits_total[5m])) + sum(rate(campaign_export_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(campaign_export_errors_total[5m])
//
//   # Share of runs ending in failure
//   rate(campaign_export_runs_total{state="failed"}[1h])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(campaign_export_request_duration_seconds_bucket[5m]))
