package export

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for batch restructuring.
var (
	campaignsRestructuredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_export_restructured_total",
		Help: "Total campaigns restructured and kept across all pages",
	})

	campaignsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campaign_export_skipped_total",
		Help: "Total campaigns skipped by reason",
	}, []string{"reason"})

	relationshipErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campaign_export_relationship_errors_total",
		Help: "Total relationship violations recorded on kept campaigns",
	})
)

// RestructureBatch joins, filters, and validates one page of campaigns.
// The result preserves the page's campaign order and contains only the
// campaigns the filter kept. Every relationship violation on a kept campaign
// is written to the error sink; campaigns the filter rejects are skipped
// silently without validation. A failure while processing a single campaign
// is recovered, logged with the campaign id, and that campaign alone is
// dropped - one bad record never aborts the page.
func RestructureBatch(page *Page, filter FilterConfig, errs ErrorSink, logger zerolog.Logger) []EnrichedCampaign {
	if errs == nil {
		errs = nopErrorSink{}
	}

	ix := BuildLookupIndex(page)
	out := make([]EnrichedCampaign, 0, len(page.Campaigns))

	for i := range page.Campaigns {
		rec, kept := restructureOne(&page.Campaigns[i], ix, filter, errs, logger)
		if !kept {
			continue
		}
		out = append(out, rec)
		campaignsRestructuredTotal.Inc()
	}

	return out
}

// restructureOne processes a single campaign. The deferred recover confines
// any panic to this record.
func restructureOne(c *Campaign, ix *LookupIndex, filter FilterConfig, errs ErrorSink, logger zerolog.Logger) (rec EnrichedCampaign, kept bool) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("failed to process campaign %s: %v", c.ID, r)
			errs.LogError(msg)
			logger.Error().
				Str("campaign_id", c.ID.String()).
				Interface("panic", r).
				Msg("Campaign processing failed, record skipped")
			campaignsSkippedTotal.WithLabelValues("error").Inc()
			rec, kept = EnrichedCampaign{}, false
		}
	}()

	// Resolve the join before filtering so absence can propagate; absence
	// at either step is not an error here, only a validation finding.
	var link *CampaignMessage
	var msg *Message
	if id := c.ID.String(); id != "" {
		link = ix.LinkByCampaignID(id)
	}
	if link != nil {
		if target := link.MessageID.String(); target != "" {
			msg = ix.MessageByID(target)
		}
	}

	if !filter.Match(c) {
		campaignsSkippedTotal.WithLabelValues("filter").Inc()
		return EnrichedCampaign{}, false
	}

	// Errors stays an empty array, not null, in the JSON output
	verrs := []string{}
	verrs = append(verrs, ValidateRelationships(c, link, msg)...)
	for _, e := range verrs {
		errs.LogError(e)
		relationshipErrorsTotal.Inc()
	}
	if len(verrs) > 0 {
		logger.Warn().
			Str("campaign_id", c.ID.String()).
			Strs("errors", verrs).
			Msg("Relationship validation failed")
	}

	return EnrichedCampaign{
		Campaign: *c,
		Link:     link,
		Msg:      msg,
		Meta: Metadata{
			RelationshipsValid: len(verrs) == 0,
			Errors:             verrs,
		},
	}, true
}
