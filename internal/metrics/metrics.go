// Package metrics exposes Prometheus collectors for materialisation runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the engine's Prometheus collectors. Construct one per
// process with a shared registry; tests pass prometheus.NewRegistry().
type Recorder struct {
	campaignsProcessed prometheus.Counter
	campaignFailures   prometheus.Counter
	itemsCreated       *prometheus.CounterVec
	slotsSkipped       prometheus.Counter
	runDuration        prometheus.Histogram
}

// NewRecorder registers the engine collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		campaignsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "campaign_engine_campaigns_processed_total",
			Help: "Number of campaigns processed by the weekly materialiser.",
		}),
		campaignFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "campaign_engine_campaign_failures_total",
			Help: "Number of campaigns that failed during materialisation.",
		}),
		itemsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "campaign_engine_items_created_total",
			Help: "Number of content items created, labelled by status.",
		}, []string{"status"}),
		slotsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "campaign_engine_slots_skipped_total",
			Help: "Number of occurrences skipped because the day was fully booked.",
		}),
		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "campaign_engine_run_duration_seconds",
			Help:    "Duration of full batch runs.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// CampaignProcessed counts one completed campaign materialisation.
func (r *Recorder) CampaignProcessed() {
	r.campaignsProcessed.Inc()
}

// CampaignFailed counts one campaign that errored during processing.
func (r *Recorder) CampaignFailed() {
	r.campaignFailures.Inc()
}

// ItemsCreated counts created content items under a status label.
func (r *Recorder) ItemsCreated(status string, n int) {
	if n > 0 {
		r.itemsCreated.WithLabelValues(status).Add(float64(n))
	}
}

// SlotSkipped counts one occurrence lost to a fully booked day.
func (r *Recorder) SlotSkipped() {
	r.slotsSkipped.Inc()
}

// RunCompleted records the duration of one batch run.
func (r *Recorder) RunCompleted(elapsed time.Duration) {
	r.runDuration.Observe(elapsed.Seconds())
}
