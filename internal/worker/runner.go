package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cheersai/campaign-engine/internal/logger"
	"github.com/cheersai/campaign-engine/internal/metrics"
)

// Runner drives one batch pass over every eligible weekly campaign.
// Campaigns are processed sequentially: occupancy is loaded from the store
// per campaign, so running campaigns for the same account and platform in
// parallel could race on a shared posting day. Partitioning by account
// would be needed before parallelising this loop.
type Runner struct {
	store        Store
	materialiser *Materialiser
	recorder     *metrics.Recorder
	logger       logger.Logger
}

// NewRunner creates a batch runner.
func NewRunner(store Store, materialiser *Materialiser, recorder *metrics.Recorder, log logger.Logger) *Runner {
	return &Runner{
		store:        store,
		materialiser: materialiser,
		recorder:     recorder,
		logger:       log,
	}
}

// Run materialises every weekly campaign in "scheduled" status and returns
// the total number of content items created. Failure to load the campaign
// list aborts the whole run; a failure inside one campaign is logged, that
// campaign contributes 0, and the run continues.
func (r *Runner) Run(ctx context.Context, now time.Time) (int, error) {
	started := time.Now()

	campaigns, err := r.store.ListEligibleWeekly(ctx)
	if err != nil {
		return 0, fmt.Errorf("load eligible campaigns: %w", err)
	}

	total := 0
	for i := range campaigns {
		campaign := &campaigns[i]

		created, materialiseErr := r.materialiser.MaterialiseCampaign(ctx, campaign, now)
		if materialiseErr != nil {
			r.recorder.CampaignFailed()
			r.logger.Error("campaign materialisation failed",
				logger.String("campaign_id", campaign.ID.String()),
				logger.String("account_id", campaign.AccountID.String()),
				logger.Int("committed_before_failure", created),
				logger.Error(materialiseErr))
			continue
		}

		r.recorder.CampaignProcessed()
		total += created
	}

	r.recorder.RunCompleted(time.Since(started))
	r.logger.Info("weekly materialisation run complete",
		logger.Int("campaigns", len(campaigns)),
		logger.Int("created", total))

	return total, nil
}
