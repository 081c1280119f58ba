package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cheersai/campaign-engine/internal/domain"
)

const campaignSelectList = `id, account_id, name, campaign_type, status, auto_confirm, metadata, created_at, updated_at`

// CampaignRepository reads campaigns. The engine never writes to the
// campaigns table.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new repository instance.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// ListEligibleWeekly returns all weekly campaigns in "scheduled" status,
// the set one batch run processes. Order is by creation time for
// deterministic processing, though the run makes no ordering promise.
func (r *CampaignRepository) ListEligibleWeekly(ctx context.Context) ([]domain.Campaign, error) {
	campaigns := []domain.Campaign{}
	query := `
		SELECT ` + campaignSelectList + `
		FROM campaigns
		WHERE campaign_type = $1 AND status = $2
		ORDER BY created_at ASC
	`

	err := r.db.SelectContext(ctx, &campaigns, query,
		domain.CampaignTypeWeekly, domain.CampaignStatusScheduled)
	if err != nil {
		return nil, fmt.Errorf("list eligible weekly campaigns: %w", err)
	}

	return campaigns, nil
}

// Ping verifies database connectivity for health checks.
func (r *CampaignRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
