// Package domain contains the core domain models for the campaign engine.
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CampaignStatus represents the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
)

// CampaignTypeWeekly identifies recurring weekly campaigns, the only type
// the materialisation engine processes.
const CampaignTypeWeekly = "weekly"

// Campaign is a recurring content rule owned by an account. The engine
// reads campaigns and never mutates them; all configuration beyond the
// fixed columns lives in the Metadata blob and is decoded once into a
// WeeklyConfig at the processing boundary.
type Campaign struct {
	ID           uuid.UUID       `db:"id"            json:"id"`
	AccountID    uuid.UUID       `db:"account_id"    json:"account_id"`
	Name         string          `db:"name"          json:"name"`
	CampaignType string          `db:"campaign_type" json:"campaign_type"`
	Status       CampaignStatus  `db:"status"        json:"status"`
	AutoConfirm  bool            `db:"auto_confirm"  json:"auto_confirm"`
	Metadata     json.RawMessage `db:"metadata"      json:"metadata"`
	CreatedAt    time.Time       `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"    json:"updated_at"`
}
