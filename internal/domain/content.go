package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the state of a content item.
type ContentStatus string

const (
	ContentStatusDraft      ContentStatus = "draft"
	ContentStatusScheduled  ContentStatus = "scheduled"
	ContentStatusPublishing ContentStatus = "publishing"
	ContentStatusPosted     ContentStatus = "posted"
	ContentStatusFailed     ContentStatus = "failed"
)

// Placement distinguishes feed posts from stories. Only feed placements
// count toward same-day slot occupancy; stories are a separate channel.
type Placement string

const (
	PlacementFeed  Placement = "feed"
	PlacementStory Placement = "story"
)

// ContentItem is a single scheduled post instance produced by materialising
// a campaign occurrence. Exactly one item exists per (campaign, platform,
// occurrence); the occupancy-seeding dedupe enforces this, not a database
// constraint.
type ContentItem struct {
	ID            uuid.UUID       `db:"id"             json:"id"`
	CampaignID    uuid.UUID       `db:"campaign_id"    json:"campaign_id"`
	AccountID     uuid.UUID       `db:"account_id"     json:"account_id"`
	Platform      string          `db:"platform"       json:"platform"`
	Placement     Placement       `db:"placement"      json:"placement"`
	ScheduledFor  time.Time       `db:"scheduled_for"  json:"scheduled_for"`
	Status        ContentStatus   `db:"status"         json:"status"`
	PromptContext json.RawMessage `db:"prompt_context" json:"prompt_context,omitempty"`
	AutoGenerated bool            `db:"auto_generated" json:"auto_generated"`
	CreatedAt     time.Time       `db:"created_at"     json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"     json:"updated_at"`
}

// ContentVariant holds the rendered text and media for a content item (1:1).
type ContentVariant struct {
	ID            uuid.UUID `db:"id"              json:"id"`
	ContentItemID uuid.UUID `db:"content_item_id" json:"content_item_id"`
	Body          string    `db:"body"            json:"body"`
	MediaAssetIDs []string  `db:"media_asset_ids" json:"media_asset_ids,omitempty"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"      json:"updated_at"`
}

// PublishJobStatusQueued is the only status this engine writes; the
// downstream publish runner owns the rest of the job lifecycle.
const PublishJobStatusQueued = "queued"

// PublishJob is a unit of work handed off to the external publish runner.
// Jobs are created only for auto-confirmed (status "scheduled") items.
type PublishJob struct {
	ID            uuid.UUID `db:"id"              json:"id"`
	ContentItemID uuid.UUID `db:"content_item_id" json:"content_item_id"`
	VariantID     uuid.UUID `db:"variant_id"      json:"variant_id"`
	Status        string    `db:"status"          json:"status"`
	NextAttemptAt time.Time `db:"next_attempt_at" json:"next_attempt_at"`
	Placement     Placement `db:"placement"       json:"placement"`
	CreatedAt     time.Time `db:"created_at"      json:"created_at"`
}

// NotificationCategoryWeekly is the category for materialisation summaries.
const NotificationCategoryWeekly = "weekly_materialised"

// Notification is a summary record surfaced to the venue owner. One per
// campaign per run, only when at least one item was created.
type Notification struct {
	ID        uuid.UUID       `db:"id"         json:"id"`
	AccountID uuid.UUID       `db:"account_id" json:"account_id"`
	Category  string          `db:"category"   json:"category"`
	Message   string          `db:"message"    json:"message"`
	Metadata  json.RawMessage `db:"metadata"   json:"metadata,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// ContentStats holds content pipeline counts for monitoring.
type ContentStats struct {
	Draft      int64 `json:"draft"`
	Scheduled  int64 `json:"scheduled"`
	Publishing int64 `json:"publishing"`
	Posted     int64 `json:"posted"`
	Failed     int64 `json:"failed"`
	QueuedJobs int64 `json:"queued_jobs"`
}
