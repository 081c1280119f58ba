package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cheersai/campaign-engine/internal/domain"
)

const contentItemSelectList = `id, campaign_id, account_id, platform, placement,
			scheduled_for, status, prompt_context, auto_generated, created_at, updated_at`

const uniqueViolation = "23505"

// ContentRepository manages content items, variants, publish jobs and
// notifications in PostgreSQL.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new repository instance.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListContentBetween returns an account's content items scheduled in
// [from, to], inclusive on both ends. All platforms and placements are
// returned; the caller decides what counts toward occupancy.
func (r *ContentRepository) ListContentBetween(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.ContentItem, error) {
	items := []domain.ContentItem{}
	query := `
		SELECT ` + contentItemSelectList + `
		FROM content_items
		WHERE account_id = $1
		  AND scheduled_for >= $2
		  AND scheduled_for <= $3
		ORDER BY scheduled_for ASC
	`

	err := r.db.SelectContext(ctx, &items, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list content between: %w", err)
	}

	return items, nil
}

// InsertContentItems bulk-inserts the staged items of one materialisation.
func (r *ContentRepository) InsertContentItems(ctx context.Context, items []domain.ContentItem) error {
	if len(items) == 0 {
		return nil
	}

	const cols = 9
	placeholders := make([]string, 0, len(items))
	args := make([]any, 0, len(items)*cols)
	for i, item := range items {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
		args = append(args,
			item.ID, item.CampaignID, item.AccountID, item.Platform, item.Placement,
			item.ScheduledFor, item.Status, jsonArg(item.PromptContext), item.AutoGenerated)
	}

	query := `
		INSERT INTO content_items (id, campaign_id, account_id, platform, placement,
			scheduled_for, status, prompt_context, auto_generated)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert content items: %w", err)
	}

	return nil
}

// UpsertContentVariant inserts or replaces the rendered variant for a
// content item and returns the variant id. Media ids are stored as NULL
// rather than an empty array when there are none.
func (r *ContentRepository) UpsertContentVariant(ctx context.Context, variant *domain.ContentVariant) (uuid.UUID, error) {
	query := `
		INSERT INTO content_variants (id, content_item_id, body, media_asset_ids)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (content_item_id) DO UPDATE
		SET body = EXCLUDED.body,
		    media_asset_ids = EXCLUDED.media_asset_ids,
		    updated_at = NOW()
		RETURNING id
	`

	var media any
	if len(variant.MediaAssetIDs) > 0 {
		media = pq.Array(variant.MediaAssetIDs)
	}

	id := variant.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var variantID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, id, variant.ContentItemID, variant.Body, media).Scan(&variantID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert content variant: %w", err)
	}

	return variantID, nil
}

// InsertPublishJobs bulk-inserts queued jobs for the downstream publish
// runner. Jobs are the sole handoff to that system.
func (r *ContentRepository) InsertPublishJobs(ctx context.Context, jobs []domain.PublishJob) error {
	if len(jobs) == 0 {
		return nil
	}

	const cols = 6
	placeholders := make([]string, 0, len(jobs))
	args := make([]any, 0, len(jobs)*cols)
	for i, job := range jobs {
		base := i * cols
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6))
		args = append(args,
			job.ID, job.ContentItemID, job.VariantID, job.Status, job.NextAttemptAt, job.Placement)
	}

	query := `
		INSERT INTO publish_jobs (id, content_item_id, variant_id, status, next_attempt_at, placement)
		VALUES ` + strings.Join(placeholders, ", ")

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert publish jobs: %w", err)
	}

	return nil
}

// InsertNotification records one materialisation summary for an account.
func (r *ContentRepository) InsertNotification(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, account_id, category, message, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`

	id := n.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	_, err := r.db.ExecContext(ctx, query, id, n.AccountID, n.Category, n.Message, jsonArg(n.Metadata))
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// Stats returns content pipeline counts for monitoring.
func (r *ContentRepository) Stats(ctx context.Context) (*domain.ContentStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'draft') AS draft,
			COUNT(*) FILTER (WHERE status = 'scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'publishing') AS publishing,
			COUNT(*) FILTER (WHERE status = 'posted') AS posted,
			COUNT(*) FILTER (WHERE status = 'failed') AS failed,
			(SELECT COUNT(*) FROM publish_jobs WHERE status = 'queued') AS queued_jobs
		FROM content_items`

	var stats domain.ContentStats
	err := r.db.QueryRowxContext(ctx, query).Scan(
		&stats.Draft,
		&stats.Scheduled,
		&stats.Publishing,
		&stats.Posted,
		&stats.Failed,
		&stats.QueuedJobs,
	)
	if err != nil {
		return nil, fmt.Errorf("get content stats: %w", err)
	}
	return &stats, nil
}

// jsonArg passes a raw JSON blob as a text parameter so Postgres coerces it
// to jsonb, or NULL when empty.
func jsonArg(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
