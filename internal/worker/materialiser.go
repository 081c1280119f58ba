// Package worker implements the weekly recurring-campaign materialisation
// engine: it turns abstract cadence rules into persisted content items,
// variants, publish jobs and a summary notification.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cheersai/campaign-engine/internal/cadence"
	"github.com/cheersai/campaign-engine/internal/copygen"
	"github.com/cheersai/campaign-engine/internal/domain"
	"github.com/cheersai/campaign-engine/internal/logger"
	"github.com/cheersai/campaign-engine/internal/metrics"
	"github.com/cheersai/campaign-engine/internal/notify"
	"github.com/cheersai/campaign-engine/internal/slot"
)

// Store is the content-store surface the engine depends on. The database
// package provides the PostgreSQL implementation; tests substitute an
// in-memory fake.
type Store interface {
	ListEligibleWeekly(ctx context.Context) ([]domain.Campaign, error)
	ListContentBetween(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]domain.ContentItem, error)
	InsertContentItems(ctx context.Context, items []domain.ContentItem) error
	UpsertContentVariant(ctx context.Context, variant *domain.ContentVariant) (uuid.UUID, error)
	InsertPublishJobs(ctx context.Context, jobs []domain.PublishJob) error
	InsertNotification(ctx context.Context, n *domain.Notification) error
}

// Notifier fans out a summary event after a campaign materialises. Emission
// is best-effort; the notifications row is the durable record.
type Notifier interface {
	PublishSummary(ctx context.Context, event notify.SummaryEvent) error
}

const defaultWeeksAhead = 4

// Materialiser turns one weekly campaign into concrete content for the
// future window. Safe to re-run: occupancy seeding from existing feed
// content blocks already-materialised slots before generation begins.
type Materialiser struct {
	store      Store
	notifier   Notifier // optional
	recorder   *metrics.Recorder
	logger     logger.Logger
	tracer     trace.Tracer
	weeksAhead int
}

// NewMaterialiser creates a materialiser. weeksAhead is the horizon used
// when a campaign does not set its own.
func NewMaterialiser(store Store, notifier Notifier, recorder *metrics.Recorder, weeksAhead int, log logger.Logger) *Materialiser {
	if weeksAhead <= 0 {
		weeksAhead = defaultWeeksAhead
	}
	return &Materialiser{
		store:      store,
		notifier:   notifier,
		recorder:   recorder,
		logger:     log,
		tracer:     otel.Tracer("weekly-materialiser"),
		weeksAhead: weeksAhead,
	}
}

type stagedItem struct {
	item domain.ContentItem
	body string
}

// MaterialiseCampaign generates, deconflicts and persists all missing
// occurrences for one campaign up to its horizon. It returns the number of
// content items created; on error the count reflects items already
// committed before the failure (no transaction wraps the run).
func (m *Materialiser) MaterialiseCampaign(ctx context.Context, campaign *domain.Campaign, now time.Time) (int, error) {
	ctx, span := m.tracer.Start(ctx, "campaign.materialise",
		trace.WithAttributes(
			attribute.String("campaign_id", campaign.ID.String()),
			attribute.String("account_id", campaign.AccountID.String()),
		))
	defer span.End()

	now = now.UTC()

	cfg, err := domain.ParseWeeklyConfig(campaign.Metadata, now, m.weeksAhead)
	if err != nil {
		return 0, fmt.Errorf("parse metadata for campaign %s: %w", campaign.ID, err)
	}
	if cfg.DroppedCadence > 0 {
		m.logger.Debug("dropped malformed cadence entries",
			logger.String("campaign_id", campaign.ID.String()),
			logger.Int("dropped", cfg.DroppedCadence))
	}

	horizon := cadence.Horizon(now, cfg.WeeksAhead, cfg.DisplayEnd)

	existing, err := m.store.ListContentBetween(ctx, campaign.AccountID, now, horizon)
	if err != nil {
		return 0, fmt.Errorf("load existing content: %w", err)
	}

	// Occupancy is global per account/platform/day, not scoped to this
	// campaign: sibling campaigns sharing a posting day deconflict here.
	// Stories live outside the slot economy.
	arena := slot.NewOccupancy()
	for i := range existing {
		if existing[i].Placement == domain.PlacementFeed {
			arena.Seed(existing[i].Platform, existing[i].ScheduledFor)
		}
	}

	staged := m.stageOccurrences(campaign, cfg, arena, now, horizon)
	if len(staged) == 0 {
		return 0, nil
	}

	items := make([]domain.ContentItem, len(staged))
	for i := range staged {
		items[i] = staged[i].item
	}
	if err := m.store.InsertContentItems(ctx, items); err != nil {
		return 0, fmt.Errorf("insert content items: %w", err)
	}

	variantIDs := m.upsertVariants(ctx, staged, cfg.HeroMediaIDs)

	created := len(staged)
	if campaign.AutoConfirm {
		if err := m.enqueuePublishJobs(ctx, staged, variantIDs); err != nil {
			return created, err
		}
	}

	scheduled, draft := 0, created
	if campaign.AutoConfirm {
		scheduled, draft = created, 0
	}

	if err := m.emitNotification(ctx, campaign, items, scheduled, draft, now); err != nil {
		return created, err
	}

	m.recorder.ItemsCreated(string(items[0].Status), created)
	m.logger.Info("campaign materialised",
		logger.String("campaign_id", campaign.ID.String()),
		logger.Int("created", created),
		logger.Bool("auto_confirm", campaign.AutoConfirm))

	return created, nil
}

// stageOccurrences walks every cadence rule chronologically, reserving a
// slot per occurrence and rendering its copy with the reserved (possibly
// shifted) time. A fully booked day skips that occurrence only; later
// weeks are still tried.
func (m *Materialiser) stageOccurrences(campaign *domain.Campaign, cfg *domain.WeeklyConfig, arena *slot.Occupancy, now, horizon time.Time) []stagedItem {
	status := domain.ContentStatusDraft
	if campaign.AutoConfirm {
		status = domain.ContentStatusScheduled
	}

	var staged []stagedItem
	for _, rule := range cfg.Cadence {
		first := cadence.FirstOccurrence(cfg.StartDate, rule.Weekday, rule.Hour, rule.Minute, now)
		for occ := first; !occ.After(horizon); occ = cadence.Next(occ) {
			reserved, reserveErr := arena.Reserve(rule.Platform, occ)
			if reserveErr != nil {
				if errors.Is(reserveErr, domain.ErrDayFull) {
					m.logger.Warn("day fully booked, skipping occurrence",
						logger.String("campaign_id", campaign.ID.String()),
						logger.String("platform", rule.Platform),
						logger.Time("occurrence", occ))
					m.recorder.SlotSkipped()
				}
				continue
			}

			body := copygen.BuildWeeklyCopy(campaign.Name, cfg.Description, reserved,
				rule.Platform, cfg.Options, cfg.Link)

			staged = append(staged, stagedItem{
				item: domain.ContentItem{
					ID:            uuid.New(),
					CampaignID:    campaign.ID,
					AccountID:     campaign.AccountID,
					Platform:      rule.Platform,
					Placement:     domain.PlacementFeed,
					ScheduledFor:  reserved,
					Status:        status,
					PromptContext: promptContext(rule, occ, reserved, cfg),
					AutoGenerated: true,
				},
				body: body,
			})
		}
	}
	return staged
}

// upsertVariants creates the rendered variant for every staged item. A
// failed upsert is logged and skipped; the item's publish job is dropped
// later because its variant id is missing.
func (m *Materialiser) upsertVariants(ctx context.Context, staged []stagedItem, mediaIDs []string) map[uuid.UUID]uuid.UUID {
	variantIDs := make(map[uuid.UUID]uuid.UUID, len(staged))
	for i := range staged {
		variant := &domain.ContentVariant{
			ContentItemID: staged[i].item.ID,
			Body:          staged[i].body,
			MediaAssetIDs: mediaIDs,
		}
		id, err := m.store.UpsertContentVariant(ctx, variant)
		if err != nil {
			m.logger.Error("failed to upsert content variant",
				logger.String("content_item_id", staged[i].item.ID.String()),
				logger.Error(err))
			continue
		}
		variantIDs[staged[i].item.ID] = id
	}
	return variantIDs
}

func (m *Materialiser) enqueuePublishJobs(ctx context.Context, staged []stagedItem, variantIDs map[uuid.UUID]uuid.UUID) error {
	jobs := make([]domain.PublishJob, 0, len(staged))
	for i := range staged {
		item := staged[i].item
		variantID, ok := variantIDs[item.ID]
		if !ok {
			m.logger.Error("variant id missing for scheduled item, publish job omitted",
				logger.String("content_item_id", item.ID.String()))
			continue
		}
		jobs = append(jobs, domain.PublishJob{
			ID:            uuid.New(),
			ContentItemID: item.ID,
			VariantID:     variantID,
			Status:        domain.PublishJobStatusQueued,
			NextAttemptAt: item.ScheduledFor,
			Placement:     item.Placement,
		})
	}

	if len(jobs) == 0 {
		return nil
	}
	if err := m.store.InsertPublishJobs(ctx, jobs); err != nil {
		return fmt.Errorf("insert publish jobs: %w", err)
	}
	return nil
}

func (m *Materialiser) emitNotification(ctx context.Context, campaign *domain.Campaign, items []domain.ContentItem, scheduled, draft int, now time.Time) error {
	contentIDs := make([]string, len(items))
	for i := range items {
		contentIDs[i] = items[i].ID.String()
	}

	message := summaryMessage(campaign.Name, scheduled, draft)
	metadata, err := json.Marshal(map[string]any{
		"campaign_id": campaign.ID.String(),
		"content_ids": contentIDs,
		"scheduled":   scheduled,
		"draft":       draft,
	})
	if err != nil {
		return fmt.Errorf("marshal notification metadata: %w", err)
	}

	notification := &domain.Notification{
		ID:        uuid.New(),
		AccountID: campaign.AccountID,
		Category:  domain.NotificationCategoryWeekly,
		Message:   message,
		Metadata:  metadata,
	}
	if err := m.store.InsertNotification(ctx, notification); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	if m.notifier != nil {
		event := notify.SummaryEvent{
			AccountID:  campaign.AccountID.String(),
			CampaignID: campaign.ID.String(),
			Created:    scheduled + draft,
			Scheduled:  scheduled,
			Draft:      draft,
			Message:    message,
			OccurredAt: now,
		}
		if err := m.notifier.PublishSummary(ctx, event); err != nil {
			m.logger.Warn("failed to publish summary event", logger.Error(err))
		}
	}

	return nil
}

// summaryMessage lists only the non-zero clauses, e.g.
// "Created 5 weekly posts for Quiz Night (4 scheduled, 1 awaiting approval)".
func summaryMessage(name string, scheduled, draft int) string {
	total := scheduled + draft
	noun := "posts"
	if total == 1 {
		noun = "post"
	}

	var parts []string
	if scheduled > 0 {
		parts = append(parts, fmt.Sprintf("%d scheduled", scheduled))
	}
	if draft > 0 {
		parts = append(parts, fmt.Sprintf("%d awaiting approval", draft))
	}

	return fmt.Sprintf("Created %d weekly %s for %s (%s)", total, noun, name, strings.Join(parts, ", "))
}

// promptContext records how an item was generated, for audit and for any
// later AI re-generation to build on.
func promptContext(rule domain.CadenceRule, requested, reserved time.Time, cfg *domain.WeeklyConfig) json.RawMessage {
	context := map[string]any{
		"source":       "weekly_materialiser",
		"platform":     rule.Platform,
		"weekday":      rule.Weekday,
		"requested_at": requested.Format(time.RFC3339),
		"reserved_at":  reserved.Format(time.RFC3339),
		"tone":         cfg.Options.ToneAdjust,
		"length":       cfg.Options.LengthPreference,
		"cta_style":    cfg.Options.CTAStyle,
	}
	if len(cfg.ProofPoints) > 0 {
		context["proof_points"] = json.RawMessage(cfg.ProofPoints)
	}

	raw, err := json.Marshal(context)
	if err != nil {
		return nil
	}
	return raw
}
