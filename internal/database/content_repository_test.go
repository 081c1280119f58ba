package database_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/cheersai/campaign-engine/internal/database"
	"github.com/cheersai/campaign-engine/internal/domain"
)

func TestContentRepository_ListContentBetween(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)
	ctx := context.Background()

	accountID := uuid.New()
	from := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	rows := sqlmock.NewRows([]string{
		"id", "campaign_id", "account_id", "platform", "placement",
		"scheduled_for", "status", "prompt_context", "auto_generated",
		"created_at", "updated_at",
	}).AddRow(uuid.New().String(), uuid.New().String(), accountID.String(), "facebook", "feed",
		from.AddDate(0, 0, 2), "scheduled", nil, true, from, from)

	mock.ExpectQuery("SELECT (.+) FROM content_items").
		WithArgs(accountID, from, to).
		WillReturnRows(rows)

	items, err := repo.ListContentBetween(ctx, accountID, from, to)
	if err != nil {
		t.Fatalf("ListContentBetween() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Platform != "facebook" || items[0].Placement != domain.PlacementFeed {
		t.Errorf("item = %+v", items[0])
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestContentRepository_InsertContentItems(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)
	ctx := context.Background()

	items := []domain.ContentItem{
		{
			ID:           uuid.New(),
			CampaignID:   uuid.New(),
			AccountID:    uuid.New(),
			Platform:     "facebook",
			Placement:    domain.PlacementFeed,
			ScheduledFor: time.Date(2025, 1, 3, 7, 0, 0, 0, time.UTC),
			Status:       domain.ContentStatusDraft,
		},
		{
			ID:           uuid.New(),
			CampaignID:   uuid.New(),
			AccountID:    uuid.New(),
			Platform:     "instagram",
			Placement:    domain.PlacementFeed,
			ScheduledFor: time.Date(2025, 1, 3, 7, 0, 0, 0, time.UTC),
			Status:       domain.ContentStatusDraft,
		},
	}

	testCases := []struct {
		name      string
		setupMock func()
		items     []domain.ContentItem
		wantErr   error
	}{
		{
			name: "bulk insert succeeds",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO content_items").
					WillReturnResult(sqlmock.NewResult(0, 2))
			},
			items: items,
		},
		{
			name: "unique violation maps to ErrAlreadyExists",
			setupMock: func() {
				mock.ExpectExec("INSERT INTO content_items").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			items:   items,
			wantErr: domain.ErrAlreadyExists,
		},
		{
			name:      "empty batch is a no-op",
			setupMock: func() {},
			items:     nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			err := repo.InsertContentItems(ctx, tc.items)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("InsertContentItems() error = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Errorf("InsertContentItems() error = %v", err)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestContentRepository_UpsertContentVariant(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)
	ctx := context.Background()

	variantID := uuid.New()
	variant := &domain.ContentVariant{
		ContentItemID: uuid.New(),
		Body:          "We're hosting Quiz Night this Friday at 7pm.",
	}

	mock.ExpectQuery("INSERT INTO content_variants").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(variantID.String()))

	got, err := repo.UpsertContentVariant(ctx, variant)
	if err != nil {
		t.Fatalf("UpsertContentVariant() error = %v", err)
	}
	if got != variantID {
		t.Errorf("variant id = %s, want %s", got, variantID)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestContentRepository_UpsertContentVariant_Error(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)

	mock.ExpectQuery("INSERT INTO content_variants").
		WillReturnError(sql.ErrConnDone)

	_, err := repo.UpsertContentVariant(context.Background(), &domain.ContentVariant{
		ContentItemID: uuid.New(),
		Body:          "body",
	})
	if err == nil {
		t.Fatal("expected error from failed upsert")
	}
}

func TestContentRepository_InsertPublishJobs(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)
	ctx := context.Background()

	jobs := []domain.PublishJob{{
		ID:            uuid.New(),
		ContentItemID: uuid.New(),
		VariantID:     uuid.New(),
		Status:        domain.PublishJobStatusQueued,
		NextAttemptAt: time.Date(2025, 1, 3, 7, 0, 0, 0, time.UTC),
		Placement:     domain.PlacementFeed,
	}}

	mock.ExpectExec("INSERT INTO publish_jobs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.InsertPublishJobs(ctx, jobs); err != nil {
		t.Fatalf("InsertPublishJobs() error = %v", err)
	}

	// Empty batch never touches the database.
	if err := repo.InsertPublishJobs(ctx, nil); err != nil {
		t.Errorf("InsertPublishJobs(nil) error = %v", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestContentRepository_InsertNotification(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)

	notification := &domain.Notification{
		AccountID: uuid.New(),
		Category:  domain.NotificationCategoryWeekly,
		Message:   "Created 2 weekly posts for Quiz Night (2 awaiting approval)",
		Metadata:  []byte(`{"scheduled": 0, "draft": 2}`),
	}

	mock.ExpectExec("INSERT INTO notifications").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.InsertNotification(context.Background(), notification); err != nil {
		t.Fatalf("InsertNotification() error = %v", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestContentRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewContentRepository(db)

	rows := sqlmock.NewRows([]string{
		"draft", "scheduled", "publishing", "posted", "failed", "queued_jobs",
	}).AddRow(3, 5, 1, 40, 2, 5)

	mock.ExpectQuery("SELECT").WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Draft != 3 || stats.Scheduled != 5 || stats.QueuedJobs != 5 {
		t.Errorf("stats = %+v", stats)
	}
}
