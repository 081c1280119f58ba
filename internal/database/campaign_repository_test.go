package database_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cheersai/campaign-engine/internal/database"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCampaignRepository_ListEligibleWeekly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewCampaignRepository(db)
	ctx := context.Background()

	campaignID := uuid.New()
	accountID := uuid.New()
	now := time.Now()

	testCases := []struct {
		name      string
		setupMock func()
		wantCount int
		wantErr   bool
	}{
		{
			name: "returns scheduled weekly campaigns",
			setupMock: func() {
				rows := sqlmock.NewRows([]string{
					"id", "account_id", "name", "campaign_type", "status",
					"auto_confirm", "metadata", "created_at", "updated_at",
				}).AddRow(campaignID.String(), accountID.String(), "Quiz Night", "weekly", "scheduled",
					false, []byte(`{"day_of_week": 5}`), now, now)

				mock.ExpectQuery("SELECT (.+) FROM campaigns").
					WithArgs("weekly", "scheduled").
					WillReturnRows(rows)
			},
			wantCount: 1,
			wantErr:   false,
		},
		{
			name: "empty result is not an error",
			setupMock: func() {
				rows := sqlmock.NewRows([]string{
					"id", "account_id", "name", "campaign_type", "status",
					"auto_confirm", "metadata", "created_at", "updated_at",
				})
				mock.ExpectQuery("SELECT (.+) FROM campaigns").
					WithArgs("weekly", "scheduled").
					WillReturnRows(rows)
			},
			wantCount: 0,
			wantErr:   false,
		},
		{
			name: "database error propagates",
			setupMock: func() {
				mock.ExpectQuery("SELECT (.+) FROM campaigns").
					WithArgs("weekly", "scheduled").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.setupMock()

			campaigns, err := repo.ListEligibleWeekly(ctx)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ListEligibleWeekly() error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && len(campaigns) != tc.wantCount {
				t.Errorf("campaigns = %d, want %d", len(campaigns), tc.wantCount)
			}

			if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
				t.Errorf("unfulfilled expectations: %v", expectErr)
			}
		})
	}
}

func TestCampaignRepository_Ping(t *testing.T) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer raw.Close()

	repo := database.NewCampaignRepository(sqlx.NewDb(raw, "sqlmock"))

	mock.ExpectPing()
	if pingErr := repo.Ping(context.Background()); pingErr != nil {
		t.Errorf("Ping() error = %v", pingErr)
	}
	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
