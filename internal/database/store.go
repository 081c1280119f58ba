package database

import "github.com/jmoiron/sqlx"

// Store bundles the campaign and content repositories behind one value
// satisfying the worker package's Store interface.
type Store struct {
	*CampaignRepository
	*ContentRepository
}

// NewStore creates a combined store over one connection pool.
func NewStore(db *sqlx.DB) *Store {
	return &Store{
		CampaignRepository: NewCampaignRepository(db),
		ContentRepository:  NewContentRepository(db),
	}
}
