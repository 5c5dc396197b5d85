package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"insta_syncer/internal/domain"
)

type SnapshotStore struct {
	db *sqlx.DB
}

func NewSnapshotStore(db *sqlx.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Record stores the day's counters for an account, replacing an earlier
// snapshot of the same day.
func (s *SnapshotStore) Record(ctx context.Context, snap *domain.AccountSnapshot) error {
	query := `
		INSERT INTO account_snapshots (account_handle, snapshot_date, followers_count, following_count, media_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_handle, snapshot_date) DO UPDATE SET
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			media_count = EXCLUDED.media_count`

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		snap.Handle,
		snap.SnapshotDate,
		snap.FollowersCount,
		snap.FollowingCount,
		snap.MediaCount,
	)
	return err
}

