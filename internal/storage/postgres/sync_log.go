package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"insta_syncer/internal/domain"
)

const attemptColumns = `
	id, account_handle, category, status, records_processed, records_created,
	records_updated, records_failed, api_calls, error_message, started_at, completed_at`

type SyncLogStore struct {
	db *sqlx.DB
}

func NewSyncLogStore(db *sqlx.DB) *SyncLogStore {
	return &SyncLogStore{db: db}
}

func (s *SyncLogStore) Create(ctx context.Context, attempt *domain.SyncAttempt) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO sync_attempts (id, account_handle, category, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`,
		attempt.ID,
		attempt.AccountHandle,
		attempt.Category,
		attempt.Status,
		attempt.StartedAt,
	)
	return err
}

// Finish moves a running attempt to its terminal state. An attempt that is
// already terminal is left untouched and domain.ErrAttemptFinished returned.
func (s *SyncLogStore) Finish(ctx context.Context, id string, outcome domain.Outcome, completedAt time.Time) error {
	var errMsg *string
	if outcome.Error != "" {
		errMsg = &outcome.Error
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE sync_attempts SET
			status = $2,
			records_processed = $3,
			records_created = $4,
			records_updated = $5,
			records_failed = $6,
			api_calls = $7,
			error_message = $8,
			completed_at = $9
		WHERE id = $1 AND status = 'running'`,
		id,
		outcome.Status,
		outcome.RecordsProcessed,
		outcome.RecordsCreated,
		outcome.RecordsUpdated,
		outcome.RecordsFailed,
		outcome.APICalls,
		errMsg,
		completedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAttemptFinished
	}
	return nil
}

// Recent returns the newest limit attempts, newest first.
func (s *SyncLogStore) Recent(ctx context.Context, limit int) ([]domain.SyncAttempt, error) {
	attempts := []domain.SyncAttempt{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &attempts,
		"SELECT "+attemptColumns+" FROM sync_attempts ORDER BY started_at DESC, id LIMIT $1", limit)
	return attempts, err
}

// Orphaned returns attempts still running that started before cutoff.
func (s *SyncLogStore) Orphaned(ctx context.Context, cutoff time.Time) ([]domain.SyncAttempt, error) {
	attempts := []domain.SyncAttempt{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &attempts,
		"SELECT "+attemptColumns+" FROM sync_attempts WHERE status = 'running' AND started_at < $1 ORDER BY started_at ASC", cutoff)
	return attempts, err
}
