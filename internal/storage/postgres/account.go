package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"insta_syncer/internal/domain"
)

const accountColumns = `
	id, handle, external_id, display_name, biography, profile_picture_url,
	followers_count, following_count, media_count, is_business, is_verified,
	last_sync_at, active, created_at, updated_at`

type AccountStore struct {
	db *sqlx.DB
}

func NewAccountStore(db *sqlx.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Connect registers handle for tracking, reactivating it if it was
// deactivated. The bool reports whether the account row was created.
func (s *AccountStore) Connect(ctx context.Context, handle string) (*domain.Account, bool, error) {
	query := `
		INSERT INTO accounts (handle) VALUES ($1)
		ON CONFLICT (handle) DO UPDATE SET
			active = TRUE,
			updated_at = NOW()
		RETURNING ` + accountColumns + `, (xmax = 0) AS inserted`

	var row struct {
		domain.Account
		Inserted bool `db:"inserted"`
	}
	if err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row, query, handle); err != nil {
		return nil, false, err
	}
	return &row.Account, row.Inserted, nil
}

func (s *AccountStore) Deactivate(ctx context.Context, handle string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		"UPDATE accounts SET active = FALSE, updated_at = NOW() WHERE handle = $1",
		handle,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *AccountStore) GetByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	var account domain.Account
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &account,
		"SELECT "+accountColumns+" FROM accounts WHERE handle = $1", handle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ListActive returns every active account, never-synced and stalest first.
func (s *AccountStore) ListActive(ctx context.Context) ([]domain.Account, error) {
	query := "SELECT " + accountColumns + `
		FROM accounts
		WHERE active
		ORDER BY last_sync_at ASC NULLS FIRST, handle ASC`

	accounts := []domain.Account{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &accounts, query)
	return accounts, err
}

func (s *AccountStore) List(ctx context.Context) ([]domain.Account, error) {
	accounts := []domain.Account{}
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &accounts,
		"SELECT "+accountColumns+" FROM accounts ORDER BY handle ASC")
	return accounts, err
}

// UpsertProfile writes the profile fields of an account keyed by handle.
func (s *AccountStore) UpsertProfile(ctx context.Context, p *domain.Profile) (bool, error) {
	query := `
		INSERT INTO accounts (
			handle, external_id, display_name, biography, profile_picture_url,
			followers_count, following_count, media_count, is_business, is_verified
		) VALUES (
			$1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10
		)
		ON CONFLICT (handle) DO UPDATE SET
			external_id = COALESCE(EXCLUDED.external_id, accounts.external_id),
			display_name = EXCLUDED.display_name,
			biography = EXCLUDED.biography,
			profile_picture_url = EXCLUDED.profile_picture_url,
			followers_count = EXCLUDED.followers_count,
			following_count = EXCLUDED.following_count,
			media_count = EXCLUDED.media_count,
			is_business = EXCLUDED.is_business,
			is_verified = EXCLUDED.is_verified,
			updated_at = NOW()
		RETURNING (xmax = 0)`

	var created bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		p.Handle,
		p.ExternalID,
		p.DisplayName,
		p.Biography,
		p.ProfilePictureURL,
		p.FollowersCount,
		p.FollowingCount,
		p.MediaCount,
		p.IsBusiness,
		p.IsVerified,
	).Scan(&created)
	return created, err
}

// MarkSynced records a successful sync at at. last_sync_at never moves
// backwards.
func (s *AccountStore) MarkSynced(ctx context.Context, handle string, at time.Time) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		UPDATE accounts SET
			last_sync_at = GREATEST(last_sync_at, $2),
			updated_at = NOW()
		WHERE handle = $1`,
		handle, at,
	)
	return err
}
