package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"insta_syncer/internal/domain"
)

type StoryStore struct {
	db *sqlx.DB
}

func NewStoryStore(db *sqlx.DB) *StoryStore {
	return &StoryStore{db: db}
}

// Upsert writes story keyed by its external id and reports whether the row
// was created. Expired stories are left in place.
func (s *StoryStore) Upsert(ctx context.Context, story *domain.StoryItem) (bool, error) {
	query := `
		INSERT INTO story_items (
			external_id, account_handle, kind, media_url, views, replies,
			published_at, expires_at, first_seen_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		)
		ON CONFLICT (external_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			media_url = EXCLUDED.media_url,
			views = EXCLUDED.views,
			replies = EXCLUDED.replies,
			published_at = EXCLUDED.published_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`

	var created bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		story.ExternalID,
		story.AccountHandle,
		story.Kind,
		story.MediaURL,
		story.Views,
		story.Replies,
		story.PublishedAt,
		story.ExpiresAt,
		story.UpdatedAt,
	).Scan(&created)
	return created, err
}
