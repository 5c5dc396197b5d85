package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"insta_syncer/internal/domain"
)

type MediaStore struct {
	db *sqlx.DB
}

func NewMediaStore(db *sqlx.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Upsert writes item keyed by its external id. Counters, text and timestamps
// are overwritten; first_seen_at keeps its original value. The bool reports
// whether the row was created.
func (s *MediaStore) Upsert(ctx context.Context, item *domain.MediaItem) (bool, error) {
	query := `
		INSERT INTO media_items (
			external_id, account_handle, kind, media_url, permalink, caption,
			published_at, likes, comments, shares, views, saves,
			engagement_rate, hashtags, mentions, first_seen_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16
		)
		ON CONFLICT (external_id) DO UPDATE SET
			kind = EXCLUDED.kind,
			media_url = EXCLUDED.media_url,
			permalink = EXCLUDED.permalink,
			caption = EXCLUDED.caption,
			published_at = EXCLUDED.published_at,
			likes = EXCLUDED.likes,
			comments = EXCLUDED.comments,
			shares = EXCLUDED.shares,
			views = EXCLUDED.views,
			saves = EXCLUDED.saves,
			engagement_rate = EXCLUDED.engagement_rate,
			hashtags = EXCLUDED.hashtags,
			mentions = EXCLUDED.mentions,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`

	var created bool
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx, query,
		item.ExternalID,
		item.AccountHandle,
		item.Kind,
		item.MediaURL,
		item.Permalink,
		item.Caption,
		item.PublishedAt,
		item.Likes,
		item.Comments,
		item.Shares,
		item.Views,
		item.Saves,
		item.EngagementRate,
		pq.Array(nonNil(item.Hashtags)),
		pq.Array(nonNil(item.Mentions)),
		item.UpdatedAt,
	).Scan(&created)
	return created, err
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
