package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/source/instagram"
)

type AccountStore interface {
	Connect(ctx context.Context, handle string) (*domain.Account, bool, error)
	Deactivate(ctx context.Context, handle string) error
	GetByHandle(ctx context.Context, handle string) (*domain.Account, error)
	ListActive(ctx context.Context) ([]domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	UpsertProfile(ctx context.Context, p *domain.Profile) (bool, error)
	MarkSynced(ctx context.Context, handle string, at time.Time) error
}

type MediaStore interface {
	Upsert(ctx context.Context, item *domain.MediaItem) (bool, error)
}

type StoryStore interface {
	Upsert(ctx context.Context, story *domain.StoryItem) (bool, error)
}

type SnapshotStore interface {
	Record(ctx context.Context, snap *domain.AccountSnapshot) error
}

type SyncLogStore interface {
	Create(ctx context.Context, attempt *domain.SyncAttempt) error
	Finish(ctx context.Context, id string, outcome domain.Outcome, completedAt time.Time) error
	Recent(ctx context.Context, limit int) ([]domain.SyncAttempt, error)
	Orphaned(ctx context.Context, cutoff time.Time) ([]domain.SyncAttempt, error)
}

type Source interface {
	FetchProfile(ctx context.Context, handle string) (*instagram.ProfilePayload, error)
	FetchMedia(ctx context.Context, handle string) ([]instagram.MediaPayload, error)
	FetchStories(ctx context.Context, handle string) ([]instagram.StoryPayload, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, attempt *domain.SyncAttempt) error
	Close() error
}

type Gate interface {
	Authorized(now time.Time, force bool) bool
}
