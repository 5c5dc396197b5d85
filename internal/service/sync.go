package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"insta_syncer/internal/config"
	"insta_syncer/internal/domain"
	"insta_syncer/internal/normalizer"
	"insta_syncer/internal/source/instagram"
)

// Stores groups the persistence collaborators of SyncService.
type Stores struct {
	Accounts  AccountStore
	Media     MediaStore
	Stories   StoryStore
	Snapshots SnapshotStore
	SyncLog   SyncLogStore
}

type SyncService struct {
	source    Source
	accounts  AccountStore
	media     MediaStore
	stories   StoryStore
	snapshots SnapshotStore
	syncLog   SyncLogStore
	txManager TransactionManager
	recorder  *Recorder
	gate      Gate
	policy    StrategyPolicy
	logger    *slog.Logger
	config    config.SyncConfig

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSyncService(
	source Source,
	stores Stores,
	txManager TransactionManager,
	publisher Publisher,
	gate Gate,
	logger *slog.Logger,
	cfg config.SyncConfig,
) *SyncService {
	policy := DefaultStrategyPolicy()
	if cfg.FullRefreshAfter > 0 {
		policy.FullAfter = cfg.FullRefreshAfter
	}
	if cfg.PartialRefreshAfter > 0 {
		policy.PartialAfter = cfg.PartialRefreshAfter
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}

	logger = logger.With("component", "sync")

	return &SyncService{
		source:    source,
		accounts:  stores.Accounts,
		media:     stores.Media,
		stories:   stores.Stories,
		snapshots: stores.Snapshots,
		syncLog:   stores.SyncLog,
		txManager: txManager,
		recorder:  NewRecorder(stores.SyncLog, publisher, logger),
		gate:      gate,
		policy:    policy,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
		sleep:     sleepContext,
	}
}

// SyncAccount runs the pipeline for one account: each category of strategy
// is fetched, normalized, persisted and logged as its own attempt. The first
// failed category ends the pipeline.
func (s *SyncService) SyncAccount(ctx context.Context, account domain.Account, strategy domain.Strategy) domain.AccountResult {
	result := domain.AccountResult{
		Handle:     account.Handle,
		Strategy:   strategy,
		Categories: []domain.CategoryResult{},
	}
	logger := s.logger.With("account", account.Handle, "strategy", strategy)

	categories := strategy.Categories()
	if len(categories) == 0 {
		result.Error = fmt.Sprintf("unknown strategy %q", strategy)
		return result
	}

	for _, category := range categories {
		cr := s.syncCategory(ctx, account.Handle, category)
		result.Categories = append(result.Categories, cr)

		if cr.Status != domain.StatusCompleted {
			result.Error = cr.Error
			logger.Warn("account sync failed",
				"category", category,
				"error", cr.Error,
			)
			return result
		}
	}

	result.Success = true
	logger.Debug("account synced", "categories", len(result.Categories))
	return result
}

func (s *SyncService) syncCategory(ctx context.Context, handle string, category domain.Category) domain.CategoryResult {
	cr := domain.CategoryResult{Category: category, Status: domain.StatusFailed}

	attempt, err := s.recorder.Begin(ctx, handle, category)
	if err != nil {
		cr.Error = err.Error()
		return cr
	}
	cr.AttemptID = attempt.ID

	var outcome domain.Outcome
	switch category {
	case domain.CategoryProfile:
		outcome = s.syncProfile(ctx, handle)
	case domain.CategoryMedia:
		outcome = s.syncMedia(ctx, handle)
	case domain.CategoryStories:
		outcome = s.syncStories(ctx, handle)
	default:
		outcome = domain.Outcome{Status: domain.StatusFailed, Error: fmt.Sprintf("unsupported category %q", category)}
	}

	if err := s.recorder.Finish(ctx, attempt, outcome); err != nil {
		s.logger.Error("failed to finish sync attempt",
			"attempt_id", attempt.ID,
			"account", handle,
			"error", err,
		)
	}

	cr.Status = outcome.Status
	cr.Processed = outcome.RecordsProcessed
	cr.Created = outcome.RecordsCreated
	cr.Updated = outcome.RecordsUpdated
	cr.Failed = outcome.RecordsFailed
	cr.APICalls = outcome.APICalls
	cr.Error = outcome.Error
	return cr
}

// syncProfile writes the profile, the day's snapshot and the sync timestamp
// in one transaction.
func (s *SyncService) syncProfile(ctx context.Context, handle string) domain.Outcome {
	out := domain.Outcome{APICalls: 1}

	raw, err := s.source.FetchProfile(ctx, handle)
	if err != nil {
		return failed(out, err)
	}

	profile, err := normalizer.Profile(raw)
	if err != nil {
		return failed(out, err)
	}
	// The tracked handle is the natural key even if the API reports another casing.
	profile.Handle = handle
	out.RecordsProcessed = 1

	now := s.now().UTC()
	var created bool
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.accounts.UpsertProfile(txCtx, &profile)
		if err != nil {
			return &domain.PersistenceError{Op: "upsert profile", Key: handle, Err: err}
		}

		snap := &domain.AccountSnapshot{
			Handle:         handle,
			SnapshotDate:   now.Truncate(24 * time.Hour),
			FollowersCount: profile.FollowersCount,
			FollowingCount: profile.FollowingCount,
			MediaCount:     profile.MediaCount,
		}
		if err := s.snapshots.Record(txCtx, snap); err != nil {
			return &domain.PersistenceError{Op: "record snapshot", Key: handle, Err: err}
		}

		if err := s.accounts.MarkSynced(txCtx, handle, now); err != nil {
			return &domain.PersistenceError{Op: "mark synced", Key: handle, Err: err}
		}
		return nil
	})
	if err != nil {
		out.RecordsFailed = 1
		return failed(out, err)
	}

	if created {
		out.RecordsCreated = 1
	} else {
		out.RecordsUpdated = 1
	}
	out.Status = domain.StatusCompleted
	return out
}

func (s *SyncService) syncMedia(ctx context.Context, handle string) domain.Outcome {
	out := domain.Outcome{APICalls: 1}

	raws, err := s.source.FetchMedia(ctx, handle)
	if err != nil {
		return failed(out, err)
	}

	now := s.now().UTC()
	return upsertAll(s.logger, out, raws, "media",
		func(raw *instagram.MediaPayload) (*domain.MediaItem, error) {
			item, err := normalizer.Media(handle, *raw, now)
			return &item, err
		},
		func(item *domain.MediaItem) (bool, error) {
			return s.media.Upsert(ctx, item)
		},
		func(item *domain.MediaItem) string { return item.ExternalID },
	)
}

func (s *SyncService) syncStories(ctx context.Context, handle string) domain.Outcome {
	out := domain.Outcome{APICalls: 1}

	raws, err := s.source.FetchStories(ctx, handle)
	if err != nil {
		return failed(out, err)
	}

	now := s.now().UTC()
	return upsertAll(s.logger, out, raws, "story",
		func(raw *instagram.StoryPayload) (*domain.StoryItem, error) {
			story, err := normalizer.Story(handle, *raw, now)
			return &story, err
		},
		func(story *domain.StoryItem) (bool, error) {
			return s.stories.Upsert(ctx, story)
		},
		func(story *domain.StoryItem) string { return story.ExternalID },
	)
}

// upsertAll normalizes and writes every raw record. A record that fails is
// counted and skipped; the attempt fails only when every record failed.
func upsertAll[R, T any](
	logger *slog.Logger,
	out domain.Outcome,
	raws []R,
	kind string,
	normalize func(*R) (*T, error),
	upsert func(*T) (bool, error),
	key func(*T) string,
) domain.Outcome {
	var firstErr error

	for i := range raws {
		out.RecordsProcessed++

		record, err := normalize(&raws[i])
		if err != nil {
			out.RecordsFailed++
			if firstErr == nil {
				firstErr = err
			}
			logger.Warn("skipping malformed record", "kind", kind, "index", i, "error", err)
			continue
		}

		created, err := upsert(record)
		if err != nil {
			perr := &domain.PersistenceError{Op: "upsert " + kind, Key: key(record), Err: err}
			out.RecordsFailed++
			if firstErr == nil {
				firstErr = perr
			}
			logger.Warn("failed to persist record", "kind", kind, "error", perr)
			continue
		}

		if created {
			out.RecordsCreated++
		} else {
			out.RecordsUpdated++
		}
	}

	if firstErr == nil {
		out.Status = domain.StatusCompleted
		return out
	}

	msg := fmt.Sprintf("%d of %d records failed: %v", out.RecordsFailed, out.RecordsProcessed, firstErr)
	if out.RecordsFailed == out.RecordsProcessed {
		out.Status = domain.StatusFailed
	} else {
		out.Status = domain.StatusCompleted
	}
	out.Error = msg
	return out
}

func failed(out domain.Outcome, err error) domain.Outcome {
	out.Status = domain.StatusFailed
	out.Error = err.Error()
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
