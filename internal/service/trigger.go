package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/metrics"
)

const (
	DefaultAttemptLimit = 50
	MaxAttemptLimit     = 500

	// DefaultOrphanAge is how long an attempt may stay running before it is
	// reported as orphaned.
	DefaultOrphanAge = time.Hour
)

var handlePattern = regexp.MustCompile(`^[A-Za-z0-9._]{1,30}$`)

// Trigger runs one batch over every active account. Outside a sync window,
// and without req.Force, it returns a skipped summary and
// domain.ErrScheduleSkip without touching any account.
func (s *SyncService) Trigger(ctx context.Context, req domain.TriggerRequest) (*domain.RunSummary, error) {
	forced, err := StrategyForSyncType(req.SyncType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, req.SyncType)
	}

	now := s.now()
	if s.gate != nil && !s.gate.Authorized(now, req.Force) {
		s.logger.Info("sync skipped outside window", "at", now.UTC())
		metrics.SyncRuns.WithLabelValues("skipped").Inc()
		return &domain.RunSummary{
			Skipped:   true,
			Results:   []domain.AccountResult{},
			StartedAt: now.UTC(),
		}, domain.ErrScheduleSkip
	}

	accounts, err := s.accounts.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list due accounts: %w", err)
	}

	return s.RunBatch(ctx, accounts, forced), nil
}

// TriggerAccount runs a manual action against one tracked account. It
// bypasses the sync window.
func (s *SyncService) TriggerAccount(ctx context.Context, action, handle string) (*domain.AccountResult, error) {
	strategy, err := StrategyForAction(action)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, action)
	}

	account, err := s.accounts.GetByHandle(ctx, normalizeHandle(handle))
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, fmt.Errorf("%w: %s is deactivated", domain.ErrAccountNotFound, account.Handle)
	}

	result := s.SyncAccount(ctx, *account, strategy)
	return &result, nil
}

// ConnectAccount starts tracking handle. Connecting a deactivated account
// reactivates it.
func (s *SyncService) ConnectAccount(ctx context.Context, handle string) (*domain.Account, bool, error) {
	handle = normalizeHandle(handle)
	if !handlePattern.MatchString(handle) {
		return nil, false, fmt.Errorf("%w: %q", domain.ErrInvalidHandle, handle)
	}

	account, created, err := s.accounts.Connect(ctx, handle)
	if err != nil {
		return nil, false, &domain.PersistenceError{Op: "connect account", Key: handle, Err: err}
	}

	s.logger.Info("account connected", "account", handle, "created", created)
	return account, created, nil
}

// DeactivateAccount stops tracking handle. Its history is kept.
func (s *SyncService) DeactivateAccount(ctx context.Context, handle string) error {
	handle = normalizeHandle(handle)
	if err := s.accounts.Deactivate(ctx, handle); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return err
		}
		return &domain.PersistenceError{Op: "deactivate account", Key: handle, Err: err}
	}

	s.logger.Info("account deactivated", "account", handle)
	return nil
}

func (s *SyncService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	return s.accounts.List(ctx)
}

// RecentAttempts returns the newest attempts first. limit is clamped to
// [1, MaxAttemptLimit]; zero or less selects DefaultAttemptLimit.
func (s *SyncService) RecentAttempts(ctx context.Context, limit int) ([]domain.SyncAttempt, error) {
	switch {
	case limit <= 0:
		limit = DefaultAttemptLimit
	case limit > MaxAttemptLimit:
		limit = MaxAttemptLimit
	}
	return s.syncLog.Recent(ctx, limit)
}

// OrphanedAttempts returns attempts still running after olderThan. They are
// reported, never rewritten.
func (s *SyncService) OrphanedAttempts(ctx context.Context, olderThan time.Duration) ([]domain.SyncAttempt, error) {
	if olderThan <= 0 {
		olderThan = DefaultOrphanAge
	}

	attempts, err := s.syncLog.Orphaned(ctx, s.now().UTC().Add(-olderThan))
	if err != nil {
		return nil, err
	}

	metrics.OrphanedAttempts.Set(float64(len(attempts)))
	if len(attempts) > 0 {
		s.logger.Warn("found orphaned sync attempts", "count", len(attempts), "older_than", olderThan)
	}
	return attempts, nil
}

func normalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
