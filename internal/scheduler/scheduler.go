package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"insta_syncer/internal/domain"
)

// Triggerer runs one sync cycle.
type Triggerer interface {
	Trigger(ctx context.Context, req domain.TriggerRequest) (*domain.RunSummary, error)
}

// Windows locates the sync window containing an instant.
type Windows interface {
	Window(now time.Time) (string, bool)
}

// Scheduler polls the clock and triggers one cycle per sync window.
type Scheduler struct {
	trigger  Triggerer
	windows  Windows
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	lastWindow string
}

func NewScheduler(trigger Triggerer, windows Windows, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		trigger:  trigger,
		windows:  windows,
		interval: interval,
		logger:   logger.With("component", "scheduler"),
		now:      time.Now,
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "check_interval", s.interval)

	s.tick(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick triggers a cycle if now falls in a window that has not fired yet.
func (s *Scheduler) tick(ctx context.Context) {
	key, ok := s.windows.Window(s.now())
	if !ok || key == s.lastWindow {
		return
	}
	s.lastWindow = key

	s.logger.Info("sync window opened", "window", key)

	summary, err := s.trigger.Trigger(ctx, domain.TriggerRequest{})
	switch {
	case errors.Is(err, domain.ErrScheduleSkip):
		s.logger.Info("sync skipped", "window", key)
	case err != nil:
		s.logger.Error("sync failed", "window", key, "error", err)
	default:
		s.logger.Info("sync finished", "window", key, "summary", summary.String())
	}
}
