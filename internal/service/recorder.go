package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/metrics"
)

// FinishTimeout bounds the terminal write and publish of one attempt.
const FinishTimeout = 10 * time.Second

// Recorder owns the lifecycle of SyncAttempt audit rows: one running row per
// attempt, written before any network call, and one terminal transition.
type Recorder struct {
	store     SyncLogStore
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewRecorder(store SyncLogStore, publisher Publisher, logger *slog.Logger) *Recorder {
	return &Recorder{
		store:     store,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Begin writes a running attempt for handle and category.
func (r *Recorder) Begin(ctx context.Context, handle string, category domain.Category) (*domain.SyncAttempt, error) {
	attempt := &domain.SyncAttempt{
		ID:            uuid.NewString(),
		AccountHandle: handle,
		Category:      category,
		Status:        domain.StatusRunning,
		StartedAt:     r.now().UTC(),
	}

	if err := r.store.Create(ctx, attempt); err != nil {
		return nil, &domain.PersistenceError{Op: "create sync attempt", Key: handle, Err: err}
	}
	return attempt, nil
}

// Finish applies outcome to attempt. It is the only transition out of
// running; a second call returns domain.ErrAttemptFinished. The finished
// attempt is published before Finish returns.
//
// The terminal write ignores cancellation of ctx so an attempt interrupted by
// shutdown still leaves the running state.
func (r *Recorder) Finish(ctx context.Context, attempt *domain.SyncAttempt, outcome domain.Outcome) error {
	if attempt.Status.Terminal() {
		return domain.ErrAttemptFinished
	}
	if !outcome.Status.Terminal() {
		return fmt.Errorf("finish attempt %s: status %q is not terminal", attempt.ID, outcome.Status)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FinishTimeout)
	defer cancel()

	completedAt := r.now().UTC()
	if err := r.store.Finish(ctx, attempt.ID, outcome, completedAt); err != nil {
		if errors.Is(err, domain.ErrAttemptFinished) {
			return err
		}
		return &domain.PersistenceError{Op: "finish sync attempt", Key: attempt.ID, Err: err}
	}

	attempt.Status = outcome.Status
	attempt.RecordsProcessed = outcome.RecordsProcessed
	attempt.RecordsCreated = outcome.RecordsCreated
	attempt.RecordsUpdated = outcome.RecordsUpdated
	attempt.RecordsFailed = outcome.RecordsFailed
	attempt.APICalls = outcome.APICalls
	attempt.CompletedAt = &completedAt
	if outcome.Error != "" {
		msg := outcome.Error
		attempt.ErrorMessage = &msg
	}

	r.observe(attempt)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, attempt); err != nil {
			r.logger.Warn("failed to publish sync attempt",
				"attempt_id", attempt.ID,
				"error", err,
			)
		}
	}

	return nil
}

func (r *Recorder) observe(a *domain.SyncAttempt) {
	category := string(a.Category)
	metrics.SyncAttempts.WithLabelValues(category, string(a.Status)).Inc()
	if a.AccountHandle == domain.SystemHandle {
		return
	}
	metrics.SyncRecords.WithLabelValues(category, "created").Add(float64(a.RecordsCreated))
	metrics.SyncRecords.WithLabelValues(category, "updated").Add(float64(a.RecordsUpdated))
	metrics.SyncRecords.WithLabelValues(category, "failed").Add(float64(a.RecordsFailed))
	metrics.APICalls.WithLabelValues(category).Add(float64(a.APICalls))
}
