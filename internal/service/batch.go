package service

import (
	"context"
	"fmt"
	"sync"

	"insta_syncer/internal/domain"
	"insta_syncer/internal/metrics"
)

// Partition splits accounts into consecutive groups of at most size.
func Partition(accounts []domain.Account, size int) [][]domain.Account {
	if size <= 0 {
		size = 1
	}
	groups := make([][]domain.Account, 0, (len(accounts)+size-1)/size)
	for start := 0; start < len(accounts); start += size {
		end := min(start+size, len(accounts))
		groups = append(groups, accounts[start:end])
	}
	return groups
}

// RunBatch syncs accounts in groups of config.BatchSize. Accounts within a
// group run concurrently; a group settles completely before the next one
// starts, and config.BatchDelay separates groups. forced, when set, replaces
// the per-account strategy.
func (s *SyncService) RunBatch(ctx context.Context, accounts []domain.Account, forced domain.Strategy) *domain.RunSummary {
	startedAt := s.now()
	summary := &domain.RunSummary{
		Total:     len(accounts),
		Results:   make([]domain.AccountResult, len(accounts)),
		StartedAt: startedAt.UTC(),
	}

	var run *domain.SyncAttempt
	if s.config.RecordsRuns() {
		attempt, err := s.recorder.Begin(ctx, domain.SystemHandle, domain.CategoryFull)
		if err != nil {
			s.logger.Error("failed to record run start", "error", err)
		} else {
			run = attempt
			summary.RunID = attempt.ID
		}
	}

	groups := Partition(accounts, s.config.BatchSize)
	s.logger.Info("starting sync run",
		"run_id", summary.RunID,
		"accounts", len(accounts),
		"groups", len(groups),
		"forced_strategy", forced,
	)

	offset := 0
	for gi, group := range groups {
		if gi > 0 {
			if err := s.sleep(ctx, s.config.BatchDelay); err != nil {
				s.abandon(summary, accounts, offset, err)
				break
			}
		}

		s.runGroup(ctx, group, forced, summary.Results[offset:offset+len(group)])
		offset += len(group)

		s.logger.Debug("group settled", "group", gi+1, "of", len(groups))
	}

	for _, r := range summary.Results {
		if r.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	summary.Duration = s.now().Sub(startedAt)

	metrics.SyncRuns.WithLabelValues(summary.Outcome()).Inc()
	metrics.SyncRunDuration.Observe(summary.Duration.Seconds())

	if run != nil {
		if err := s.recorder.Finish(ctx, run, runOutcome(summary)); err != nil {
			s.logger.Error("failed to record run end", "run_id", run.ID, "error", err)
		}
	}

	s.logger.Info("sync run completed",
		"run_id", summary.RunID,
		"outcome", summary.Outcome(),
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary
}

// runGroup syncs one group concurrently. Each goroutine owns one slot of
// results, so no locking is needed.
func (s *SyncService) runGroup(ctx context.Context, group []domain.Account, forced domain.Strategy, results []domain.AccountResult) {
	var wg sync.WaitGroup
	for i := range group {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			account := group[i]

			defer func() {
				if p := recover(); p != nil {
					s.logger.Error("account sync panicked", "account", account.Handle, "panic", p)
					results[i] = domain.AccountResult{
						Handle:     account.Handle,
						Categories: []domain.CategoryResult{},
						Error:      fmt.Sprintf("panic: %v", p),
					}
				}
			}()

			strategy := forced
			if strategy == "" {
				strategy = s.policy.Select(account.LastSyncAt, s.now())
			}
			results[i] = s.SyncAccount(ctx, account, strategy)
		}(i)
	}
	wg.Wait()
}

// abandon marks every account from offset on as failed when the run stops
// early.
func (s *SyncService) abandon(summary *domain.RunSummary, accounts []domain.Account, offset int, cause error) {
	s.logger.Warn("sync run interrupted", "remaining", len(summary.Results)-offset, "error", cause)
	for i := offset; i < len(summary.Results); i++ {
		summary.Results[i] = domain.AccountResult{
			Handle:     accounts[i].Handle,
			Categories: []domain.CategoryResult{},
			Error:      fmt.Sprintf("run interrupted: %v", cause),
		}
	}
}

func runOutcome(summary *domain.RunSummary) domain.Outcome {
	out := domain.Outcome{
		Status:           domain.StatusCompleted,
		RecordsProcessed: summary.Total,
		RecordsUpdated:   summary.Succeeded,
		RecordsFailed:    summary.Failed,
	}
	for _, r := range summary.Results {
		for _, c := range r.Categories {
			out.APICalls += c.APICalls
		}
	}
	if summary.Total > 0 && summary.Failed == summary.Total {
		out.Status = domain.StatusFailed
		out.Error = fmt.Sprintf("all %d accounts failed", summary.Total)
	} else if err := summary.Err(); err != nil {
		out.Error = err.Error()
	}
	return out
}
