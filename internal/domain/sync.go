package domain

import (
	"fmt"
	"time"
)

// SystemHandle is the account handle used for whole-run summary attempts.
const SystemHandle = "system"

type Category string

const (
	CategoryProfile Category = "profile"
	CategoryMedia   Category = "media"
	CategoryStories Category = "stories"
	CategoryFull    Category = "full"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether s is a final attempt state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Strategy names how much of an account is refreshed in one cycle.
type Strategy string

const (
	StrategyFull         Strategy = "full"
	StrategyMediaStories Strategy = "media+stories"
	StrategyStoriesOnly  Strategy = "stories-only"
	StrategyProfileOnly  Strategy = "profile"
	StrategyMediaOnly    Strategy = "media"
)

// Categories returns the categories to sync for s, in execution order.
func (s Strategy) Categories() []Category {
	switch s {
	case StrategyFull:
		return []Category{CategoryProfile, CategoryMedia, CategoryStories}
	case StrategyMediaStories:
		return []Category{CategoryMedia, CategoryStories}
	case StrategyStoriesOnly:
		return []Category{CategoryStories}
	case StrategyProfileOnly:
		return []Category{CategoryProfile}
	case StrategyMediaOnly:
		return []Category{CategoryMedia}
	default:
		return nil
	}
}

// SyncAttempt is the audit record of one category sync for one account.
type SyncAttempt struct {
	ID               string     `db:"id" json:"id"`
	AccountHandle    string     `db:"account_handle" json:"account_handle"`
	Category         Category   `db:"category" json:"category"`
	Status           Status     `db:"status" json:"status"`
	RecordsProcessed int        `db:"records_processed" json:"records_processed"`
	RecordsCreated   int        `db:"records_created" json:"records_created"`
	RecordsUpdated   int        `db:"records_updated" json:"records_updated"`
	RecordsFailed    int        `db:"records_failed" json:"records_failed"`
	APICalls         int        `db:"api_calls" json:"api_calls"`
	ErrorMessage     *string    `db:"error_message" json:"error_message,omitempty"`
	StartedAt        time.Time  `db:"started_at" json:"started_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// Outcome carries the terminal state of an attempt.
type Outcome struct {
	Status           Status
	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsFailed    int
	APICalls         int
	Error            string
}

// CategoryResult is the outcome of one category within an account sync.
type CategoryResult struct {
	Category  Category `json:"category"`
	AttemptID string   `json:"attempt_id,omitempty"`
	Status    Status   `json:"status"`
	Processed int      `json:"processed"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Failed    int      `json:"failed"`
	APICalls  int      `json:"api_calls"`
	Error     string   `json:"error,omitempty"`
}

// AccountResult is the outcome of one account's pipeline.
type AccountResult struct {
	Handle     string           `json:"handle"`
	Strategy   Strategy         `json:"strategy"`
	Success    bool             `json:"success"`
	Categories []CategoryResult `json:"categories"`
	Error      string           `json:"error,omitempty"`
}

// RunSummary aggregates one batch run.
type RunSummary struct {
	RunID     string          `json:"run_id,omitempty"`
	Skipped   bool            `json:"skipped"`
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Results   []AccountResult `json:"results"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}

// Err returns a *PartialBatchFailure when some but not all accounts failed,
// and nil otherwise.
func (s *RunSummary) Err() error {
	if s.Failed > 0 && s.Failed < s.Total {
		return &PartialBatchFailure{Failed: s.Failed, Total: s.Total}
	}
	return nil
}

// Outcome returns a short label for the run.
func (s *RunSummary) Outcome() string {
	switch {
	case s.Skipped:
		return "skipped"
	case s.Failed == 0:
		return "completed"
	case s.Failed < s.Total:
		return "partial_failure"
	default:
		return "failed"
	}
}

func (s *RunSummary) String() string {
	return fmt.Sprintf("%s: %d/%d accounts succeeded", s.Outcome(), s.Succeeded, s.Total)
}

// TriggerRequest is the input of a batch trigger.
type TriggerRequest struct {
	SyncType Category `json:"sync_type"`
	Force    bool     `json:"force"`
}
