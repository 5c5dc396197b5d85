package service

import (
	"time"

	"insta_syncer/internal/domain"
)

const (
	DefaultFullRefreshAfter    = 24 * time.Hour
	DefaultPartialRefreshAfter = 12 * time.Hour
)

// StrategyPolicy tiers API cost against freshness: profiles change rarely and
// are refreshed least often, stories expire fastest and are refreshed every
// cycle.
type StrategyPolicy struct {
	FullAfter    time.Duration
	PartialAfter time.Duration
}

// DefaultStrategyPolicy returns the 24h/12h policy.
func DefaultStrategyPolicy() StrategyPolicy {
	return StrategyPolicy{
		FullAfter:    DefaultFullRefreshAfter,
		PartialAfter: DefaultPartialRefreshAfter,
	}
}

// Select picks the strategy for an account last synced at lastSyncAt.
// Staleness of FullAfter or more, or no prior sync, selects a full refresh.
func (p StrategyPolicy) Select(lastSyncAt *time.Time, now time.Time) domain.Strategy {
	if lastSyncAt == nil || lastSyncAt.IsZero() {
		return domain.StrategyFull
	}

	staleness := now.Sub(*lastSyncAt)
	switch {
	case staleness >= p.FullAfter:
		return domain.StrategyFull
	case staleness >= p.PartialAfter:
		return domain.StrategyMediaStories
	default:
		return domain.StrategyStoriesOnly
	}
}

// SelectStrategy applies the default policy.
func SelectStrategy(lastSyncAt *time.Time, now time.Time) domain.Strategy {
	return DefaultStrategyPolicy().Select(lastSyncAt, now)
}

// StrategyForSyncType maps an operator sync type to the strategy that
// overrides the computed one. An empty type returns "" and no error.
func StrategyForSyncType(t domain.Category) (domain.Strategy, error) {
	switch t {
	case "":
		return "", nil
	case domain.CategoryProfile:
		return domain.StrategyProfileOnly, nil
	case domain.CategoryMedia:
		return domain.StrategyMediaOnly, nil
	case domain.CategoryFull:
		return domain.StrategyFull, nil
	default:
		return "", domain.ErrInvalidSyncType
	}
}

// Manual per-account actions.
const (
	ActionSyncProfile = "sync_profile"
	ActionSyncMedia   = "sync_media"
	ActionSyncStories = "sync_stories"
	ActionSyncFull    = "sync_full"
)

// StrategyForAction maps a manual per-account action to its strategy.
func StrategyForAction(action string) (domain.Strategy, error) {
	switch action {
	case ActionSyncProfile:
		return domain.StrategyProfileOnly, nil
	case ActionSyncMedia:
		return domain.StrategyMediaOnly, nil
	case ActionSyncStories:
		return domain.StrategyStoriesOnly, nil
	case ActionSyncFull:
		return domain.StrategyFull, nil
	default:
		return "", domain.ErrInvalidAction
	}
}
