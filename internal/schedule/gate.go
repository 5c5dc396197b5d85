// Package schedule decides whether a sync cycle may run at a given instant.
package schedule

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"insta_syncer/internal/config"
)

// Gate authorizes sync cycles inside a tolerance around fixed daily instants,
// evaluated in one reference time zone.
type Gate struct {
	windows   []timeOfDay
	tolerance time.Duration
	loc       *time.Location
}

type timeOfDay struct {
	hour   int
	minute int
}

// NewGate builds a gate from "HH:MM" window strings.
func NewGate(windows []string, tolerance time.Duration, timezone string) (*Gate, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "Sync.Timezone", Reason: err.Error()}
	}
	if len(windows) == 0 {
		return nil, &config.ConfigurationError{Field: "Sync.Windows", Reason: "is required"}
	}

	g := &Gate{tolerance: tolerance, loc: loc}
	for _, w := range windows {
		t, err := time.Parse("15:04", w)
		if err != nil {
			return nil, &config.ConfigurationError{
				Field:  "Sync.Windows",
				Reason: fmt.Sprintf("%q is not HH:MM", w),
			}
		}
		g.windows = append(g.windows, timeOfDay{hour: t.Hour(), minute: t.Minute()})
	}
	return g, nil
}

// FromConfig builds a gate from sync settings.
func FromConfig(cfg config.SyncConfig) (*Gate, error) {
	return NewGate(cfg.Windows, cfg.WindowTolerance, cfg.Timezone)
}

// Authorized reports whether a cycle may run at now. force bypasses the
// window check.
func (g *Gate) Authorized(now time.Time, force bool) bool {
	if force {
		return true
	}
	_, ok := g.Window(now)
	return ok
}

// Window returns a key identifying the window that contains now. The key is
// stable for the whole window, so a poller can fire once per window.
func (g *Gate) Window(now time.Time) (string, bool) {
	local := now.In(g.loc)
	y, m, d := local.Date()

	// Neighbouring days cover windows whose tolerance crosses midnight.
	for _, offset := range []int{-1, 0, 1} {
		for _, w := range g.windows {
			instant := time.Date(y, m, d+offset, w.hour, w.minute, 0, 0, g.loc)
			diff := local.Sub(instant)
			if diff < 0 {
				diff = -diff
			}
			if diff <= g.tolerance {
				return instant.Format("2006-01-02T15:04"), true
			}
		}
	}
	return "", false
}
