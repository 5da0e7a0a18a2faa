// Package stats accumulates listening time into per-day buckets.
package stats

import "time"

const (
	// minGrain is the smallest elapsed span worth committing. Anything
	// shorter stays pending until enough wall time has passed.
	minGrain = 5 * time.Second

	// maxDelta is the sanity cap for a single heartbeat. An elapsed span
	// beyond it means the clock jumped (device sleep, manual adjustment)
	// and the span is discarded rather than counted as listening time.
	maxDelta = 5 * time.Hour
)

// DayKey formats t as the stat-bucket key for its calendar day.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Tracker converts heartbeat opportunities into listening minutes.
//
// It has no timer of its own: the caller invokes Tick whenever a position
// update arrives or playback pauses, and the tracker measures the wall
// clock between accounted instants.
type Tracker struct {
	now  func() time.Time
	last time.Time
}

// NewTracker creates a tracker using the real clock.
func NewTracker() *Tracker {
	return &Tracker{now: time.Now}
}

// NewTrackerAt creates a tracker with an injected clock for tests.
func NewTrackerAt(now func() time.Time) *Tracker {
	return &Tracker{now: now}
}

// Start begins (or restarts) accounting from the current instant.
// Any span before this call is not counted.
func (t *Tracker) Start() {
	t.last = t.now()
}

// Halt stops accounting. The next Tick after Start will measure from
// Start, not from the halted span.
func (t *Tracker) Halt() {
	t.last = time.Time{}
}

// Active reports whether accounting is running.
func (t *Tracker) Active() bool {
	return !t.last.IsZero()
}

// Tick commits the elapsed span since the last accounted instant.
// It returns the day bucket and minutes to add, with ok=false when
// nothing should be committed: accounting inactive, span below the
// minimum grain, or span beyond the sanity cap (discarded, but the
// accounted instant still advances so one anomaly is dropped once).
func (t *Tracker) Tick() (day string, minutes float64, ok bool) {
	if t.last.IsZero() {
		return "", 0, false
	}

	now := t.now()
	elapsed := now.Sub(t.last)

	if elapsed < minGrain {
		return "", 0, false
	}

	t.last = now

	if elapsed > maxDelta {
		return "", 0, false
	}

	return DayKey(now), elapsed.Minutes(), true
}
