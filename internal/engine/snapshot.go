package engine

import "time"

// State is the engine's playback lifecycle state. Loading is transient:
// it covers the window between a load command and the backend accepting
// the playlist.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// SkipSettings controls automatic intro and outro skipping. Changes
// apply to the next fresh chapter load or outro check, never
// retroactively mid-chapter.
type SkipSettings struct {
	Enabled bool
	Intro   time.Duration
	Outro   time.Duration
}

// SkipUpdate is a partial change to SkipSettings; nil fields keep the
// current value.
type SkipUpdate struct {
	Enabled *bool
	Intro   *time.Duration
	Outro   *time.Duration
}

// Snapshot is a self-contained view of the engine for consumers.
// Identity fields (book, chapter) reflect engine intent; Position and
// Duration reflect the latest backend report.
type Snapshot struct {
	State State

	BookID       string
	BookTitle    string
	ChapterID    string
	ChapterTitle string
	ChapterIndex int
	ChapterCount int

	Position time.Duration
	Duration time.Duration

	Speed        float64
	VoiceEnhance bool
	Skip         SkipSettings

	// SleepTimerEnd is the wall-clock instant the sleep timer will pause
	// playback, zero when no timer is armed.
	SleepTimerEnd time.Time

	// Err is the last backend playback error, cleared on the next
	// successful load or play.
	Err string
}

// Remaining returns time left in the current chapter, zero when the
// duration is not yet known.
func (s Snapshot) Remaining() time.Duration {
	if s.Duration <= 0 || s.Position >= s.Duration {
		return 0
	}
	return s.Duration - s.Position
}
