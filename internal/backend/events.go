package backend

import "time"

// Event is a tagged notification pushed by a backend. The engine consumes
// all variants through a single dispatch loop reading Events().
//
// Ordering: events are delivered in emission order. The engine treats
// every event as the source of truth for reported playback facts while
// retaining authority over intended identity (which chapter should play).
type Event interface {
	event()
}

// PlayingChanged reports a play/pause transition in the backend.
type PlayingChanged struct {
	Playing bool
}

// PositionUpdate is the periodic (~1/sec while playing) position report.
// It is the only path carrying timeupdate semantics out of a backend, so
// outro checks, heartbeat accounting and periodic persists all ride on it.
type PositionUpdate struct {
	Position time.Duration
	Duration time.Duration
}

// ChapterChanged reports that the backend moved to a different playlist
// entry on its own (session-side auto-advance). The bridge may emit a
// synthetic transition during initial load with an unchanged id; the
// engine must ignore those.
type ChapterChanged struct {
	Index     int
	ChapterID string
}

// Completed reports natural end-of-media for the whole playlist.
type Completed struct{}

// Error reports a decode or output failure. Playback is left paused and
// the engine does not retry.
type Error struct {
	Message string
}

// SessionReset reports that the out-of-process session was killed and a
// fresh instance started. All session-held state is gone; the engine must
// reconstruct before the next play can succeed.
type SessionReset struct{}

// VoiceCommand carries a voice-initiated playback request ("play <book>")
// forwarded from the platform assistant.
type VoiceCommand struct {
	Query string
}

func (PlayingChanged) event() {}
func (PositionUpdate) event() {}
func (ChapterChanged) event() {}
func (Completed) event()      {}
func (Error) event()          {}
func (SessionReset) event()   {}
func (VoiceCommand) event()   {}
