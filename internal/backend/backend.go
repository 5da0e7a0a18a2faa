// Package backend defines the contract between the playback engine and the
// substrate that actually decodes and outputs audio.
//
// Exactly one backend implementation is live per process, selected once at
// startup: the in-process local backend, or the bridge backend delegating
// to an out-of-process media session.
package backend

import "time"

// Entry is one playlist item submitted to a backend.
type Entry struct {
	ID    string // chapter id, echoed back in ChapterChanged events
	Title string
	Path  string // locally resolvable audio file
}

// LoadRequest primes a backend with a book's full chapter playlist.
//
// The local backend only decodes the entry at StartIndex; the session
// behind the bridge backend is playlist-oriented and receives everything,
// so it can auto-advance between entries on its own.
type LoadRequest struct {
	Entries       []Entry
	Artist        string // book title, shown by the session's media UI
	StartIndex    int
	StartPosition time.Duration
	Speed         float64
	CoverArt      []byte // optional cover image for the session notification
}

// State is a backend's report of its current playback facts.
//
// A session that was killed and respawned reports zero duration and
// not-playing; the engine uses that signature to detect a cold session.
type State struct {
	Playing  bool
	Position time.Duration
	Duration time.Duration
	Index    int
}

// Interface defines the backend contract for dependency injection and testing.
//
// Loading never starts playback; Play is always a separate command. This
// is what makes silent session reconstruction possible.
type Interface interface {
	Load(req LoadRequest) error
	Play() error
	Pause() error
	Seek(pos time.Duration) error
	SetSpeed(multiplier float64) error
	SeekToChapter(index int) error
	SetVoiceEnhance(enabled bool) error
	State() (State, error)
	Events() <-chan Event

	// Stop releases playback resources (decoder handles, the remote
	// session) but leaves the backend usable for a later Load.
	Stop() error

	// Close tears the backend down for good at process exit.
	Close() error
}
