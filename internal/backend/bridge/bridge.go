// Package bridge implements the playback backend that delegates to an
// out-of-process media session.
//
// The session runs under OS control and may be killed and respawned at
// any time, even while the application is foregrounded. Commands cross
// the process boundary as asynchronous calls; the session pushes state
// back as signals. The wire protocol is fixed: the engine side must
// adapt to the session, never the other way around.
package bridge

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harkaudio/hark/internal/backend"
)

// Command and signal names of the session protocol.
const (
	methodLoadPlaylist    = "LoadPlaylist"
	methodPlay            = "Play"
	methodPause           = "Pause"
	methodSeekTo          = "SeekTo"
	methodSetSpeed        = "SetSpeed"
	methodSeekToChapter   = "SeekToChapter"
	methodSetVoiceEnhance = "SetVoiceEnhance"
	methodGetState        = "GetState"
	methodStopService     = "StopService"

	signalPlayingChanged   = "PlayingChanged"
	signalPositionUpdate   = "PositionUpdate"
	signalChapterChanged   = "ChapterChanged"
	signalCompleted        = "Completed"
	signalPlayerError      = "PlayerError"
	signalServiceReset     = "ServiceReset"
	signalVoicePlayCommand = "VoicePlayCommand"
)

// Signal is one pushed notification from the session.
type Signal struct {
	Name string
	Body []any
}

// Conn is the transport carrying commands and signals. The D-Bus
// implementation lives in this package; tests substitute a fake.
type Conn interface {
	Call(method string, args ...any) ([]any, error)
	Signals() <-chan Signal
	Close() error
}

// Backend drives the remote session through a Conn.
type Backend struct {
	conn      Conn
	events    chan backend.Event
	done      chan struct{}
	closeOnce sync.Once
}

// New creates the bridge backend and starts decoding pushed signals.
func New(conn Conn) *Backend {
	b := &Backend{
		conn:   conn,
		events: make(chan backend.Event, 64),
		done:   make(chan struct{}),
	}
	go b.decodeSignals()
	return b
}

// Load resubmits the entire chapter playlist. The session is
// playlist-oriented: it needs every entry to handle its own
// auto-advance, lock-screen controls and notification metadata.
// Loading never autoplays.
func (b *Backend) Load(req backend.LoadRequest) error {
	if len(req.Entries) == 0 {
		return fmt.Errorf("load: empty playlist")
	}
	if req.StartIndex < 0 || req.StartIndex >= len(req.Entries) {
		return fmt.Errorf("load: start index %d out of range", req.StartIndex)
	}
	for _, entry := range req.Entries {
		if entry.Path == "" {
			return fmt.Errorf("load: chapter %s has no local file", entry.ID)
		}
	}

	paths := make([]string, len(req.Entries))
	titles := make([]string, len(req.Entries))
	ids := make([]string, len(req.Entries))
	for i, entry := range req.Entries {
		paths[i] = entry.Path
		titles[i] = entry.Title
		ids[i] = entry.ID
	}

	speed := req.Speed
	if speed <= 0 {
		speed = 1.0
	}

	_, err := b.conn.Call(methodLoadPlaylist,
		paths, titles, ids,
		req.Artist,
		int32(req.StartIndex),
		req.StartPosition.Seconds(),
		speed,
		req.CoverArt,
	)
	return err
}

func (b *Backend) Play() error {
	_, err := b.conn.Call(methodPlay)
	return err
}

func (b *Backend) Pause() error {
	_, err := b.conn.Call(methodPause)
	return err
}

func (b *Backend) Seek(pos time.Duration) error {
	_, err := b.conn.Call(methodSeekTo, pos.Seconds())
	return err
}

func (b *Backend) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return fmt.Errorf("set speed: multiplier must be positive")
	}
	_, err := b.conn.Call(methodSetSpeed, multiplier)
	return err
}

func (b *Backend) SeekToChapter(index int) error {
	_, err := b.conn.Call(methodSeekToChapter, int32(index))
	return err
}

func (b *Backend) SetVoiceEnhance(enabled bool) error {
	_, err := b.conn.Call(methodSetVoiceEnhance, enabled)
	return err
}

// State queries the live session. A freshly respawned session reports
// not-playing with zero duration; the engine uses exactly that
// signature to detect that reconstruction is needed.
func (b *Backend) State() (backend.State, error) {
	body, err := b.conn.Call(methodGetState)
	if err != nil {
		return backend.State{}, err
	}
	if len(body) < 4 {
		return backend.State{}, fmt.Errorf("get state: short reply (%d values)", len(body))
	}
	return backend.State{
		Playing:  asBool(body[0]),
		Position: secondsToDuration(asFloat(body[1])),
		Duration: secondsToDuration(asFloat(body[2])),
		Index:    asInt(body[3]),
	}, nil
}

func (b *Backend) Events() <-chan backend.Event {
	return b.events
}

// Stop shuts the remote session down; the OS respawns it on the next
// playlist load. Errors are ignored, the session may already be gone.
func (b *Backend) Stop() error {
	_, _ = b.conn.Call(methodStopService)
	return nil
}

// Close tears the session down. Errors are ignored: the session may
// already be gone, which is exactly the state Close wants.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		_, _ = b.conn.Call(methodStopService)
		_ = b.conn.Close()
	})
	return nil
}

// decodeSignals translates pushed session signals into backend events.
func (b *Backend) decodeSignals() {
	for {
		select {
		case <-b.done:
			return
		case sig, ok := <-b.conn.Signals():
			if !ok {
				return
			}
			ev := decodeSignal(sig)
			if ev == nil {
				continue
			}
			b.emit(ev)
		}
	}
}

func decodeSignal(sig Signal) backend.Event {
	switch sig.Name {
	case signalPlayingChanged:
		if len(sig.Body) < 1 {
			break
		}
		return backend.PlayingChanged{Playing: asBool(sig.Body[0])}
	case signalPositionUpdate:
		if len(sig.Body) < 2 {
			break
		}
		return backend.PositionUpdate{
			Position: secondsToDuration(asFloat(sig.Body[0])),
			Duration: secondsToDuration(asFloat(sig.Body[1])),
		}
	case signalChapterChanged:
		if len(sig.Body) < 2 {
			break
		}
		return backend.ChapterChanged{
			Index:     asInt(sig.Body[0]),
			ChapterID: asString(sig.Body[1]),
		}
	case signalCompleted:
		return backend.Completed{}
	case signalPlayerError:
		msg := "unknown error"
		if len(sig.Body) > 0 {
			msg = asString(sig.Body[0])
		}
		return backend.Error{Message: msg}
	case signalServiceReset:
		return backend.SessionReset{}
	case signalVoicePlayCommand:
		query := ""
		if len(sig.Body) > 0 {
			query = asString(sig.Body[0])
		}
		return backend.VoiceCommand{Query: query}
	default:
		logrus.WithField("component", "bridge").Warnf("unknown session signal %q", sig.Name)
		return nil
	}
	logrus.WithField("component", "bridge").Warnf("malformed session signal %q", sig.Name)
	return nil
}

func (b *Backend) emit(e backend.Event) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.events <- e:
	default:
	}
}

// Wire values arrive loosely typed; negative positions mean "unknown"
// on the session side and are clamped to zero.

func secondsToDuration(s float64) time.Duration {
	if s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func asInt(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// Verify Backend implements the backend contract at compile time.
var _ backend.Interface = (*Backend)(nil)
