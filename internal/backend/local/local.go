// Package local implements the in-process playback backend on top of the
// beep speaker. Decoding and output happen inside the application process,
// so lifecycle events fire synchronously and the backend can never lose
// state to an external process death.
package local

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/harkaudio/hark/internal/backend"
)

const (
	resampleQuality = 4
	// voiceBoost is the volume exponent applied when voice enhancement is
	// on: base 2 raised to 0.5 is roughly +3 dB on spoken audio.
	voiceBoost = 0.5
)

var speakerInitialized bool

// Backend plays a loaded chapter through the process-local speaker.
type Backend struct {
	mu sync.Mutex

	entries      []backend.Entry
	index        int
	speed        float64
	voiceEnhance bool

	file      *os.File
	streamer  beep.StreamSeekCloser
	format    beep.Format
	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	playing   bool

	events    chan backend.Event
	done      chan struct{}
	closeOnce sync.Once
}

// New creates the local backend and starts its position reporter.
func New() *Backend {
	b := &Backend{
		speed:  1.0,
		events: make(chan backend.Event, 64),
		done:   make(chan struct{}),
	}
	go b.reportPositions()
	return b
}

// Load primes the speaker with the entry at StartIndex, paused at
// StartPosition. Any previously held decoder resources are released
// first; this holds on every load path, not just the happy one.
func (b *Backend) Load(req backend.LoadRequest) error {
	if len(req.Entries) == 0 {
		return fmt.Errorf("load: empty playlist")
	}
	if req.StartIndex < 0 || req.StartIndex >= len(req.Entries) {
		return fmt.Errorf("load: start index %d out of range", req.StartIndex)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append([]backend.Entry(nil), req.Entries...)
	if req.Speed > 0 {
		b.speed = req.Speed
	}

	return b.loadEntryLocked(req.StartIndex, req.StartPosition)
}

// loadEntryLocked swaps the active streamer to the given playlist entry.
func (b *Backend) loadEntryLocked(index int, startPos time.Duration) error {
	entry := b.entries[index]

	ext := strings.ToLower(filepath.Ext(entry.Path))
	f, err := os.Open(entry.Path)
	if err != nil {
		return err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg", ".oga":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("unsupported format: %s", ext)
	}
	if err != nil {
		f.Close()
		return err
	}

	if !speakerInitialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
		speakerInitialized = true
	}

	if startPos > 0 {
		sample := format.SampleRate.N(startPos)
		if l := streamer.Len(); sample >= l {
			sample = l - 1
		}
		if err := streamer.Seek(sample); err != nil {
			streamer.Close()
			f.Close()
			return err
		}
	}

	// Old resources go before the new ones become visible.
	b.releaseLocked()

	b.index = index
	b.file = f
	b.streamer = streamer
	b.format = format
	b.resampler = beep.ResampleRatio(resampleQuality, b.speed, streamer)
	b.volume = &effects.Volume{Streamer: b.resampler, Base: 2}
	if b.voiceEnhance {
		b.volume.Volume = voiceBoost
	}
	b.ctrl = &beep.Ctrl{Streamer: b.volume, Paused: true}

	speaker.Play(beep.Seq(b.ctrl, beep.Callback(b.onDrained)))

	return nil
}

// releaseLocked clears the speaker and closes the current decoder chain.
func (b *Backend) releaseLocked() {
	if b.streamer == nil && b.file == nil {
		return
	}
	speaker.Clear()
	if b.streamer != nil {
		b.streamer.Close()
		b.streamer = nil
	}
	if b.file != nil {
		b.file.Close()
		b.file = nil
	}
	b.ctrl = nil
	b.resampler = nil
	b.volume = nil
	b.playing = false
}

// onDrained is invoked by the mixer goroutine while it holds the speaker
// mutex, so it must not touch b.mu itself. Every command path locks b.mu
// before speaker.Lock(); taking b.mu here would invert that order.
func (b *Backend) onDrained() {
	go b.handleFinished()
}

func (b *Backend) handleFinished() {
	b.mu.Lock()
	b.playing = false
	b.mu.Unlock()
	b.emit(backend.PlayingChanged{Playing: false})
	b.emit(backend.Completed{})
}

func (b *Backend) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return fmt.Errorf("play: nothing loaded")
	}
	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()
	b.playing = true
	b.emit(backend.PlayingChanged{Playing: true})
	return nil
}

func (b *Backend) Pause() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ctrl == nil {
		return nil
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
	b.playing = false
	b.emit(backend.PlayingChanged{Playing: false})
	return nil
}

func (b *Backend) Seek(pos time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.streamer == nil {
		return fmt.Errorf("seek: nothing loaded")
	}
	sample := b.format.SampleRate.N(pos)
	if l := b.streamer.Len(); sample >= l {
		sample = l - 1
	}
	if sample < 0 {
		sample = 0
	}
	speaker.Lock()
	err := b.streamer.Seek(sample)
	speaker.Unlock()
	return err
}

func (b *Backend) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return fmt.Errorf("set speed: multiplier must be positive")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.speed = multiplier
	if b.resampler != nil {
		speaker.Lock()
		b.resampler.SetRatio(multiplier)
		speaker.Unlock()
	}
	return nil
}

// SeekToChapter jumps to another entry of the loaded playlist, keeping
// the current playing state.
func (b *Backend) SeekToChapter(index int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.entries) {
		return fmt.Errorf("seek to chapter: index %d out of range", index)
	}
	wasPlaying := b.playing
	if err := b.loadEntryLocked(index, 0); err != nil {
		return err
	}
	if wasPlaying {
		speaker.Lock()
		b.ctrl.Paused = false
		speaker.Unlock()
		b.playing = true
	}
	return nil
}

func (b *Backend) SetVoiceEnhance(enabled bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.voiceEnhance = enabled
	if b.volume != nil {
		speaker.Lock()
		if enabled {
			b.volume.Volume = voiceBoost
		} else {
			b.volume.Volume = 0
		}
		speaker.Unlock()
	}
	return nil
}

func (b *Backend) State() (backend.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked(), nil
}

func (b *Backend) stateLocked() backend.State {
	s := backend.State{Playing: b.playing, Index: b.index}
	if b.streamer != nil {
		speaker.Lock()
		s.Position = b.format.SampleRate.D(b.streamer.Position())
		s.Duration = b.format.SampleRate.D(b.streamer.Len())
		speaker.Unlock()
	}
	return s
}

func (b *Backend) Events() <-chan backend.Event {
	return b.events
}

// Stop releases the decoder chain but keeps the backend alive for a
// later Load.
func (b *Backend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.releaseLocked()
	b.entries = nil
	b.index = 0
	return nil
}

// Close releases the decoder chain and stops the position reporter.
func (b *Backend) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.mu.Lock()
		b.releaseLocked()
		b.entries = nil
		b.mu.Unlock()
	})
	return nil
}

// reportPositions emits a PositionUpdate roughly once per second while
// playing, mirroring the cadence the bridge backend gets from its session.
func (b *Backend) reportPositions() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-b.done:
			return
		case <-ticker.C:
			b.mu.Lock()
			if !b.playing || b.streamer == nil {
				b.mu.Unlock()
				continue
			}
			s := b.stateLocked()
			b.mu.Unlock()
			b.emit(backend.PositionUpdate{Position: s.Position, Duration: s.Duration})
		}
	}
}

// emit sends an event without blocking; stale position updates may be
// dropped when the consumer lags. The events channel is never closed,
// emission simply stops once the backend is closed.
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

// Verify Backend implements the backend contract at compile time.
var _ backend.Interface = (*Backend)(nil)
