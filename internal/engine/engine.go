// Package engine implements the playback engine: the single owner of
// playback intent, progress persistence and listening accounting.
//
// The engine drives exactly one backend. Commands flow down
// synchronously; the backend's reality flows back asynchronously
// through its event stream and is reconciled by a single dispatch
// loop. Identity (which book and chapter should be playing) is engine
// authority; position, duration and the playing flag are backend
// reports.
package engine

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/harkaudio/hark/internal/backend"
	applog "github.com/harkaudio/hark/internal/log"
	"github.com/harkaudio/hark/internal/stats"
	"github.com/harkaudio/hark/internal/store"
)

const (
	// persistEvery is how often progress is written while playing.
	// Pause, seek and chapter changes persist immediately regardless.
	defaultPersistEvery = 5 * time.Second

	// settleDelay is how long a foreground resume waits before probing
	// backend liveness; querying too early races the session respawn.
	defaultSettleDelay = 500 * time.Millisecond

	maxSpeed = 4.0
)

// Options tune engine timing; zero values select the defaults.
type Options struct {
	PersistEvery time.Duration
	SettleDelay  time.Duration
	Clock        func() time.Time
}

// Engine owns playback state and persists progress as it evolves.
type Engine struct {
	backend backend.Interface
	store   store.Interface
	log     *logrus.Entry

	mu sync.Mutex

	state        State
	book         *store.Book
	chapters     []store.Chapter
	chapterIndex int
	coverArt     []byte

	playing  bool
	position time.Duration
	duration time.Duration

	speed        float64
	voiceEnhance bool
	skip         SkipSettings
	errText      string

	// outroFired guards the outro callback: once per chapter load.
	outroFired bool
	// durationSaved guards the one-time duration write per chapter load.
	durationSaved bool

	sleepTimer    *time.Timer
	sleepTimerEnd time.Time

	tracker      *stats.Tracker
	persistEvery time.Duration
	settleDelay  time.Duration
	lastPersist  time.Time
	now          func() time.Time

	// Single-slot callbacks: a later registration replaces the earlier
	// one, so stale consumers cannot double-handle chapter ends.
	onChapterEnd   func()
	onVoiceCommand func(query string)

	subsMu sync.RWMutex
	subs   []*Subscription

	done      chan struct{}
	loopDone  chan struct{}
	closeOnce sync.Once
}

// New creates an engine bound to a backend and store, restores the
// saved player settings, and starts consuming backend events.
func New(b backend.Interface, st store.Interface, opts Options) *Engine {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	persistEvery := opts.PersistEvery
	if persistEvery <= 0 {
		persistEvery = defaultPersistEvery
	}
	settleDelay := opts.SettleDelay
	if settleDelay <= 0 {
		settleDelay = defaultSettleDelay
	}

	e := &Engine{
		backend:      b,
		store:        st,
		log:          applog.WithComponent("engine"),
		state:        StateIdle,
		speed:        1.0,
		tracker:      stats.NewTrackerAt(now),
		persistEvery: persistEvery,
		settleDelay:  settleDelay,
		now:          now,
		done:         make(chan struct{}),
		loopDone:     make(chan struct{}),
	}

	settings, err := st.PlayerSettings()
	if err != nil {
		e.log.WithError(err).Warn("loading player settings failed, using defaults")
		settings = store.DefaultPlayerSettings()
	}
	if settings.Speed > 0 {
		e.speed = settings.Speed
	}
	e.voiceEnhance = settings.VoiceEnhance
	e.skip = SkipSettings{
		Enabled: settings.SkipEnabled,
		Intro:   settings.SkipIntro,
		Outro:   settings.SkipOutro,
	}

	go e.dispatch()
	return e
}

// OnChapterEnd registers the end-of-chapter callback, fired on natural
// completion and on outro skip. A later registration replaces the
// earlier one.
func (e *Engine) OnChapterEnd(fn func()) {
	e.mu.Lock()
	e.onChapterEnd = fn
	e.mu.Unlock()
}

// OnVoiceCommand registers the handler for voice-initiated play
// requests forwarded by the backend.
func (e *Engine) OnVoiceCommand(fn func(query string)) {
	e.mu.Lock()
	e.onVoiceCommand = fn
	e.mu.Unlock()
}

// Snapshot returns the current engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// LoadChapter primes the backend with the book's playlist positioned at
// the given chapter. Playback does not start; Play is a separate
// command. With skip enabled and startPos exactly zero (a fresh play,
// not a resume) the intro skip offset applies instead.
//
// On any failure the engine state is left as it was.
func (e *Engine) LoadChapter(bookID, chapterID string, startPos time.Duration) error {
	book, err := e.store.Book(bookID)
	if err != nil {
		return fmt.Errorf("load chapter: %w", err)
	}
	chapters, err := e.store.ChaptersByBook(bookID)
	if err != nil {
		return fmt.Errorf("load chapter: %w", err)
	}
	idx := indexOf(chapters, chapterID)
	if idx < 0 {
		return fmt.Errorf("load chapter: chapter %s is not part of book %s", chapterID, bookID)
	}
	if startPos < 0 {
		startPos = 0
	}

	e.mu.Lock()
	if startPos == 0 && e.skip.Enabled && e.skip.Intro > 0 {
		startPos = e.skip.Intro
	}
	speed := e.speed
	prevState := e.state
	e.state = StateLoading
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)

	cover := readCover(book.CoverPath)
	err = e.backend.Load(backend.LoadRequest{
		Entries:       entriesFor(chapters),
		Artist:        book.Title,
		StartIndex:    idx,
		StartPosition: startPos,
		Speed:         speed,
		CoverArt:      cover,
	})

	e.mu.Lock()
	if err != nil {
		e.state = prevState
		snap = e.snapshotLocked()
		e.mu.Unlock()
		e.notify(snap)
		return fmt.Errorf("load chapter: %w", err)
	}

	e.book = book
	e.chapters = chapters
	e.chapterIndex = idx
	e.coverArt = cover
	e.playing = false
	e.position = startPos
	e.duration = chapters[idx].Duration
	e.state = StatePaused
	e.errText = ""
	e.outroFired = false
	e.durationSaved = false
	// Load latency is not listening time.
	if e.tracker.Active() {
		e.tracker.Start()
	}
	e.persistLocked()
	snap = e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// OpenBook loads a book at its saved progress, or at the first chapter
// when there is none. A failed or dangling progress record falls back
// to the beginning rather than failing the open.
func (e *Engine) OpenBook(bookID string) error {
	chapters, err := e.store.ChaptersByBook(bookID)
	if err != nil {
		return fmt.Errorf("open book: %w", err)
	}
	if len(chapters) == 0 {
		return fmt.Errorf("open book: book %s has no chapters", bookID)
	}

	chapterID := chapters[0].ID
	var startPos time.Duration

	prog, err := e.store.Progress(bookID)
	if err != nil {
		e.log.WithError(err).Warn("loading progress failed, starting from the beginning")
		prog = nil
	}
	if prog != nil {
		if indexOf(chapters, prog.ChapterID) >= 0 {
			chapterID = prog.ChapterID
			startPos = prog.Position
		}
		if prog.Speed > 0 {
			e.mu.Lock()
			e.speed = prog.Speed
			e.mu.Unlock()
		}
	}

	return e.LoadChapter(bookID, chapterID, startPos)
}

// Play starts or resumes playback. Before the command goes out the
// backend is probed: a killed-and-respawned session answers with the
// cold signature (not playing, zero duration) and gets the playlist
// reloaded at the last known position first, so play resumes where the
// listener left off instead of failing on an empty session.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return fmt.Errorf("play: no chapter loaded")
	}

	if st, err := e.backend.State(); err == nil && !st.Playing && st.Duration == 0 {
		e.log.Info("backend session cold, reloading before play")
		if err := e.reconstructLocked(e.position); err != nil {
			e.mu.Unlock()
			return fmt.Errorf("play: %w", err)
		}
	}

	if err := e.backend.Play(); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("play: %w", err)
	}
	e.playing = true
	e.state = StatePlaying
	e.errText = ""
	e.tracker.Start()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// Pause stops playback, commits the pending listening span and flushes
// progress immediately.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return nil
	}
	e.commitListeningLocked()
	e.tracker.Halt()
	err := e.backend.Pause()
	e.playing = false
	if e.state == StatePlaying {
		e.state = StatePaused
	}
	e.persistLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	if err != nil {
		return fmt.Errorf("pause: %w", err)
	}
	return nil
}

// Toggle plays or pauses based on the backend-reported playing flag.
func (e *Engine) Toggle() error {
	e.mu.Lock()
	playing := e.playing
	e.mu.Unlock()
	if playing {
		return e.Pause()
	}
	return e.Play()
}

// Seek jumps to an absolute position in the current chapter, clamped to
// [0, duration] once the duration is known. Progress persists
// immediately.
func (e *Engine) Seek(pos time.Duration) error {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return fmt.Errorf("seek: no chapter loaded")
	}
	if pos < 0 {
		pos = 0
	}
	if e.duration > 0 && pos > e.duration {
		pos = e.duration
	}
	if err := e.backend.Seek(pos); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("seek: %w", err)
	}
	e.position = pos
	e.persistLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// SeekBy jumps relative to the current position.
func (e *Engine) SeekBy(delta time.Duration) error {
	e.mu.Lock()
	pos := e.position + delta
	e.mu.Unlock()
	return e.Seek(pos)
}

// SeekToChapter jumps to another chapter of the loaded book, starting
// at its beginning. The backend keeps its playing state across the
// jump.
func (e *Engine) SeekToChapter(index int) error {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return fmt.Errorf("seek to chapter: no book loaded")
	}
	if index < 0 || index >= len(e.chapters) {
		e.mu.Unlock()
		return fmt.Errorf("seek to chapter: index %d out of range", index)
	}
	if err := e.backend.SeekToChapter(index); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("seek to chapter: %w", err)
	}
	e.chapterIndex = index
	e.position = 0
	e.duration = e.chapters[index].Duration
	e.outroFired = false
	e.durationSaved = false
	e.persistLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// NextChapter advances to the following chapter; it fails at the last
// chapter of the book.
func (e *Engine) NextChapter() error {
	e.mu.Lock()
	idx := e.chapterIndex
	e.mu.Unlock()
	return e.SeekToChapter(idx + 1)
}

// PreviousChapter goes back one chapter; it fails at the first.
func (e *Engine) PreviousChapter() error {
	e.mu.Lock()
	idx := e.chapterIndex
	e.mu.Unlock()
	return e.SeekToChapter(idx - 1)
}

// SetSpeed changes the playback rate and persists it with the player
// settings so it survives restarts and carries into the next load.
func (e *Engine) SetSpeed(multiplier float64) error {
	if multiplier <= 0 || multiplier > maxSpeed {
		return fmt.Errorf("set speed: multiplier %.2f out of range", multiplier)
	}
	e.mu.Lock()
	if err := e.backend.SetSpeed(multiplier); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("set speed: %w", err)
	}
	e.speed = multiplier
	e.saveSettingsLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// SetSkipSettings merges a partial skip-settings change and persists
// the result. It never re-evaluates the current chapter: an already
// fired outro stays fired, an already applied intro stays applied.
func (e *Engine) SetSkipSettings(u SkipUpdate) error {
	e.mu.Lock()
	if u.Enabled != nil {
		e.skip.Enabled = *u.Enabled
	}
	if u.Intro != nil && *u.Intro >= 0 {
		e.skip.Intro = *u.Intro
	}
	if u.Outro != nil && *u.Outro >= 0 {
		e.skip.Outro = *u.Outro
	}
	e.saveSettingsLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// SetVoiceEnhance toggles the spoken-audio boost.
func (e *Engine) SetVoiceEnhance(enabled bool) error {
	e.mu.Lock()
	if err := e.backend.SetVoiceEnhance(enabled); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("set voice enhance: %w", err)
	}
	e.voiceEnhance = enabled
	e.saveSettingsLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	return nil
}

// SetSleepTimer arms a timer that pauses playback after d. A non-positive
// d cancels any armed timer without touching playback. Re-arming always
// cancels the previous timer first.
func (e *Engine) SetSleepTimer(d time.Duration) {
	e.mu.Lock()
	if e.sleepTimer != nil {
		e.sleepTimer.Stop()
		e.sleepTimer = nil
	}
	e.sleepTimerEnd = time.Time{}
	if d > 0 {
		e.sleepTimerEnd = e.now().Add(d)
		e.sleepTimer = time.AfterFunc(d, e.sleepTimerFired)
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
}

func (e *Engine) sleepTimerFired() {
	e.mu.Lock()
	e.sleepTimer = nil
	e.sleepTimerEnd = time.Time{}
	e.mu.Unlock()
	if err := e.Pause(); err != nil {
		e.log.WithError(err).Warn("sleep timer pause failed")
	}
}

// Stop ends the listening session: final progress flush, backend
// resources released, engine back to idle. The engine stays usable for
// the next load.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.commitListeningLocked()
	e.tracker.Halt()
	e.persistLocked()
	if e.sleepTimer != nil {
		e.sleepTimer.Stop()
		e.sleepTimer = nil
	}
	e.sleepTimerEnd = time.Time{}
	err := e.backend.Stop()
	e.book = nil
	e.chapters = nil
	e.chapterIndex = 0
	e.coverArt = nil
	e.playing = false
	e.position = 0
	e.duration = 0
	e.outroFired = false
	e.state = StateIdle
	e.errText = ""
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
	if err != nil {
		return fmt.Errorf("stop: %w", err)
	}
	return nil
}

// PersistProgress flushes the current position now, outside the
// periodic cadence. No-op when nothing is loaded.
func (e *Engine) PersistProgress() {
	e.mu.Lock()
	e.persistLocked()
	e.mu.Unlock()
}

// ResumeForeground schedules a liveness probe after a short settle
// delay. Sessions killed while the application was backgrounded do not
// always get their reset signal delivered, so coming back to the
// foreground re-checks explicitly.
func (e *Engine) ResumeForeground() {
	time.AfterFunc(e.settleDelay, e.probeLiveness)
}

func (e *Engine) probeLiveness() {
	e.mu.Lock()
	if e.book == nil {
		e.mu.Unlock()
		return
	}
	st, err := e.backend.State()
	if err == nil && (st.Playing || st.Duration > 0) {
		e.mu.Unlock()
		return
	}
	e.log.Info("backend session died in background, reconstructing")
	e.playing = false
	if e.state == StatePlaying {
		e.state = StatePaused
	}
	e.tracker.Halt()
	if err := e.reconstructLocked(e.position); err != nil {
		e.log.WithError(err).Warn("session reconstruction failed")
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()
	e.notify(snap)
}

// Close flushes listening time and progress, stops the dispatch loop
// and tears the backend down.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.commitListeningLocked()
		e.tracker.Halt()
		e.persistLocked()
		if e.sleepTimer != nil {
			e.sleepTimer.Stop()
			e.sleepTimer = nil
		}
		e.mu.Unlock()
		close(e.done)
		<-e.loopDone
		if err := e.backend.Close(); err != nil {
			e.log.WithError(err).Warn("backend close failed")
		}
	})
	return nil
}

// dispatch is the single consumer of backend events.
func (e *Engine) dispatch() {
	defer close(e.loopDone)
	for {
		select {
		case <-e.done:
			return
		case ev, ok := <-e.backend.Events():
			if !ok {
				return
			}
			e.handleEvent(ev)
		}
	}
}

// handleEvent reconciles one backend event. Callbacks fire after the
// lock is released so they can call back into the engine.
func (e *Engine) handleEvent(ev backend.Event) {
	var after func()

	e.mu.Lock()
	switch v := ev.(type) {
	case backend.PlayingChanged:
		e.handlePlayingChangedLocked(v.Playing)
	case backend.PositionUpdate:
		after = e.handlePositionLocked(v.Position, v.Duration)
	case backend.ChapterChanged:
		e.handleChapterChangedLocked(v)
	case backend.Completed:
		e.playing = false
		if e.state == StatePlaying {
			e.state = StatePaused
		}
		e.commitListeningLocked()
		e.tracker.Halt()
		e.persistLocked()
		after = e.onChapterEnd
	case backend.Error:
		e.log.WithField("error", v.Message).Warn("backend reported playback error")
		e.playing = false
		if e.state == StatePlaying {
			e.state = StatePaused
		}
		e.tracker.Halt()
		e.errText = v.Message
	case backend.SessionReset:
		e.handleSessionResetLocked()
	case backend.VoiceCommand:
		if cb := e.onVoiceCommand; cb != nil {
			query := v.Query
			after = func() { cb(query) }
		}
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	e.notify(snap)
	if after != nil {
		after()
	}
}

func (e *Engine) handlePlayingChangedLocked(playing bool) {
	e.playing = playing
	if playing {
		e.state = StatePlaying
		e.errText = ""
		if !e.tracker.Active() {
			e.tracker.Start()
		}
		return
	}
	if e.state == StatePlaying {
		e.state = StatePaused
	}
	e.commitListeningLocked()
	e.tracker.Halt()
	e.persistLocked()
}

// handlePositionLocked is the timeupdate path: outro checks, listening
// heartbeat, the one-time duration write and the periodic persist all
// ride on it.
func (e *Engine) handlePositionLocked(pos, dur time.Duration) func() {
	e.position = pos
	if dur > 0 {
		e.duration = dur
	}

	if dur > 0 && !e.durationSaved && e.chapterIndex < len(e.chapters) {
		ch := e.chapters[e.chapterIndex]
		if err := e.store.SetChapterDuration(ch.ID, dur); err != nil {
			e.log.WithError(err).Warn("saving chapter duration failed")
		}
		e.durationSaved = true
	}

	var after func()
	if e.skip.Enabled && e.skip.Outro > 0 && !e.outroFired && e.duration > 0 {
		remaining := e.duration - pos
		if remaining > 0 && remaining <= e.skip.Outro {
			e.outroFired = true
			after = e.onChapterEnd
		}
	}

	e.commitListeningLocked()

	if e.book != nil && e.now().Sub(e.lastPersist) >= e.persistEvery {
		e.persistLocked()
	}
	return after
}

// handleChapterChangedLocked follows a backend-side chapter advance.
// Transitions carrying the current chapter id are synthetic echoes of a
// load and are ignored, which makes duplicate delivery harmless.
func (e *Engine) handleChapterChangedLocked(v backend.ChapterChanged) {
	if e.book == nil || v.ChapterID == "" {
		return
	}
	current := ""
	if e.chapterIndex < len(e.chapters) {
		current = e.chapters[e.chapterIndex].ID
	}
	if v.ChapterID == current {
		return
	}

	idx := indexOf(e.chapters, v.ChapterID)
	if idx < 0 {
		// Unknown id: fall back to the reported index when usable.
		if v.Index < 0 || v.Index >= len(e.chapters) {
			e.log.WithField("chapter", v.ChapterID).Warn("chapter change for unknown chapter ignored")
			return
		}
		idx = v.Index
	}

	e.chapterIndex = idx
	e.position = 0
	e.duration = e.chapters[idx].Duration
	e.outroFired = false
	e.durationSaved = false
	e.persistLocked()
}

// handleSessionResetLocked recovers from a killed-and-respawned
// session: reported facts are gone, so the playlist is silently rebuilt
// at the last known chapter and position, paused, without autoplay.
func (e *Engine) handleSessionResetLocked() {
	e.playing = false
	if e.state == StatePlaying {
		e.state = StatePaused
	}
	e.tracker.Halt()

	lastPos := e.position
	e.position = 0
	e.duration = 0
	if e.book == nil {
		return
	}

	e.log.Info("session reset, reconstructing playlist")
	if err := e.reconstructLocked(lastPos); err != nil {
		e.log.WithError(err).Warn("session reconstruction failed")
		return
	}
	e.position = lastPos
}

// reconstructLocked resubmits the playlist at the current chapter
// without starting playback.
func (e *Engine) reconstructLocked(startPos time.Duration) error {
	if e.book == nil {
		return fmt.Errorf("reconstruct: no book loaded")
	}
	return e.backend.Load(backend.LoadRequest{
		Entries:       entriesFor(e.chapters),
		Artist:        e.book.Title,
		StartIndex:    e.chapterIndex,
		StartPosition: startPos,
		Speed:         e.speed,
		CoverArt:      e.coverArt,
	})
}

// commitListeningLocked moves the pending heartbeat span into the
// per-day stats bucket.
func (e *Engine) commitListeningLocked() {
	day, minutes, ok := e.tracker.Tick()
	if !ok {
		return
	}
	if err := e.store.AddListening(day, minutes); err != nil {
		e.log.WithError(err).Warn("recording listening time failed")
	}
}

// persistLocked writes the current progress. Failures are logged and
// swallowed: persistence must never interrupt playback.
func (e *Engine) persistLocked() {
	if e.book == nil || e.chapterIndex >= len(e.chapters) {
		return
	}
	p := store.Progress{
		BookID:    e.book.ID,
		ChapterID: e.chapters[e.chapterIndex].ID,
		Position:  e.position,
		Speed:     e.speed,
		UpdatedAt: e.now(),
	}
	if err := e.store.SaveProgress(p); err != nil {
		e.log.WithError(err).Warn("saving progress failed")
	}
	e.lastPersist = e.now()
}

func (e *Engine) saveSettingsLocked() {
	s := store.PlayerSettings{
		Speed:        e.speed,
		SkipEnabled:  e.skip.Enabled,
		SkipIntro:    e.skip.Intro,
		SkipOutro:    e.skip.Outro,
		VoiceEnhance: e.voiceEnhance,
	}
	if err := e.store.SavePlayerSettings(s); err != nil {
		e.log.WithError(err).Warn("saving player settings failed")
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	s := Snapshot{
		State:         e.state,
		Position:      e.position,
		Duration:      e.duration,
		Speed:         e.speed,
		VoiceEnhance:  e.voiceEnhance,
		Skip:          e.skip,
		SleepTimerEnd: e.sleepTimerEnd,
		Err:           e.errText,
	}
	if e.book != nil {
		s.BookID = e.book.ID
		s.BookTitle = e.book.Title
		s.ChapterIndex = e.chapterIndex
		s.ChapterCount = len(e.chapters)
		if e.chapterIndex < len(e.chapters) {
			ch := e.chapters[e.chapterIndex]
			s.ChapterID = ch.ID
			s.ChapterTitle = ch.Title
		}
	}
	return s
}

func entriesFor(chapters []store.Chapter) []backend.Entry {
	entries := make([]backend.Entry, len(chapters))
	for i, c := range chapters {
		entries[i] = backend.Entry{ID: c.ID, Title: c.Title, Path: c.AudioPath}
	}
	return entries
}

func indexOf(chapters []store.Chapter, id string) int {
	for i, c := range chapters {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func readCover(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
