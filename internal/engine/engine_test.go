package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harkaudio/hark/internal/backend"
	"github.com/harkaudio/hark/internal/stats"
	"github.com/harkaudio/hark/internal/store"
)

const (
	waitFor  = 2 * time.Second
	pollTick = 2 * time.Millisecond
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func ptr[T any](v T) *T { return &v }

func seedBook(st *store.Mock) {
	_ = st.SaveBook(
		store.Book{ID: "bk", Title: "The Hobbit"},
		[]store.Chapter{
			{ID: "ch1", Title: "An Unexpected Party", AudioPath: "/b/01.mp3"},
			{ID: "ch2", Title: "Roast Mutton", AudioPath: "/b/02.mp3"},
			{ID: "ch3", Title: "A Short Rest", AudioPath: "/b/03.mp3"},
		},
	)
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *backend.Mock, *store.Mock) {
	t.Helper()
	b := backend.NewMock()
	st := store.NewMock()
	seedBook(st)
	e := New(b, st, opts)
	t.Cleanup(func() { _ = e.Close() })
	return e, b, st
}

// waitSnapshot blocks until the engine's snapshot satisfies pred.
func waitSnapshot(t *testing.T, e *Engine, pred func(Snapshot) bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		return pred(e.Snapshot())
	}, waitFor, pollTick)
}

func TestLoadChapter(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})

	require.NoError(t, e.LoadChapter("bk", "ch2", 0))

	calls := b.LoadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].StartIndex)
	assert.Equal(t, "The Hobbit", calls[0].Artist)
	assert.Len(t, calls[0].Entries, 3)

	snap := e.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, "ch2", snap.ChapterID)
	assert.Equal(t, "Roast Mutton", snap.ChapterTitle)
	assert.Equal(t, 3, snap.ChapterCount)

	// Loading never autoplays.
	assert.Zero(t, b.PlayCalls())
	// Progress is written on every chapter change, loads included.
	assert.Equal(t, 1, st.ProgressSaves())
}

func TestLoadChapter_UnknownChapterLeavesStateUntouched(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})

	require.Error(t, e.LoadChapter("bk", "nope", 0))
	assert.Empty(t, b.LoadCalls())
	assert.Equal(t, StateIdle, e.Snapshot().State)
}

func TestLoadChapter_BackendFailureRestoresState(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	b.SetLoadError(errors.New("decoder unavailable"))

	require.Error(t, e.LoadChapter("bk", "ch1", 0))
	snap := e.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.BookID)

	b.SetLoadError(nil)
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	assert.Equal(t, StatePaused, e.Snapshot().State)
}

func TestIntroSkip_FreshPlayOnly(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.SetSkipSettings(SkipUpdate{
		Enabled: ptr(true),
		Intro:   ptr(30 * time.Second),
	}))

	// Fresh play from zero starts past the intro.
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	calls := b.LoadCalls()
	assert.Equal(t, 30*time.Second, calls[len(calls)-1].StartPosition)
	assert.Equal(t, 30*time.Second, e.Snapshot().Position)

	// An explicit resume position is never overridden.
	require.NoError(t, e.LoadChapter("bk", "ch1", 42*time.Second))
	calls = b.LoadCalls()
	assert.Equal(t, 42*time.Second, calls[len(calls)-1].StartPosition)
}

func TestOutroSkip_FiresExactlyOnce(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.SetSkipSettings(SkipUpdate{
		Enabled: ptr(true),
		Outro:   ptr(15 * time.Second),
	}))

	var fired atomic.Int32
	e.OnChapterEnd(func() { fired.Add(1) })

	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	for _, sec := range []int{80, 83, 86, 90, 95, 99} {
		b.Emit(backend.PositionUpdate{
			Position: time.Duration(sec) * time.Second,
			Duration: 100 * time.Second,
		})
	}
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Position == 99*time.Second })

	assert.Equal(t, int32(1), fired.Load())

	// A fresh chapter load re-arms the check.
	require.NoError(t, e.LoadChapter("bk", "ch2", 0))
	b.Emit(backend.PositionUpdate{Position: 90 * time.Second, Duration: 100 * time.Second})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Position == 90*time.Second })
	assert.Equal(t, int32(2), fired.Load())
}

func TestChapterChanged_DuplicateDeliveryIsIdempotent(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Seek(30*time.Second))
	st.ResetProgressSaves()

	b.Emit(backend.ChapterChanged{Index: 1, ChapterID: "ch2"})
	b.Emit(backend.ChapterChanged{Index: 1, ChapterID: "ch2"})
	// Sentinel to prove both were consumed.
	b.Emit(backend.PositionUpdate{Position: 7 * time.Second})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Position == 7*time.Second })

	snap := e.Snapshot()
	assert.Equal(t, "ch2", snap.ChapterID)
	assert.Equal(t, 1, snap.ChapterIndex)
	assert.Equal(t, 1, st.ProgressSaves())
}

func TestChapterChanged_SyntheticEchoIgnored(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Seek(30*time.Second))
	st.ResetProgressSaves()

	// The session echoes the chapter it was just loaded with.
	b.Emit(backend.ChapterChanged{Index: 0, ChapterID: "ch1"})
	b.Emit(backend.PositionUpdate{Position: 31 * time.Second})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Position == 31*time.Second })

	assert.Equal(t, "ch1", e.Snapshot().ChapterID)
	assert.Zero(t, st.ProgressSaves())
}

func TestSessionReset_ReconstructsOnceBeforePlay(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch2", 0))
	require.NoError(t, e.Seek(42*time.Second))

	b.Emit(backend.SessionReset{})
	require.Eventually(t, func() bool {
		return len(b.LoadCalls()) == 2
	}, waitFor, pollTick)

	reload := b.LoadCalls()[1]
	assert.Equal(t, 1, reload.StartIndex)
	assert.Equal(t, 42*time.Second, reload.StartPosition)
	// Reconstruction is silent, no autoplay.
	assert.Zero(t, b.PlayCalls())
	assert.Equal(t, StatePaused, e.Snapshot().State)

	require.NoError(t, e.Play())
	assert.Len(t, b.LoadCalls(), 2)
	assert.Equal(t, 1, b.PlayCalls())
}

func TestPlay_ReloadsColdSession(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Seek(10*time.Second))

	// The session died without a reset signal reaching us.
	b.SetState(backend.State{})

	require.NoError(t, e.Play())
	calls := b.LoadCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, 10*time.Second, calls[1].StartPosition)
	assert.Equal(t, 1, b.PlayCalls())
}

func TestResumeForeground_ProbesLiveness(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{SettleDelay: 5 * time.Millisecond})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	b.SetState(backend.State{})
	e.ResumeForeground()

	require.Eventually(t, func() bool {
		return len(b.LoadCalls()) == 2
	}, waitFor, pollTick)
	assert.Zero(t, b.PlayCalls())
}

func TestResumeForeground_LiveSessionUntouched(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{SettleDelay: 5 * time.Millisecond})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	e.ResumeForeground()
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, b.LoadCalls(), 1)
}

func TestSpeed_CarriesIntoNextLoad(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.SetSpeed(1.5))

	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	calls := b.LoadCalls()
	assert.Equal(t, 1.5, calls[len(calls)-1].Speed)
	assert.Equal(t, 1.5, e.Snapshot().Speed)

	settings, err := st.PlayerSettings()
	require.NoError(t, err)
	assert.Equal(t, 1.5, settings.Speed)
}

func TestSetSpeed_RejectsOutOfRange(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	assert.Error(t, e.SetSpeed(0))
	assert.Error(t, e.SetSpeed(-1))
	assert.Error(t, e.SetSpeed(5))
	assert.Empty(t, b.SpeedCalls())
}

func TestSeek_Clamps(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	b.Emit(backend.PositionUpdate{Position: 10 * time.Second, Duration: 100 * time.Second})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Duration == 100*time.Second })

	require.NoError(t, e.Seek(150*time.Second))
	seeks := b.SeekCalls()
	assert.Equal(t, 100*time.Second, seeks[len(seeks)-1])

	require.NoError(t, e.Seek(-5*time.Second))
	seeks = b.SeekCalls()
	assert.Equal(t, time.Duration(0), seeks[len(seeks)-1])
}

func TestSleepTimer_PausesWhenItFires(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())

	e.SetSleepTimer(10 * time.Millisecond)
	assert.False(t, e.Snapshot().SleepTimerEnd.IsZero())

	require.Eventually(t, func() bool {
		return b.PauseCalls() == 1
	}, waitFor, pollTick)
	assert.True(t, e.Snapshot().SleepTimerEnd.IsZero())
	assert.Equal(t, StatePaused, e.Snapshot().State)
}

func TestSleepTimer_CancelledTimerNeverPauses(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())

	e.SetSleepTimer(30 * time.Millisecond)
	e.SetSleepTimer(0)
	assert.True(t, e.Snapshot().SleepTimerEnd.IsZero())

	time.Sleep(80 * time.Millisecond)
	assert.Zero(t, b.PauseCalls())
	assert.Equal(t, StatePlaying, e.Snapshot().State)
}

func TestPause_CommitsListeningTime(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	e, _, st := newTestEngine(t, Options{Clock: clock.now})

	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())

	clock.advance(10 * time.Minute)
	require.NoError(t, e.Pause())

	minutes, err := st.Listening(stats.DayKey(clock.now()))
	require.NoError(t, err)
	assert.InDelta(t, 10.0, minutes, 0.01)
}

func TestPause_FlushesProgressImmediately(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())
	st.ResetProgressSaves()

	require.NoError(t, e.Pause())
	assert.GreaterOrEqual(t, st.ProgressSaves(), 1)
	assert.Equal(t, 1, b.PauseCalls())
}

func TestCompleted_FiresChapterEnd(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	var fired atomic.Int32
	e.OnChapterEnd(func() { fired.Add(1) })

	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())

	b.Emit(backend.PlayingChanged{Playing: false})
	b.Emit(backend.Completed{})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.State == StatePaused })

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, waitFor, pollTick)
}

func TestErrorEvent_PausesAndSurfaces(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.NoError(t, e.Play())

	b.Emit(backend.Error{Message: "decoder died"})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Err != "" })

	snap := e.Snapshot()
	assert.Equal(t, "decoder died", snap.Err)
	assert.Equal(t, StatePaused, snap.State)

	// The next successful play clears the error.
	require.NoError(t, e.Play())
	assert.Empty(t, e.Snapshot().Err)
}

func TestVoiceCommand_Forwarded(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	got := make(chan string, 1)
	e.OnVoiceCommand(func(q string) { got <- q })

	b.Emit(backend.VoiceCommand{Query: "play the hobbit"})

	select {
	case q := <-got:
		assert.Equal(t, "play the hobbit", q)
	case <-time.After(waitFor):
		t.Fatal("voice command never arrived")
	}
}

func TestDuration_SavedOncePerChapter(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	b.Emit(backend.PositionUpdate{Position: 5 * time.Second, Duration: 100 * time.Second})
	b.Emit(backend.PositionUpdate{Position: 6 * time.Second, Duration: 100 * time.Second})
	waitSnapshot(t, e, func(s Snapshot) bool { return s.Position == 6*time.Second })

	chapters, err := st.ChaptersByBook("bk")
	require.NoError(t, err)
	assert.Equal(t, 100*time.Second, chapters[0].Duration)
}

func TestOpenBook_ResumesFromProgress(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	st.SetProgress(store.Progress{
		BookID:    "bk",
		ChapterID: "ch2",
		Position:  90 * time.Second,
		Speed:     1.25,
	})

	require.NoError(t, e.OpenBook("bk"))
	calls := b.LoadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].StartIndex)
	assert.Equal(t, 90*time.Second, calls[0].StartPosition)
	assert.Equal(t, 1.25, calls[0].Speed)
}

func TestOpenBook_NoProgressStartsAtFirstChapter(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.NoError(t, e.OpenBook("bk"))

	calls := b.LoadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0, calls[0].StartIndex)
	assert.Zero(t, calls[0].StartPosition)
}

func TestOpenBook_ProgressFailureFallsBackToStart(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	st.ProgressErr = errors.New("table corrupted")

	require.NoError(t, e.OpenBook("bk"))
	calls := b.LoadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0, calls[0].StartIndex)
}

func TestStop_ReturnsToIdle(t *testing.T) {
	e, b, st := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch2", 0))
	require.NoError(t, e.Play())
	st.ResetProgressSaves()

	require.NoError(t, e.Stop())

	snap := e.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Empty(t, snap.BookID)
	assert.Zero(t, snap.Position)
	assert.Equal(t, 1, b.StopCalls())
	assert.GreaterOrEqual(t, st.ProgressSaves(), 1)

	// The engine stays usable after a stop.
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	assert.Equal(t, StatePaused, e.Snapshot().State)
}

func TestChapterNavigation(t *testing.T) {
	e, _, _ := newTestEngine(t, Options{})
	require.NoError(t, e.LoadChapter("bk", "ch1", 0))

	require.NoError(t, e.NextChapter())
	assert.Equal(t, "ch2", e.Snapshot().ChapterID)

	require.NoError(t, e.PreviousChapter())
	assert.Equal(t, "ch1", e.Snapshot().ChapterID)

	require.Error(t, e.PreviousChapter())
	assert.Equal(t, "ch1", e.Snapshot().ChapterID)
}

func TestPlay_NothingLoaded(t *testing.T) {
	e, b, _ := newTestEngine(t, Options{})
	require.Error(t, e.Play())
	assert.Zero(t, b.PlayCalls())
}

func TestSubscription_ReceivesUpdates(t *testing.T) {
	e, _, _ := newTestEngine(t, Options{})
	sub := e.Subscribe()
	defer e.Unsubscribe(sub)

	// Primed with the current state.
	select {
	case snap := <-sub.C:
		assert.Equal(t, StateIdle, snap.State)
	case <-time.After(waitFor):
		t.Fatal("no primed snapshot")
	}

	require.NoError(t, e.LoadChapter("bk", "ch1", 0))
	require.Eventually(t, func() bool {
		select {
		case snap := <-sub.C:
			return snap.State == StatePaused && snap.ChapterID == "ch1"
		default:
			return false
		}
	}, waitFor, pollTick)
}

func TestNew_RestoresSavedSettings(t *testing.T) {
	b := backend.NewMock()
	st := store.NewMock()
	seedBook(st)
	require.NoError(t, st.SavePlayerSettings(store.PlayerSettings{
		Speed:       2.0,
		SkipEnabled: true,
		SkipIntro:   20 * time.Second,
		SkipOutro:   10 * time.Second,
	}))

	e := New(b, st, Options{})
	t.Cleanup(func() { _ = e.Close() })

	snap := e.Snapshot()
	assert.Equal(t, 2.0, snap.Speed)
	assert.True(t, snap.Skip.Enabled)
	assert.Equal(t, 20*time.Second, snap.Skip.Intro)
	assert.Equal(t, 10*time.Second, snap.Skip.Outro)
}
