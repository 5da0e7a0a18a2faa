package playerbar

import (
	"strings"
	"testing"
	"time"

	"github.com/harkaudio/hark/internal/engine"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{83 * time.Second, "1:23"},
		{time.Hour + 4*time.Minute + 56*time.Second, "1:04:56"},
		{-time.Second, "0:00"},
	}
	for _, c := range cases {
		if got := FormatDuration(c.in); got != c.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestRenderProgressBar(t *testing.T) {
	out := RenderProgressBar(30*time.Second, 60*time.Second, 40, true)
	if !strings.Contains(out, "▶") {
		t.Errorf("missing play symbol: %q", out)
	}
	if !strings.Contains(out, filledBlock) || !strings.Contains(out, emptyBlock) {
		t.Errorf("bar not half filled: %q", out)
	}

	out = RenderProgressBar(0, 0, 40, false)
	if !strings.Contains(out, "⏸") {
		t.Errorf("missing pause symbol: %q", out)
	}
	if strings.Contains(out, filledBlock) {
		t.Errorf("zero duration should render an empty bar: %q", out)
	}
}

func TestRenderProgressBar_NarrowWidth(t *testing.T) {
	out := RenderProgressBar(5*time.Second, 10*time.Second, 8, true)
	if strings.Contains(out, filledBlock) {
		t.Errorf("narrow render should drop the bar: %q", out)
	}
	if !strings.Contains(out, "0:05") {
		t.Errorf("narrow render should keep times: %q", out)
	}
}

func TestRender_IdleIsEmpty(t *testing.T) {
	if out := Render(engine.Snapshot{State: engine.StateIdle}, 80); out != "" {
		t.Errorf("idle snapshot rendered %q", out)
	}
}

func TestRender_ShowsChapterCounter(t *testing.T) {
	out := Render(engine.Snapshot{
		State:        engine.StatePaused,
		ChapterTitle: "Roast Mutton",
		ChapterIndex: 1,
		ChapterCount: 19,
		Position:     30 * time.Second,
		Duration:     90 * time.Second,
	}, 100)
	if !strings.Contains(out, "Roast Mutton") {
		t.Errorf("missing chapter title: %q", out)
	}
	if !strings.Contains(out, "2/19") {
		t.Errorf("missing chapter counter: %q", out)
	}
}
