// Package playerbar renders the playback status line and progress bar.
package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/harkaudio/hark/internal/engine"
)

// Height is the rendered height of the compact bar, borders included.
const Height = 3

const (
	playSymbol  = "▶"
	pauseSymbol = "⏸"
	filledBlock = "▓"
	emptyBlock  = "░"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	metaStyle  = lipgloss.NewStyle().Faint(true)
	barStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

// Render returns the compact status line for the bottom of the library
// view: chapter title, chapter counter, state symbol, progress and
// times. Empty when nothing is loaded.
func Render(s engine.Snapshot, width int) string {
	if s.State == engine.StateIdle {
		return ""
	}

	status := playSymbol
	if s.State != engine.StatePlaying {
		status = pauseSymbol
	}

	title := s.ChapterTitle
	if title == "" {
		title = "Unknown Chapter"
	}
	counter := ""
	if s.ChapterCount > 0 {
		counter = fmt.Sprintf("%d/%d", s.ChapterIndex+1, s.ChapterCount)
	}
	timeStr := fmt.Sprintf("%s / %s", FormatDuration(s.Position), FormatDuration(s.Duration))

	innerWidth := max(width-6, 0)
	sep := "   "
	fixed := lipgloss.Width(status) + 2 + lipgloss.Width(timeStr) + lipgloss.Width(counter) + 3*lipgloss.Width(sep)
	maxTitle := max(innerWidth-fixed-minBarWidth, 10)
	title = truncate(title, maxTitle)

	barWidth := max(innerWidth-lipgloss.Width(title)-lipgloss.Width(counter)-fixed+minBarWidth, minBarWidth)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	if counter != "" {
		b.WriteString(sep)
		b.WriteString(metaStyle.Render(counter))
	}
	b.WriteString(sep)
	b.WriteString(status)
	b.WriteString("  ")
	b.WriteString(bar(s.Position, s.Duration, barWidth))
	b.WriteString(sep)
	b.WriteString(metaStyle.Render(timeStr))

	return barStyle.Width(width - 2).Render(b.String())
}

const minBarWidth = 10

// RenderProgressBar renders a block-style progress bar.
// Format: ▶  1:23  ▓▓▓▓▓░░░░░  1:04:56
func RenderProgressBar(position, duration time.Duration, width int, playing bool) string {
	status := playSymbol
	if !playing {
		status = pauseSymbol
	}

	posStr := FormatDuration(position)
	durStr := FormatDuration(duration)

	fixedWidth := lipgloss.Width(status) + 2 + lipgloss.Width(posStr) + 2 + 2 + lipgloss.Width(durStr)
	barWidth := width - fixedWidth

	if barWidth < 3 {
		return status + "  " + posStr + " / " + durStr
	}

	return status + "  " + posStr + "  " + bar(position, duration, barWidth) + "  " + durStr
}

func bar(position, duration time.Duration, width int) string {
	var ratio float64
	if duration > 0 {
		ratio = float64(position) / float64(duration)
	}
	filled := min(int(float64(width)*ratio), width)
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

// FormatDuration renders h:mm:ss, dropping the hour part when zero.
// Audiobook chapters regularly run past an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func truncate(s string, maxWidth int) string {
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	if maxWidth <= 1 {
		return "…"
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
