// internal/app/view.go
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/harkaudio/hark/internal/engine"
	"github.com/harkaudio/hark/internal/ui/playerbar"
)

var (
	bookTitleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	panelStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 3)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.Mode == ViewPlayer {
		return m.playerView()
	}
	return m.libraryView()
}

func (m Model) libraryView() string {
	var b strings.Builder
	b.WriteString(m.BookList.View())

	if bar := playerbar.Render(m.Snap, m.Width); bar != "" {
		b.WriteString("\n")
		b.WriteString(bar)
	}
	if m.StatusMsg != "" {
		b.WriteString("\n")
		b.WriteString(statusLine(m.StatusMsg))
	}
	return b.String()
}

func (m Model) playerView() string {
	width := max(m.Width-10, 40)
	inner := width - 8

	var lines []string
	lines = append(lines, bookTitleStyle.Render(m.Snap.BookTitle))

	chapter := m.Snap.ChapterTitle
	if m.Snap.ChapterCount > 0 {
		chapter = fmt.Sprintf("Chapter %d/%d · %s", m.Snap.ChapterIndex+1, m.Snap.ChapterCount, chapter)
	}
	lines = append(lines, dimStyle.Render(chapter), "")

	playing := m.Snap.State == engine.StatePlaying
	lines = append(lines, playerbar.RenderProgressBar(m.Snap.Position, m.Snap.Duration, inner, playing), "")

	lines = append(lines, dimStyle.Render(strings.Join(m.settingsParts(), "   ")))
	lines = append(lines, dimStyle.Render(fmt.Sprintf("Listened today: %s min", humanize.FtoaWithDigits(m.TodayMinutes, 0))))

	if m.Snap.Err != "" {
		lines = append(lines, "", errorStyle.Render("Playback error: "+m.Snap.Err))
	}
	if m.StatusMsg != "" {
		lines = append(lines, "", statusLine(m.StatusMsg))
	}

	lines = append(lines, "", dimStyle.Render(playerHelp))

	return panelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) settingsParts() []string {
	parts := []string{fmt.Sprintf("%.1fx", m.Snap.Speed)}
	if m.Snap.VoiceEnhance {
		parts = append(parts, "voice boost")
	}
	if m.Snap.Skip.Enabled {
		parts = append(parts, "auto-skip")
	}
	if !m.Snap.SleepTimerEnd.IsZero() {
		remaining := time.Until(m.Snap.SleepTimerEnd)
		if remaining > 0 {
			parts = append(parts, "sleep in "+playerbar.FormatDuration(remaining))
		}
	}
	return parts
}

func statusLine(msg string) string {
	if strings.HasPrefix(msg, "Failed") {
		return errorStyle.Render(msg)
	}
	return dimStyle.Render(msg)
}

const playerHelp = "space play/pause · ←/→ seek · n/p chapter · +/- speed · s sleep · v voice · i skip · x stop · q back"
