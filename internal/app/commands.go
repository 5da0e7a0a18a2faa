// internal/app/commands.go
package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harkaudio/hark/internal/engine"
	"github.com/harkaudio/hark/internal/library"
	"github.com/harkaudio/hark/internal/stats"
	"github.com/harkaudio/hark/internal/store"
)

// waitForSnapshot blocks on the engine subscription and re-arms itself
// from Update after every delivery.
func waitForSnapshot(sub *engine.Subscription) tea.Cmd {
	return func() tea.Msg {
		return SnapshotMsg(<-sub.C)
	}
}

func loadTodayStats(st store.Interface) tea.Cmd {
	return func() tea.Msg {
		minutes, err := st.Listening(stats.DayKey(time.Now()))
		if err != nil {
			return StatsMsg(0)
		}
		return StatsMsg(minutes)
	}
}

func runScan(s *library.Scanner) tea.Cmd {
	return func() tea.Msg {
		n, err := s.Scan()
		return ScanDoneMsg{Books: n, Err: err}
	}
}
