// internal/app/update.go
package app

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harkaudio/hark/internal/engine"
	"github.com/harkaudio/hark/internal/errmsg"
	"github.com/harkaudio/hark/internal/ui/playerbar"
)

const (
	seekStep     = 10 * time.Second
	seekStepBig  = time.Minute
	speedStep    = 0.1
	minUserSpeed = 0.5
	maxUserSpeed = 3.0
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.BookList.SetSize(msg.Width, max(msg.Height-playerbar.Height-1, 1))
		return m, nil

	case SnapshotMsg:
		m.Snap = engine.Snapshot(msg)
		return m, tea.Batch(waitForSnapshot(m.Sub), loadTodayStats(m.Store))

	case StatsMsg:
		m.TodayMinutes = float64(msg)
		return m, nil

	case ScanDoneMsg:
		if msg.Err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpLibraryScan, msg.Err)
			return m, nil
		}
		m.StatusMsg = fmt.Sprintf("Library scan finished: %d books", msg.Books)
		items, err := bookItems(m.Store)
		if err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpLibraryLoad, err)
			return m, nil
		}
		return m, m.BookList.SetItems(items)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.Mode == ViewLibrary {
		var cmd tea.Cmd
		m.BookList, cmd = m.BookList.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed filter input takes priority over every binding.
	if m.Mode == ViewLibrary && m.BookList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.BookList, cmd = m.BookList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.Mode == ViewPlayer {
			m.Mode = ViewLibrary
			return m, nil
		}
		return m, tea.Quit
	}

	if m.Mode == ViewLibrary {
		return m.handleLibraryKey(msg)
	}
	return m.handlePlayerKey(msg)
}

func (m Model) handleLibraryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		item, ok := m.BookList.SelectedItem().(bookItem)
		if !ok {
			return m, nil
		}
		m.StatusMsg = ""
		if err := m.Engine.OpenBook(item.book.ID); err != nil {
			m.StatusMsg = errmsg.FormatWith(errmsg.OpBookOpen, item.book.Title, err)
			return m, nil
		}
		if err := m.Engine.Play(); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackStart, err)
		}
		m.Mode = ViewPlayer
		return m, nil

	case "R":
		m.StatusMsg = "Scanning library..."
		return m, runScan(m.Scanner)
	}

	var cmd tea.Cmd
	m.BookList, cmd = m.BookList.Update(msg)
	return m, cmd
}

func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.StatusMsg = ""

	switch msg.String() {
	case "esc":
		m.Mode = ViewLibrary

	case " ":
		if err := m.Engine.Toggle(); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackStart, err)
		}

	case "left", "h":
		if err := m.Engine.SeekBy(-seekStep); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
	case "right", "l":
		if err := m.Engine.SeekBy(seekStep); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
	case "shift+left", "H":
		if err := m.Engine.SeekBy(-seekStepBig); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
	case "shift+right", "L":
		if err := m.Engine.SeekBy(seekStepBig); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}

	case "n", "pgdown":
		if err := m.Engine.NextChapter(); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}
	case "p", "pgup":
		if err := m.Engine.PreviousChapter(); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackSeek, err)
		}

	case "+", "=":
		m = m.adjustSpeed(speedStep)
	case "-":
		m = m.adjustSpeed(-speedStep)

	case "s":
		m.SleepStep = (m.SleepStep + 1) % len(sleepSteps)
		d := sleepSteps[m.SleepStep]
		m.Engine.SetSleepTimer(d)
		if d == 0 {
			m.StatusMsg = "Sleep timer off"
		} else {
			m.StatusMsg = fmt.Sprintf("Sleep timer: %d min", int(d.Minutes()))
		}

	case "v":
		if err := m.Engine.SetVoiceEnhance(!m.Snap.VoiceEnhance); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackStart, err)
		}

	case "i":
		enabled := !m.Snap.Skip.Enabled
		_ = m.Engine.SetSkipSettings(engine.SkipUpdate{Enabled: &enabled})

	case "x":
		if err := m.Engine.Stop(); err != nil {
			m.StatusMsg = errmsg.Format(errmsg.OpPlaybackStop, err)
		}
		m.Mode = ViewLibrary
	}

	return m, nil
}

func (m Model) adjustSpeed(delta float64) Model {
	speed := math.Round((m.Snap.Speed+delta)*10) / 10
	if speed < minUserSpeed || speed > maxUserSpeed {
		return m
	}
	if err := m.Engine.SetSpeed(speed); err != nil {
		m.StatusMsg = errmsg.Format(errmsg.OpSpeedSet, err)
	}
	return m
}
