// internal/app/messages.go
package app

import "github.com/harkaudio/hark/internal/engine"

// SnapshotMsg carries an engine state update into the TUI loop.
type SnapshotMsg engine.Snapshot

// StatsMsg carries today's listening minutes.
type StatsMsg float64

// ScanDoneMsg reports a finished library rescan.
type ScanDoneMsg struct {
	Books int
	Err   error
}
