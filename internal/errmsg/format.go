// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Playback operations
	OpPlaybackLoad  Op = "load chapter"
	OpPlaybackStart Op = "start playback"
	OpPlaybackPause Op = "pause playback"
	OpPlaybackSeek  Op = "seek"
	OpPlaybackStop  Op = "stop playback"
	OpSpeedSet      Op = "set playback speed"
	OpSleepTimerSet Op = "set sleep timer"

	// Progress and stats
	OpProgressSave Op = "save listening progress"
	OpProgressLoad Op = "load listening progress"
	OpStatsSave    Op = "record listening time"
	OpStatsLoad    Op = "load listening stats"

	// Library operations
	OpLibraryScan Op = "scan library"
	OpLibraryLoad Op = "load library"
	OpBookOpen    Op = "open book"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
