// internal/app/keymap.go
package app

// KeyBinding describes a single key binding for documentation.
type KeyBinding struct {
	Keys        []string
	Description string
	Context     string // "global", "library", "player"
}

// KeyMap contains all key bindings for help generation.
var KeyMap = []KeyBinding{
	// Global
	{[]string{"ctrl+c"}, "Quit application", "global"},

	// Library
	{[]string{"j", "down"}, "Move down", "library"},
	{[]string{"k", "up"}, "Move up", "library"},
	{[]string{"/"}, "Filter books", "library"},
	{[]string{"enter"}, "Open book and play", "library"},
	{[]string{"R"}, "Rescan library", "library"},
	{[]string{"q"}, "Quit", "library"},

	// Player
	{[]string{"space"}, "Play/pause", "player"},
	{[]string{"left", "h"}, "Seek -10s", "player"},
	{[]string{"right", "l"}, "Seek +10s", "player"},
	{[]string{"shift+left", "H"}, "Seek -1m", "player"},
	{[]string{"shift+right", "L"}, "Seek +1m", "player"},
	{[]string{"n", "pgdown"}, "Next chapter", "player"},
	{[]string{"p", "pgup"}, "Previous chapter", "player"},
	{[]string{"+", "="}, "Speed up", "player"},
	{[]string{"-"}, "Slow down", "player"},
	{[]string{"s"}, "Cycle sleep timer", "player"},
	{[]string{"v"}, "Toggle voice boost", "player"},
	{[]string{"i"}, "Toggle intro/outro skip", "player"},
	{[]string{"x"}, "Stop playback", "player"},
	{[]string{"q", "esc"}, "Back to library", "player"},
}

// KeysByContext returns key bindings filtered by context.
func KeysByContext(context string) []KeyBinding {
	var result []KeyBinding
	for _, kb := range KeyMap {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
