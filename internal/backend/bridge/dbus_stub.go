//go:build !linux

package bridge

import "errors"

// Dial is unavailable off Linux: there is no session bus to reach the
// media session over.
func Dial(_, _, _ string) (Conn, error) {
	return nil, errors.New("bridge backend requires a D-Bus session bus")
}
