// Package log configures file-backed logging for the application.
//
// The TUI owns stdout/stderr, so logs go to a dated file under the XDG
// state directory. When logging is disabled every emission is discarded.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
)

// Setup initializes the logging subsystem from config values.
// With write=false all output is discarded.
func Setup(write bool, level string) error {
	if !write {
		logrus.SetOutput(io.Discard)
		return nil
	}

	path, err := xdg.StateFile(filepath.Join("hark", fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))))
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)

	return nil
}

// WithComponent returns an entry tagged with the originating component.
func WithComponent(name string) *logrus.Entry {
	return logrus.WithField("component", name)
}
