package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Backend kinds selectable at startup. The choice is made once when the
// engine is constructed and never changes at runtime.
const (
	BackendLocal  = "local"
	BackendBridge = "bridge"
)

type Config struct {
	LibraryRoot string `koanf:"library_root"` // folder whose subdirectories are books
	Backend     string `koanf:"backend"`      // "local" or "bridge"

	Playback PlaybackConfig `koanf:"playback"`
	Bridge   BridgeConfig   `koanf:"bridge"`
	Logs     LogsConfig     `koanf:"logs"`
}

// PlaybackConfig holds engine defaults applied when no saved player settings exist.
type PlaybackConfig struct {
	Speed            float64 `koanf:"speed"`              // default rate multiplier
	SkipEnabled      bool    `koanf:"skip_enabled"`       // intro/outro auto-skip
	SkipIntroSeconds int     `koanf:"skip_intro_seconds"` // seconds skipped at chapter start
	SkipOutroSeconds int     `koanf:"skip_outro_seconds"` // seconds trimmed at chapter end
	PersistSeconds   int     `koanf:"persist_seconds"`    // progress persist cadence while playing
}

// BridgeConfig holds the D-Bus names of the out-of-process media session.
type BridgeConfig struct {
	Destination string `koanf:"destination"` // bus name, e.g. "dev.hark.Session"
	ObjectPath  string `koanf:"object_path"` // e.g. "/dev/hark/Session1"
	Interface   string `koanf:"interface"`   // e.g. "dev.hark.MediaSession1"
}

// LogsConfig controls file logging.
type LogsConfig struct {
	Write bool   `koanf:"write"` // disabled by default
	Level string `koanf:"level"` // logrus level name
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{
		Backend: BackendLocal,
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.LibraryRoot != "" {
		cfg.LibraryRoot = expandPath(cfg.LibraryRoot)
	}

	if cfg.Backend != BackendLocal && cfg.Backend != BackendBridge {
		cfg.Backend = BackendLocal
	}

	applyDefaults(cfg)

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.LibraryRoot == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.LibraryRoot = filepath.Join(home, "Audiobooks")
		}
	}

	if cfg.Playback.Speed <= 0 || cfg.Playback.Speed > 4 {
		cfg.Playback.Speed = 1.0
	}
	if cfg.Playback.SkipIntroSeconds < 0 {
		cfg.Playback.SkipIntroSeconds = 0
	}
	if cfg.Playback.SkipOutroSeconds < 0 {
		cfg.Playback.SkipOutroSeconds = 0
	}
	if cfg.Playback.PersistSeconds <= 0 {
		cfg.Playback.PersistSeconds = 5
	}

	if cfg.Bridge.Destination == "" {
		cfg.Bridge.Destination = "dev.hark.Session"
	}
	if cfg.Bridge.ObjectPath == "" {
		cfg.Bridge.ObjectPath = "/dev/hark/Session1"
	}
	if cfg.Bridge.Interface == "" {
		cfg.Bridge.Interface = "dev.hark.MediaSession1"
	}

	if cfg.Logs.Level == "" {
		cfg.Logs.Level = "info"
	}
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/hark/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "hark", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
