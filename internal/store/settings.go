package store

import (
	"database/sql"
	"errors"
	"time"
)

// PlayerSettings is the singleton row of user-tunable playback settings.
// Skip settings take effect on the next outro check or fresh chapter load,
// not retroactively mid-chapter.
type PlayerSettings struct {
	Speed        float64
	SkipEnabled  bool
	SkipIntro    time.Duration
	SkipOutro    time.Duration
	VoiceEnhance bool
}

// DefaultPlayerSettings are used before the user saves anything.
func DefaultPlayerSettings() PlayerSettings {
	return PlayerSettings{Speed: 1.0}
}

// HasPlayerSettings reports whether the user ever saved settings.
// Config-file defaults only apply while this is false.
func (m *Manager) HasPlayerSettings() (bool, error) {
	var n int
	if err := m.db.QueryRow(`SELECT COUNT(*) FROM player_settings WHERE id = 1`).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// PlayerSettings returns the saved settings, or defaults when absent.
func (m *Manager) PlayerSettings() (PlayerSettings, error) {
	var s PlayerSettings
	var introMs, outroMs int64
	row := m.db.QueryRow(`
		SELECT speed, skip_enabled, skip_intro_ms, skip_outro_ms, voice_enhance
		FROM player_settings
		WHERE id = 1
	`)
	err := row.Scan(&s.Speed, &s.SkipEnabled, &introMs, &outroMs, &s.VoiceEnhance)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultPlayerSettings(), nil
	}
	if err != nil {
		return PlayerSettings{}, err
	}
	s.SkipIntro = time.Duration(introMs) * time.Millisecond
	s.SkipOutro = time.Duration(outroMs) * time.Millisecond
	return s, nil
}

// SavePlayerSettings overwrites the singleton settings row.
func (m *Manager) SavePlayerSettings(s PlayerSettings) error {
	_, err := m.db.Exec(`
		INSERT INTO player_settings (id, speed, skip_enabled, skip_intro_ms, skip_outro_ms, voice_enhance)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			speed = excluded.speed,
			skip_enabled = excluded.skip_enabled,
			skip_intro_ms = excluded.skip_intro_ms,
			skip_outro_ms = excluded.skip_outro_ms,
			voice_enhance = excluded.voice_enhance
	`, s.Speed, s.SkipEnabled, s.SkipIntro.Milliseconds(), s.SkipOutro.Milliseconds(), s.VoiceEnhance)
	return err
}
