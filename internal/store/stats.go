package store

import (
	"database/sql"
	"errors"
)

// DayMinutes is one per-day listening stat bucket.
type DayMinutes struct {
	Day     string // YYYY-MM-DD
	Minutes float64
}

// AddListening adds minutes to the given day's bucket. Buckets only ever
// grow; callers are responsible for rejecting implausible increments
// before they reach the store.
func (m *Manager) AddListening(day string, minutes float64) error {
	if minutes <= 0 {
		return nil
	}
	_, err := m.db.Exec(`
		INSERT INTO listening_stats (day, minutes)
		VALUES (?, ?)
		ON CONFLICT(day) DO UPDATE SET
			minutes = minutes + excluded.minutes
	`, day, minutes)
	return err
}

// Listening returns the minutes accumulated for a day (0 when absent).
func (m *Manager) Listening(day string) (float64, error) {
	var minutes float64
	err := m.db.QueryRow(`SELECT minutes FROM listening_stats WHERE day = ?`, day).Scan(&minutes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return minutes, nil
}

// RecentListening returns up to n day buckets, most recent first.
func (m *Manager) RecentListening(n int) ([]DayMinutes, error) {
	rows, err := m.db.Query(`
		SELECT day, minutes
		FROM listening_stats
		ORDER BY day DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DayMinutes
	for rows.Next() {
		var d DayMinutes
		if err := rows.Scan(&d.Day, &d.Minutes); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
