package store

import (
	"database/sql"
	"errors"
	"time"
)

// Progress is the resume point for a book: the last listened chapter and
// offset. One record per book, overwritten on every save.
type Progress struct {
	BookID    string
	ChapterID string
	Position  time.Duration
	Speed     float64
	UpdatedAt time.Time
}

// Progress returns the saved resume point for a book, or nil when the
// book has never been listened to.
func (m *Manager) Progress(bookID string) (*Progress, error) {
	var p Progress
	var positionMs, updatedAt int64
	row := m.db.QueryRow(`
		SELECT book_id, chapter_id, position_ms, speed, updated_at
		FROM progress
		WHERE book_id = ?
	`, bookID)
	err := row.Scan(&p.BookID, &p.ChapterID, &positionMs, &p.Speed, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.Position = time.Duration(positionMs) * time.Millisecond
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// SaveProgress creates or overwrites the book's resume point.
func (m *Manager) SaveProgress(p Progress) error {
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := m.db.Exec(`
		INSERT INTO progress (book_id, chapter_id, position_ms, speed, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(book_id) DO UPDATE SET
			chapter_id = excluded.chapter_id,
			position_ms = excluded.position_ms,
			speed = excluded.speed,
			updated_at = excluded.updated_at
	`, p.BookID, p.ChapterID, p.Position.Milliseconds(), p.Speed, updatedAt.Unix())
	return err
}
