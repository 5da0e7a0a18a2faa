package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	dbutil "github.com/harkaudio/hark/internal/db"
)

// Book is an audiobook: a titled collection of ordered chapters.
type Book struct {
	ID        string
	Title     string
	Author    string
	CoverPath string
	AddedAt   time.Time
}

// Chapter is one ordered audio segment of a book.
type Chapter struct {
	ID        string
	BookID    string
	Position  int // zero-based order within the book
	Title     string
	AudioPath string
	Duration  time.Duration // 0 until resolved during playback
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Books returns all books ordered by title.
func (m *Manager) Books() ([]Book, error) {
	rows, err := m.db.Query(`
		SELECT id, title, author, cover_path, added_at
		FROM books
		ORDER BY title COLLATE NOCASE
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// Book returns a single book by id.
func (m *Manager) Book(id string) (*Book, error) {
	row := m.db.QueryRow(`
		SELECT id, title, author, cover_path, added_at
		FROM books
		WHERE id = ?
	`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (Book, error) {
	var b Book
	var author, cover sql.NullString
	var addedAt int64
	if err := row.Scan(&b.ID, &b.Title, &author, &cover, &addedAt); err != nil {
		return Book{}, err
	}
	b.Author = dbutil.NullStringValue(author)
	b.CoverPath = dbutil.NullStringValue(cover)
	b.AddedAt = time.Unix(addedAt, 0)
	return b, nil
}

// ChaptersByBook returns the book's chapters ordered by position.
func (m *Manager) ChaptersByBook(bookID string) ([]Chapter, error) {
	rows, err := m.db.Query(`
		SELECT id, book_id, position, title, audio_path, duration_ms
		FROM chapters
		WHERE book_id = ?
		ORDER BY position
	`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chapters []Chapter
	for rows.Next() {
		var c Chapter
		var durationMs int64
		if err := rows.Scan(&c.ID, &c.BookID, &c.Position, &c.Title, &c.AudioPath, &durationMs); err != nil {
			return nil, err
		}
		c.Duration = time.Duration(durationMs) * time.Millisecond
		chapters = append(chapters, c)
	}
	return chapters, rows.Err()
}

// SaveBook inserts or replaces a book and its full chapter list.
// Chapter positions are rewritten from slice order.
func (m *Manager) SaveBook(book Book, chapters []Chapter) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		addedAt := book.AddedAt
		if addedAt.IsZero() {
			addedAt = time.Now()
		}
		_, err := tx.Exec(`
			INSERT INTO books (id, title, author, cover_path, added_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				author = excluded.author,
				cover_path = excluded.cover_path
		`, book.ID, book.Title, book.Author, book.CoverPath, addedAt.Unix())
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM chapters WHERE book_id = ?`, book.ID); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO chapters (id, book_id, position, title, audio_path, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, c := range chapters {
			_, err := stmt.Exec(c.ID, book.ID, i, c.Title, c.AudioPath, c.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SetChapterDuration records a chapter duration resolved during playback.
func (m *Manager) SetChapterDuration(chapterID string, d time.Duration) error {
	_, err := m.db.Exec(`UPDATE chapters SET duration_ms = ? WHERE id = ?`, d.Milliseconds(), chapterID)
	return err
}

// DeleteBook removes a book, its chapters and its progress record.
func (m *Manager) DeleteBook(id string) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM chapters WHERE book_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM progress WHERE book_id = ?`, id); err != nil {
			return err
		}
		_, err := tx.Exec(`DELETE FROM books WHERE id = ?`, id)
		return err
	})
}
