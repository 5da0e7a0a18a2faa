// internal/store/interface.go
package store

import (
	"database/sql"
	"time"
)

// Interface defines the store contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB

	Books() ([]Book, error)
	Book(id string) (*Book, error)
	ChaptersByBook(bookID string) ([]Chapter, error)
	SaveBook(book Book, chapters []Chapter) error
	SetChapterDuration(chapterID string, d time.Duration) error
	DeleteBook(id string) error

	Progress(bookID string) (*Progress, error)
	SaveProgress(p Progress) error

	AddListening(day string, minutes float64) error
	Listening(day string) (float64, error)
	RecentListening(n int) ([]DayMinutes, error)

	HasPlayerSettings() (bool, error)
	PlayerSettings() (PlayerSettings, error)
	SavePlayerSettings(s PlayerSettings) error

	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
