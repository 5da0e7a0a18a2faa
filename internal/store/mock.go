// internal/store/mock.go
package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu sync.Mutex

	books     map[string]Book
	chapters  map[string][]Chapter
	progress  map[string]Progress
	listening map[string]float64
	settings  *PlayerSettings

	progressSaves int
	closed        bool

	// Injectable errors
	ChaptersErr error
	ProgressErr error
}

// NewMock creates a new mock store for testing.
func NewMock() *Mock {
	return &Mock{
		books:     make(map[string]Book),
		chapters:  make(map[string][]Chapter),
		progress:  make(map[string]Progress),
		listening: make(map[string]float64),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) Books() ([]Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var books []Book
	for _, b := range m.books {
		books = append(books, b)
	}
	return books, nil
}

func (m *Mock) Book(id string) (*Book, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.books[id]
	if !ok {
		return nil, fmt.Errorf("book %s: %w", id, ErrNotFound)
	}
	return &b, nil
}

func (m *Mock) ChaptersByBook(bookID string) ([]Chapter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ChaptersErr != nil {
		return nil, m.ChaptersErr
	}
	return m.chapters[bookID], nil
}

func (m *Mock) SaveBook(book Book, chapters []Chapter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.books[book.ID] = book
	ordered := make([]Chapter, len(chapters))
	for i, c := range chapters {
		c.BookID = book.ID
		c.Position = i
		ordered[i] = c
	}
	m.chapters[book.ID] = ordered
	return nil
}

func (m *Mock) SetChapterDuration(chapterID string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for bookID, chapters := range m.chapters {
		for i, c := range chapters {
			if c.ID == chapterID {
				m.chapters[bookID][i].Duration = d
			}
		}
	}
	return nil
}

func (m *Mock) DeleteBook(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.books, id)
	delete(m.chapters, id)
	delete(m.progress, id)
	return nil
}

func (m *Mock) Progress(bookID string) (*Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ProgressErr != nil {
		return nil, m.ProgressErr
	}
	p, ok := m.progress[bookID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Mock) SaveProgress(p Progress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressSaves++
	m.progress[p.BookID] = p
	return nil
}

func (m *Mock) AddListening(day string, minutes float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listening[day] += minutes
	return nil
}

func (m *Mock) Listening(day string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listening[day], nil
}

func (m *Mock) RecentListening(_ int) ([]DayMinutes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var days []DayMinutes
	for day, minutes := range m.listening {
		days = append(days, DayMinutes{Day: day, Minutes: minutes})
	}
	return days, nil
}

func (m *Mock) HasPlayerSettings() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings != nil, nil
}

func (m *Mock) PlayerSettings() (PlayerSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return DefaultPlayerSettings(), nil
	}
	return *m.settings, nil
}

func (m *Mock) SavePlayerSettings(s PlayerSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetProgress(p Progress) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[p.BookID] = p
}

func (m *Mock) ProgressSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progressSaves
}

func (m *Mock) ResetProgressSaves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progressSaves = 0
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
