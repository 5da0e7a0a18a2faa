// internal/app/app.go
package app

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/harkaudio/hark/internal/engine"
	"github.com/harkaudio/hark/internal/library"
	"github.com/harkaudio/hark/internal/store"
)

// ViewMode selects which screen the application shows.
type ViewMode int

const (
	ViewLibrary ViewMode = iota
	ViewPlayer
)

// sleepSteps are the sleep timer durations the s key cycles through;
// the zero entry means off.
var sleepSteps = []time.Duration{0, 15 * time.Minute, 30 * time.Minute, 45 * time.Minute, time.Hour}

// Model is the root application model containing all state.
type Model struct {
	Engine  *engine.Engine
	Store   store.Interface
	Scanner *library.Scanner
	Sub     *engine.Subscription

	Mode         ViewMode
	BookList     list.Model
	Snap         engine.Snapshot
	TodayMinutes float64
	StatusMsg    string
	SleepStep    int
	Width        int
	Height       int
}

// New creates the application model and wires the engine callbacks:
// chapter end advances to the next chapter (stop at the end of the
// book), voice commands resolve to a library book and start it.
func New(eng *engine.Engine, st store.Interface, scanner *library.Scanner) (Model, error) {
	items, err := bookItems(st)
	if err != nil {
		return Model{}, err
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Library"
	l.SetShowStatusBar(false)

	eng.OnChapterEnd(func() {
		if err := eng.NextChapter(); err != nil {
			_ = eng.Stop()
			return
		}
		_ = eng.Play()
	})

	eng.OnVoiceCommand(func(query string) {
		id, ok := matchBook(st, query)
		if !ok {
			return
		}
		if err := eng.OpenBook(id); err != nil {
			return
		}
		_ = eng.Play()
	})

	return Model{
		Engine:   eng,
		Store:    st,
		Scanner:  scanner,
		Sub:      eng.Subscribe(),
		Mode:     ViewLibrary,
		BookList: l,
		Snap:     eng.Snapshot(),
	}, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForSnapshot(m.Sub), loadTodayStats(m.Store))
}

// bookItem adapts a store book to the list component.
type bookItem struct {
	book store.Book
}

func (i bookItem) Title() string { return i.book.Title }

func (i bookItem) Description() string {
	desc := i.book.Author
	if !i.book.AddedAt.IsZero() {
		added := "added " + humanize.Time(i.book.AddedAt)
		if desc == "" {
			desc = added
		} else {
			desc += " · " + added
		}
	}
	if desc == "" {
		desc = "unknown author"
	}
	return desc
}

func (i bookItem) FilterValue() string { return i.book.Title + " " + i.book.Author }

// matchBook resolves a spoken query to a library book. Queries arrive as
// free text ("play the hobbit"), so a book matches when its title appears
// in the query or the query appears in the title.
func matchBook(st store.Interface, query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", false
	}
	books, err := st.Books()
	if err != nil {
		return "", false
	}
	for _, b := range books {
		title := strings.ToLower(b.Title)
		if strings.Contains(q, title) || strings.Contains(title, q) {
			return b.ID, true
		}
	}
	return "", false
}

func bookItems(st store.Interface) ([]list.Item, error) {
	books, err := st.Books()
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{book: b}
	}
	return items, nil
}
