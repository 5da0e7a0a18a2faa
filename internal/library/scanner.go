// Package library indexes the on-disk audiobook library into the store.
//
// The layout is convention-driven: every direct subdirectory of the
// library root is one book, and the audio files inside it, sorted by
// filename, are its chapters. Durations stay unknown until playback
// resolves them.
package library

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhowden/tag"
	"github.com/sirupsen/logrus"

	applog "github.com/harkaudio/hark/internal/log"
	"github.com/harkaudio/hark/internal/store"
)

// audioExtensions covers what at least one backend can play; the
// session behind the bridge handles the m4a/m4b containers the local
// decoder cannot.
var audioExtensions = map[string]bool{
	".mp3":  true,
	".m4a":  true,
	".m4b":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".wav":  true,
}

var coverNames = []string{"cover.jpg", "cover.jpeg", "cover.png", "folder.jpg"}

// Scanner walks the library root and reconciles the store with it.
type Scanner struct {
	root  string
	store store.Interface
	log   *logrus.Entry
}

// NewScanner creates a scanner over the given library root.
func NewScanner(root string, st store.Interface) *Scanner {
	return &Scanner{
		root:  root,
		store: st,
		log:   applog.WithComponent("library"),
	}
}

// Scan indexes every book directory and prunes store entries whose
// directory vanished. It returns the number of books found. A single
// unreadable book is skipped with a log line, not a scan failure.
func (s *Scanner) Scan() (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("scan library: %w", err)
	}

	seen := make(map[string]bool)
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, entry.Name())
		book, chapters, err := s.scanBook(entry.Name(), dir)
		if err != nil {
			s.log.WithError(err).WithField("dir", dir).Warn("skipping unreadable book directory")
			continue
		}
		if len(chapters) == 0 {
			continue
		}
		if err := s.store.SaveBook(book, chapters); err != nil {
			return count, fmt.Errorf("scan library: save %s: %w", book.Title, err)
		}
		seen[book.ID] = true
		count++
	}

	if err := s.pruneVanished(seen); err != nil {
		return count, err
	}
	return count, nil
}

// scanBook reads one book directory: audio files become chapters in
// filename order, metadata comes from tags with filename fallbacks.
func (s *Scanner) scanBook(dirName, dir string) (store.Book, []store.Chapter, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return store.Book{}, nil, err
	}

	var audio []string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if audioExtensions[strings.ToLower(filepath.Ext(f.Name()))] {
			audio = append(audio, f.Name())
		}
	}
	sort.Strings(audio)

	book := store.Book{
		ID:        idFor(dirName),
		Title:     dirName,
		CoverPath: findCover(dir),
	}

	chapters := make([]store.Chapter, 0, len(audio))
	for _, name := range audio {
		path := filepath.Join(dir, name)
		title, meta := readTags(path)
		if title == "" {
			title = strings.TrimSuffix(name, filepath.Ext(name))
		}
		if meta != nil {
			if album := meta.Album(); album != "" {
				book.Title = album
			}
			if artist := firstNonEmpty(meta.AlbumArtist(), meta.Artist()); artist != "" {
				book.Author = artist
			}
		}
		chapters = append(chapters, store.Chapter{
			ID:        idFor(dirName, name),
			Title:     title,
			AudioPath: path,
		})
	}

	return book, chapters, nil
}

func (s *Scanner) pruneVanished(seen map[string]bool) error {
	books, err := s.store.Books()
	if err != nil {
		return fmt.Errorf("scan library: %w", err)
	}
	for _, b := range books {
		if seen[b.ID] {
			continue
		}
		s.log.WithField("book", b.Title).Info("pruning vanished book")
		if err := s.store.DeleteBook(b.ID); err != nil {
			return fmt.Errorf("scan library: prune %s: %w", b.Title, err)
		}
	}
	return nil
}

// readTags returns the tagged track title and the metadata, both zero
// when the file has no readable tags.
func readTags(path string) (string, tag.Metadata) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", nil
	}
	return meta.Title(), meta
}

func findCover(dir string) string {
	for _, name := range coverNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// idFor derives a stable id from library-relative path parts, so
// rescans keep progress records attached to their books.
func idFor(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "/")))
	return hex.EncodeToString(sum[:8])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
