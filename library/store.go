package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/tsawler/zenread/logging"
)

const dayLayout = "2006-01-02"

// Store is the persistent library. It is safe for concurrent use.
type Store struct {
	path string
	log  *slog.Logger
	now  func() time.Time

	mu        sync.Mutex
	books     []Book
	stats     Stats
	lastPages map[string]int
	version   uint64
	saved     uint64

	writeMu sync.Mutex

	kick      chan struct{}
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Open loads the library at path and starts its writer. A missing file is
// an empty library. A file that cannot be parsed is logged and ignored; it
// is replaced on the first change.
func Open(path string) (*Store, error) {
	s := &Store{
		path:      path,
		log:       logging.For("library"),
		now:       time.Now,
		stats:     DefaultStats(),
		lastPages: make(map[string]int),
		kick:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	go s.writer()
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read library: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		s.log.Warn("ignoring unreadable library file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil
	}

	s.books = f.Books
	stats := DefaultStats()
	mergeStats(&stats, f.Stats)
	s.stats = stats
	for id, p := range f.LastPages {
		s.lastPages[id] = p
	}
	return nil
}

// mergeStats overlays stored values on the defaults so files written by
// older versions gain any new genres.
func mergeStats(dst *Stats, src Stats) {
	prefs := dst.GenrePreferences
	for g, n := range src.GenrePreferences {
		prefs[g] = n
	}
	*dst = src
	dst.GenrePreferences = prefs
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Books returns a copy of the catalogue, most recently added first.
func (s *Store) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.books)
}

// Book returns the book with the given id.
func (s *Store) Book(id string) (Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.books[i], true
	}
	return Book{}, false
}

// Stats returns a copy of the statistics.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.clone()
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.books, func(b Book) bool { return b.ID == id })
}

// AddBook puts b at the front of the catalogue, replacing any book with the
// same id.
func (s *Store) AddBook(b Book) {
	s.mutate(func() {
		if i := s.index(b.ID); i >= 0 {
			s.books = slices.Delete(s.books, i, i+1)
		}
		s.books = slices.Insert(s.books, 0, b)
	})
}

// RemoveBook deletes a book and its saved page. It reports whether the book
// existed.
func (s *Store) RemoveBook(id string) bool {
	removed := false
	s.mutate(func() {
		if i := s.index(id); i >= 0 {
			s.books = slices.Delete(s.books, i, i+1)
			removed = true
		}
		delete(s.lastPages, id)
	})
	return removed
}

// UpdateProgress records reading progress for a book. The first time a book
// reaches 100 it counts as read. Any update also extends or restarts the
// daily reading streak.
func (s *Store) UpdateProgress(id string, percent int) {
	percent = min(max(percent, 0), 100)
	now := s.now()

	s.mutate(func() {
		if i := s.index(id); i >= 0 {
			b := &s.books[i]
			if !b.Finished() && percent >= 100 {
				s.stats.TotalBooksRead++
			}
			b.Progress = percent
			b.LastReadAt = &now
		}
		s.extendStreak(now)
	})
}

func (s *Store) extendStreak(now time.Time) {
	today := now.Format(dayLayout)
	if s.stats.LastSessionDate == today {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format(dayLayout)
	if s.stats.LastSessionDate == yesterday {
		s.stats.CurrentStreak++
	} else {
		s.stats.CurrentStreak = 1
	}
	s.stats.LongestStreak = max(s.stats.LongestStreak, s.stats.CurrentStreak)
	s.stats.LastSessionDate = today
}

// AddReadingTime adds minutes to the total reading time.
func (s *Store) AddReadingTime(minutes int) {
	if minutes <= 0 {
		return
	}
	s.mutate(func() {
		s.stats.TotalReadingTime += minutes
	})
}

// LastPage returns the saved page for a document, or 0 if there is none.
func (s *Store) LastPage(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPages[id]
}

// SetLastPage saves the page last viewed in a document.
func (s *Store) SetLastPage(id string, page int) {
	s.mutate(func() {
		s.lastPages[id] = page
	})
}

// Clear removes every book, page and statistic.
func (s *Store) Clear() {
	s.mutate(func() {
		s.books = nil
		s.stats = DefaultStats()
		s.lastPages = make(map[string]int)
	})
}

// OnProgress records progress reported by a reading session.
func (s *Store) OnProgress(id string, percent int) {
	s.UpdateProgress(id, percent)
}

// OnReadingTime records reading time reported by a reading session.
func (s *Store) OnReadingTime(minutes int) {
	s.AddReadingTime(minutes)
}

// mutate applies fn under the lock and schedules a save.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	s.version++
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

func (s *Store) writer() {
	defer close(s.stopped)
	for {
		select {
		case <-s.kick:
			if err := s.Flush(); err != nil {
				s.log.Warn("failed to save library",
					slog.String("path", s.path),
					slog.String("error", err.Error()))
			}
		case <-s.done:
			return
		}
	}
}

// Flush writes the current state if it has changed since the last save.
func (s *Store) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.saved == s.version {
		s.mu.Unlock()
		return nil
	}
	version := s.version
	f := file{
		Books:       slices.Clone(s.books),
		Stats:       s.stats.clone(),
		LastPages:   make(map[string]int, len(s.lastPages)),
		LastUpdated: time.Now().UTC(),
	}
	for id, p := range s.lastPages {
		f.LastPages[id] = p
	}
	s.mu.Unlock()

	if f.Books == nil {
		f.Books = []Book{}
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	if err := writeFile(s.path, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.saved = version
	s.mu.Unlock()
	s.log.Debug("library saved", slog.String("path", s.path), slog.Uint64("version", version))
	return nil
}

// writeFile replaces path atomically.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".library-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write library: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace library: %w", err)
	}
	return nil
}

// Close stops the writer and saves any pending changes.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped
		err = s.Flush()
	})
	return err
}
