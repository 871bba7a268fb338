package library

import "time"

// Genre is a coarse book category.
type Genre string

const (
	Thriller  Genre = "thriller"
	Classic   Genre = "classic"
	Emotional Genre = "emotional"
	Mystery   Genre = "mystery"
	Romance   Genre = "romance"
	SciFi     Genre = "scifi"
)

// Genres lists every known genre.
var Genres = []Genre{Thriller, Classic, Emotional, Mystery, Romance, SciFi}

// Book is one catalogue entry.
type Book struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Author            string     `json:"author"`
	Cover             string     `json:"cover,omitempty"`
	Genre             Genre      `json:"genre,omitempty"`
	Progress          int        `json:"progress"`
	CurrentChapter    int        `json:"currentChapter,omitempty"`
	TotalChapters     int        `json:"totalChapters,omitempty"`
	WordCount         int        `json:"wordCount,omitempty"`
	EstimatedReadTime int        `json:"estimatedReadTime,omitempty"` // minutes
	LastReadAt        *time.Time `json:"lastReadAt,omitempty"`
	Path              string     `json:"path,omitempty"`
}

// Finished reports whether the book has been read to the end.
func (b Book) Finished() bool {
	return b.Progress >= 100
}

// Stats are the reader's aggregate statistics.
type Stats struct {
	TotalBooksRead       int           `json:"totalBooksRead"`
	CurrentStreak        int           `json:"currentStreak"`
	LongestStreak        int           `json:"longestStreak"`
	TotalReadingTime     int           `json:"totalReadingTime"` // minutes
	AverageSessionLength int           `json:"averageSessionLength"`
	GenrePreferences     map[Genre]int `json:"genrePreferences"`

	// LastSessionDate is the local calendar day (2006-01-02) of the last
	// progress update. It drives the streak.
	LastSessionDate string `json:"lastSessionDate,omitempty"`
}

// DefaultStats returns zeroed statistics with every genre present.
func DefaultStats() Stats {
	prefs := make(map[Genre]int, len(Genres))
	for _, g := range Genres {
		prefs[g] = 0
	}
	return Stats{GenrePreferences: prefs}
}

func (s Stats) clone() Stats {
	prefs := make(map[Genre]int, len(s.GenrePreferences))
	for g, n := range s.GenrePreferences {
		prefs[g] = n
	}
	s.GenrePreferences = prefs
	return s
}

// file is the on-disk layout.
type file struct {
	Books       []Book         `json:"books"`
	Stats       Stats          `json:"stats"`
	LastPages   map[string]int `json:"lastPages"`
	LastUpdated time.Time      `json:"lastUpdated"`
}
