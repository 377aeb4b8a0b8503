// Package catalog holds the song and playlist domain: the records, their
// light aggregates (play counts, song counts, durations), and the read
// service the HTTP layer consumes.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrSongNotFound     = errors.New("catalog: song not found")
	ErrPlaylistNotFound = errors.New("catalog: playlist not found")
)

// Song is a playable track in the catalog.
type Song struct {
	ID              string
	Title           string
	Artist          string
	Genre           string
	DurationSeconds int
	FileURL         string
	FileName        string
	CoverImageURL   string
	PlayCount       int
	Tags            []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FormattedDuration renders the track length as m:ss.
func (s Song) FormattedDuration() string {
	return fmt.Sprintf("%d:%02d", s.DurationSeconds/60, s.DurationSeconds%60)
}

// PlaylistEntry is a song's membership in a playlist.
type PlaylistEntry struct {
	Song    Song
	AddedAt time.Time
}

// Playlist categories.
const (
	CategoryPersonal  = "personal"
	CategoryMood      = "mood"
	CategoryGenre     = "genre"
	CategoryWorkout   = "workout"
	CategoryStudy     = "study"
	CategoryParty     = "party"
	CategoryChill     = "chill"
	CategoryFavorites = "favorites"
	CategoryOther     = "other"
)

// ValidCategory reports whether the category is one of the known values.
func ValidCategory(category string) bool {
	switch category {
	case CategoryPersonal, CategoryMood, CategoryGenre, CategoryWorkout,
		CategoryStudy, CategoryParty, CategoryChill, CategoryFavorites, CategoryOther:
		return true
	}
	return false
}

// Playlist is an ordered collection of songs.
type Playlist struct {
	ID                 string
	Name               string
	Description        string
	Category           string
	CoverImageURL      string
	BackgroundImageURL string
	PlayCount          int
	LastPlayedAt       time.Time
	Songs              []PlaylistEntry
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SongCount returns the number of entries.
func (p Playlist) SongCount() int { return len(p.Songs) }

// TotalDurationSeconds sums entry durations.
func (p Playlist) TotalDurationSeconds() int {
	total := 0
	for _, entry := range p.Songs {
		total += entry.Song.DurationSeconds
	}
	return total
}

// FormattedTotalDuration renders the playlist length as "1h 5m" or "45m".
func (p Playlist) FormattedTotalDuration() string {
	total := p.TotalDurationSeconds()
	hours := total / 3600
	minutes := (total % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// PlaylistSummary is the metadata-only projection used by listing views
// that must not load every song row.
type PlaylistSummary struct {
	ID                 string
	Name               string
	Description        string
	Category           string
	CoverImageURL      string
	BackgroundImageURL string
	PlayCount          int
	SongCount          int
	CreatedAt          time.Time
}

// SongRepository persists songs.
type SongRepository interface {
	List(ctx context.Context, limit, offset int) ([]Song, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (Song, error)
	// IncrementPlayCount bumps the counter atomically in the store and
	// returns the new value.
	IncrementPlayCount(ctx context.Context, id string) (int, error)
}

// PlaylistRepository persists playlists and their song entries.
type PlaylistRepository interface {
	List(ctx context.Context, limit int) ([]Playlist, error)
	ListSummaries(ctx context.Context, limit int) ([]PlaylistSummary, error)
	GetByID(ctx context.Context, id string) (Playlist, error)
	IncrementPlayCount(ctx context.Context, id string, playedAt time.Time) error
}
