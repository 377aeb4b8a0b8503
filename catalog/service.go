package catalog

import (
	"context"
	"errors"
	"time"
)

const (
	// DefaultPageLimit matches the API's default page size.
	DefaultPageLimit = 50
	// MaxPageLimit caps a single page so one request cannot drain the
	// catalog.
	MaxPageLimit = 200
	// playlistListCap bounds playlist listings.
	playlistListCap = 50
)

// Page describes the pagination block returned alongside song listings.
type Page struct {
	Current int
	Limit   int
	Total   int
	Pages   int
}

// Service exposes catalog reads plus the play-count aggregation writes.
type Service struct {
	songs     SongRepository
	playlists PlaylistRepository
	now       func() time.Time
}

// ServiceConfig wires the repositories.
type ServiceConfig struct {
	Songs     SongRepository
	Playlists PlaylistRepository
	Now       func() time.Time
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Songs == nil || cfg.Playlists == nil {
		return nil, errors.New("catalog: service requires song and playlist repositories")
	}
	svc := &Service{songs: cfg.Songs, playlists: cfg.Playlists, now: cfg.Now}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// ListSongs returns a page of songs, newest first, with the pagination
// block. Out-of-range inputs are clamped rather than rejected.
func (s *Service) ListSongs(ctx context.Context, page, limit int) ([]Song, Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	songs, err := s.songs.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, Page{}, err
	}
	total, err := s.songs.Count(ctx)
	if err != nil {
		return nil, Page{}, err
	}

	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return songs, Page{Current: page, Limit: limit, Total: total, Pages: pages}, nil
}

// GetSong fetches one song by id.
func (s *Service) GetSong(ctx context.Context, id string) (Song, error) {
	if id == "" {
		return Song{}, ErrSongNotFound
	}
	return s.songs.GetByID(ctx, id)
}

// RecordPlay bumps a song's play counter and returns the new count.
func (s *Service) RecordPlay(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, ErrSongNotFound
	}
	return s.songs.IncrementPlayCount(ctx, id)
}

// ListPlaylists returns playlists with their entries populated, capped to
// keep response sizes sane.
func (s *Service) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	return s.playlists.List(ctx, playlistListCap)
}

// PlaylistSummaries returns the metadata-only listing.
func (s *Service) PlaylistSummaries(ctx context.Context) ([]PlaylistSummary, error) {
	return s.playlists.ListSummaries(ctx, playlistListCap)
}

// GetPlaylist fetches a populated playlist and records the access as a
// play, mirroring how clients open a playlist to start it.
func (s *Service) GetPlaylist(ctx context.Context, id string) (Playlist, error) {
	if id == "" {
		return Playlist{}, ErrPlaylistNotFound
	}
	playlist, err := s.playlists.GetByID(ctx, id)
	if err != nil {
		return Playlist{}, err
	}
	playedAt := s.now().UTC()
	if err := s.playlists.IncrementPlayCount(ctx, playlist.ID, playedAt); err != nil {
		return Playlist{}, err
	}
	playlist.PlayCount++
	playlist.LastPlayedAt = playedAt
	return playlist, nil
}
