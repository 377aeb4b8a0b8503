package api

import (
	"context"
	"sync"
	"time"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/catalog"
)

// In-memory stores backing the handler tests.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]auth.User)}
}

func (r *memUserRepo) Create(_ context.Context, user auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return auth.ErrEmailInUse
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return auth.User{}, auth.ErrUserNotFound
	}
	return user, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return auth.User{}, auth.ErrUserNotFound
}

func (r *memUserRepo) Update(_ context.Context, user auth.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.LikedSongIDs = stored.LikedSongIDs
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return auth.ErrUserNotFound
	}
	user.LastLogin = at
	r.users[id] = user
	return nil
}

func (r *memUserRepo) LikeSong(_ context.Context, userID, songID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	for _, id := range user.LikedSongIDs {
		if id == songID {
			return nil
		}
	}
	user.LikedSongIDs = append(user.LikedSongIDs, songID)
	r.users[userID] = user
	return nil
}

func (r *memUserRepo) UnlikeSong(_ context.Context, userID, songID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	kept := user.LikedSongIDs[:0]
	for _, id := range user.LikedSongIDs {
		if id != songID {
			kept = append(kept, id)
		}
	}
	user.LikedSongIDs = kept
	r.users[userID] = user
	return nil
}

func (r *memUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type memSongRepo struct {
	mu    sync.Mutex
	songs []catalog.Song
	// err, when set, makes every operation fail with it.
	err error
}

func (r *memSongRepo) List(_ context.Context, limit, offset int) ([]catalog.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if offset >= len(r.songs) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.songs) {
		end = len(r.songs)
	}
	return append([]catalog.Song(nil), r.songs[offset:end]...), nil
}

func (r *memSongRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	return len(r.songs), nil
}

func (r *memSongRepo) GetByID(_ context.Context, id string) (catalog.Song, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, song := range r.songs {
		if song.ID == id {
			return song, nil
		}
	}
	return catalog.Song{}, catalog.ErrSongNotFound
}

func (r *memSongRepo) IncrementPlayCount(_ context.Context, id string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.songs {
		if r.songs[i].ID == id {
			r.songs[i].PlayCount++
			return r.songs[i].PlayCount, nil
		}
	}
	return 0, catalog.ErrSongNotFound
}

type memPlaylistRepo struct {
	mu        sync.Mutex
	playlists []catalog.Playlist
}

func (r *memPlaylistRepo) List(_ context.Context, limit int) ([]catalog.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.playlists) {
		limit = len(r.playlists)
	}
	return append([]catalog.Playlist(nil), r.playlists[:limit]...), nil
}

func (r *memPlaylistRepo) ListSummaries(_ context.Context, limit int) ([]catalog.PlaylistSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.playlists) {
		limit = len(r.playlists)
	}
	summaries := make([]catalog.PlaylistSummary, 0, limit)
	for _, p := range r.playlists[:limit] {
		summaries = append(summaries, catalog.PlaylistSummary{
			ID:                 p.ID,
			Name:               p.Name,
			Description:        p.Description,
			Category:           p.Category,
			CoverImageURL:      p.CoverImageURL,
			BackgroundImageURL: p.BackgroundImageURL,
			PlayCount:          p.PlayCount,
			SongCount:          p.SongCount(),
			CreatedAt:          p.CreatedAt,
		})
	}
	return summaries, nil
}

func (r *memPlaylistRepo) GetByID(_ context.Context, id string) (catalog.Playlist, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.playlists {
		if p.ID == id {
			return p, nil
		}
	}
	return catalog.Playlist{}, catalog.ErrPlaylistNotFound
}

func (r *memPlaylistRepo) IncrementPlayCount(_ context.Context, id string, playedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.playlists {
		if r.playlists[i].ID == id {
			r.playlists[i].PlayCount++
			r.playlists[i].LastPlayedAt = playedAt
			return nil
		}
	}
	return catalog.ErrPlaylistNotFound
}
