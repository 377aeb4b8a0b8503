package api

import (
	"time"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/catalog"
)

// userJSON is the wire form of a user. The password hash never appears.
type userJSON struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	AffiliateCode string    `json:"affiliateCode"`
	LikedSongs    []string  `json:"likedSongs"`
	IsVerified    bool      `json:"isVerified"`
	LastLogin     time.Time `json:"lastLogin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func renderUser(user auth.User) userJSON {
	liked := user.LikedSongIDs
	if liked == nil {
		liked = []string{}
	}
	return userJSON{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		AffiliateCode: user.AffiliateCode,
		LikedSongs:    liked,
		IsVerified:    user.IsVerified,
		LastLogin:     user.LastLogin,
		CreatedAt:     user.CreatedAt,
		UpdatedAt:     user.UpdatedAt,
	}
}

type songJSON struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Artist            string    `json:"artist"`
	Genre             string    `json:"genre,omitempty"`
	Duration          int       `json:"duration"`
	FormattedDuration string    `json:"formattedDuration"`
	FileURL           string    `json:"fileUrl"`
	FileName          string    `json:"fileName"`
	CoverImageURL     string    `json:"coverImageUrl,omitempty"`
	PlayCount         int       `json:"playCount"`
	Tags              []string  `json:"tags"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	// Liked is only present when the request carried a verified identity.
	Liked *bool `json:"liked,omitempty"`
}

func renderSong(song catalog.Song, identity *auth.User) songJSON {
	tags := song.Tags
	if tags == nil {
		tags = []string{}
	}
	out := songJSON{
		ID:                song.ID,
		Title:             song.Title,
		Artist:            song.Artist,
		Genre:             song.Genre,
		Duration:          song.DurationSeconds,
		FormattedDuration: song.FormattedDuration(),
		FileURL:           song.FileURL,
		FileName:          song.FileName,
		CoverImageURL:     song.CoverImageURL,
		PlayCount:         song.PlayCount,
		Tags:              tags,
		CreatedAt:         song.CreatedAt,
		UpdatedAt:         song.UpdatedAt,
	}
	if identity != nil {
		liked := false
		for _, id := range identity.LikedSongIDs {
			if id == song.ID {
				liked = true
				break
			}
		}
		out.Liked = &liked
	}
	return out
}

func renderSongs(songs []catalog.Song, identity *auth.User) []songJSON {
	out := make([]songJSON, 0, len(songs))
	for _, song := range songs {
		out = append(out, renderSong(song, identity))
	}
	return out
}

type playlistEntryJSON struct {
	Song    songJSON  `json:"song"`
	AddedAt time.Time `json:"addedAt"`
}

type playlistJSON struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Description        string              `json:"description,omitempty"`
	Category           string              `json:"category"`
	CoverImageURL      string              `json:"coverImageUrl,omitempty"`
	BackgroundImageURL string              `json:"backgroundImageUrl,omitempty"`
	PlayCount          int                 `json:"playCount"`
	LastPlayedAt       *time.Time          `json:"lastPlayedAt,omitempty"`
	Songs              []playlistEntryJSON `json:"songs"`
	SongCount          int                 `json:"songCount"`
	TotalDuration      int                 `json:"totalDuration"`
	FormattedDuration  string              `json:"formattedDuration"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

func renderPlaylist(playlist catalog.Playlist) playlistJSON {
	entries := make([]playlistEntryJSON, 0, len(playlist.Songs))
	for _, entry := range playlist.Songs {
		entries = append(entries, playlistEntryJSON{
			Song:    renderSong(entry.Song, nil),
			AddedAt: entry.AddedAt,
		})
	}
	out := playlistJSON{
		ID:                 playlist.ID,
		Name:               playlist.Name,
		Description:        playlist.Description,
		Category:           playlist.Category,
		CoverImageURL:      playlist.CoverImageURL,
		BackgroundImageURL: playlist.BackgroundImageURL,
		PlayCount:          playlist.PlayCount,
		Songs:              entries,
		SongCount:          playlist.SongCount(),
		TotalDuration:      playlist.TotalDurationSeconds(),
		FormattedDuration:  playlist.FormattedTotalDuration(),
		CreatedAt:          playlist.CreatedAt,
		UpdatedAt:          playlist.UpdatedAt,
	}
	if !playlist.LastPlayedAt.IsZero() {
		at := playlist.LastPlayedAt
		out.LastPlayedAt = &at
	}
	return out
}

type playlistSummaryJSON struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Category           string    `json:"category"`
	CoverImageURL      string    `json:"coverImageUrl,omitempty"`
	BackgroundImageURL string    `json:"backgroundImageUrl,omitempty"`
	PlayCount          int       `json:"playCount"`
	SongCount          int       `json:"songCount"`
	CreatedAt          time.Time `json:"createdAt"`
}

func renderPlaylistSummaries(summaries []catalog.PlaylistSummary) []playlistSummaryJSON {
	out := make([]playlistSummaryJSON, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, playlistSummaryJSON{
			ID:                 s.ID,
			Name:               s.Name,
			Description:        s.Description,
			Category:           s.Category,
			CoverImageURL:      s.CoverImageURL,
			BackgroundImageURL: s.BackgroundImageURL,
			PlayCount:          s.PlayCount,
			SongCount:          s.SongCount,
			CreatedAt:          s.CreatedAt,
		})
	}
	return out
}

type paginationJSON struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

func renderPage(page catalog.Page) paginationJSON {
	return paginationJSON{
		Current: page.Current,
		Limit:   page.Limit,
		Total:   page.Total,
		Pages:   page.Pages,
	}
}
