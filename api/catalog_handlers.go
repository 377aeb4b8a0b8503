package api

import (
	"errors"
	"strconv"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/catalog"
	"github.com/soundia/soundia/httpx"
)

func (a *API) listSongs(c httpx.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", catalog.DefaultPageLimit)

	songs, pagination, err := a.catalog.ListSongs(c.Request().Context(), page, limit)
	if err != nil {
		return a.internalError(c, "song listing failed", err)
	}

	var identity *auth.User
	if user, ok := auth.IdentityFromRequest(c); ok {
		identity = &user
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success":    true,
		"songs":      renderSongs(songs, identity),
		"pagination": renderPage(pagination),
	})
}

func (a *API) getSong(c httpx.Context) error {
	song, err := a.catalog.GetSong(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrSongNotFound) {
			return notFound(c, "Song not found")
		}
		return a.internalError(c, "song fetch failed", err)
	}

	var identity *auth.User
	if user, ok := auth.IdentityFromRequest(c); ok {
		identity = &user
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success": true,
		"song":    renderSong(song, identity),
	})
}

func (a *API) playSong(c httpx.Context) error {
	playCount, err := a.catalog.RecordPlay(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrSongNotFound) {
			return notFound(c, "Song not found")
		}
		return a.internalError(c, "play count increment failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success":   true,
		"message":   "Play count incremented",
		"playCount": playCount,
	})
}

func (a *API) listPlaylists(c httpx.Context) error {
	playlists, err := a.catalog.ListPlaylists(c.Request().Context())
	if err != nil {
		return a.internalError(c, "playlist listing failed", err)
	}

	out := make([]playlistJSON, 0, len(playlists))
	for _, playlist := range playlists {
		out = append(out, renderPlaylist(playlist))
	}
	return c.JSON(httpx.StatusOK, map[string]any{
		"success":   true,
		"playlists": out,
	})
}

func (a *API) playlistMetadata(c httpx.Context) error {
	summaries, err := a.catalog.PlaylistSummaries(c.Request().Context())
	if err != nil {
		return a.internalError(c, "playlist metadata listing failed", err)
	}

	out := renderPlaylistSummaries(summaries)
	return c.JSON(httpx.StatusOK, map[string]any{
		"success":   true,
		"playlists": out,
		"count":     len(out),
	})
}

func (a *API) getPlaylist(c httpx.Context) error {
	playlist, err := a.catalog.GetPlaylist(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrPlaylistNotFound) {
			return notFound(c, "Playlist not found")
		}
		return a.internalError(c, "playlist fetch failed", err)
	}

	return c.JSON(httpx.StatusOK, map[string]any{
		"success":  true,
		"playlist": renderPlaylist(playlist),
	})
}

func queryInt(c httpx.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
