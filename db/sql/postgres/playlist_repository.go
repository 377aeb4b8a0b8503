package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/soundia/soundia/catalog"
)

// PlaylistRepository persists catalog.Playlist records and their song
// entries inside PostgreSQL.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository wraps an existing *sql.DB connection.
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

const playlistColumns = `id, name, description, category, cover_image_url,
                         background_image_url, play_count, last_played_at, created_at, updated_at`

func (r *PlaylistRepository) List(ctx context.Context, limit int) ([]catalog.Playlist, error) {
	const query = `SELECT ` + playlistColumns + ` FROM playlists
                   ORDER BY created_at DESC
                   LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var playlists []catalog.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range playlists {
		entries, err := r.entries(ctx, playlists[i].ID)
		if err != nil {
			return nil, err
		}
		playlists[i].Songs = entries
	}
	return playlists, nil
}

func (r *PlaylistRepository) ListSummaries(ctx context.Context, limit int) ([]catalog.PlaylistSummary, error) {
	const query = `SELECT p.id, p.name, p.description, p.category, p.cover_image_url,
                          p.background_image_url, p.play_count, count(ps.song_id), p.created_at
                   FROM playlists p
                   LEFT JOIN playlist_songs ps ON ps.playlist_id = p.id
                   GROUP BY p.id
                   ORDER BY p.created_at DESC
                   LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []catalog.PlaylistSummary
	for rows.Next() {
		var s catalog.PlaylistSummary
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.Category,
			&s.CoverImageURL,
			&s.BackgroundImageURL,
			&s.PlayCount,
			&s.SongCount,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *PlaylistRepository) GetByID(ctx context.Context, id string) (catalog.Playlist, error) {
	const query = `SELECT ` + playlistColumns + ` FROM playlists WHERE id = $1`
	playlist, err := scanPlaylist(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return catalog.Playlist{}, translateCatalogError(err, catalog.ErrPlaylistNotFound)
	}
	entries, err := r.entries(ctx, playlist.ID)
	if err != nil {
		return catalog.Playlist{}, err
	}
	playlist.Songs = entries
	return playlist, nil
}

func (r *PlaylistRepository) IncrementPlayCount(ctx context.Context, id string, playedAt time.Time) error {
	const query = `UPDATE playlists SET play_count = play_count + 1, last_played_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, playedAt)
	if err != nil {
		return translateCatalogError(err, catalog.ErrPlaylistNotFound)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return catalog.ErrPlaylistNotFound
	}
	return nil
}

// Create inserts a playlist without entries. Used by seeding and tests.
func (r *PlaylistRepository) Create(ctx context.Context, playlist catalog.Playlist) error {
	const query = `INSERT INTO playlists (` + playlistColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	var lastPlayed sql.NullTime
	if !playlist.LastPlayedAt.IsZero() {
		lastPlayed = sql.NullTime{Time: playlist.LastPlayedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		playlist.ID, playlist.Name, playlist.Description, playlist.Category,
		playlist.CoverImageURL, playlist.BackgroundImageURL, playlist.PlayCount,
		lastPlayed, playlist.CreatedAt, playlist.UpdatedAt)
	return err
}

// AddSong appends a song to a playlist; repeats are a no-op.
func (r *PlaylistRepository) AddSong(ctx context.Context, playlistID, songID string, addedAt time.Time) error {
	const query = `INSERT INTO playlist_songs (playlist_id, song_id, added_at) VALUES ($1, $2, $3)
                   ON CONFLICT (playlist_id, song_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, playlistID, songID, addedAt)
	return err
}

func scanPlaylist(row rowScanner) (catalog.Playlist, error) {
	var (
		playlist   catalog.Playlist
		lastPlayed sql.NullTime
	)
	err := row.Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.Category,
		&playlist.CoverImageURL,
		&playlist.BackgroundImageURL,
		&playlist.PlayCount,
		&lastPlayed,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if lastPlayed.Valid {
		playlist.LastPlayedAt = lastPlayed.Time
	}
	return playlist, err
}

func (r *PlaylistRepository) entries(ctx context.Context, playlistID string) ([]catalog.PlaylistEntry, error) {
	const query = `SELECT ` + songColumns + `, ps.added_at
                   FROM playlist_songs ps
                   JOIN songs s ON s.id = ps.song_id
                   WHERE ps.playlist_id = $1
                   ORDER BY ps.added_at, s.id`
	rows, err := r.db.QueryContext(ctx, query, playlistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []catalog.PlaylistEntry
	for rows.Next() {
		var entry catalog.PlaylistEntry
		err := rows.Scan(
			&entry.Song.ID,
			&entry.Song.Title,
			&entry.Song.Artist,
			&entry.Song.Genre,
			&entry.Song.DurationSeconds,
			&entry.Song.FileURL,
			&entry.Song.FileName,
			&entry.Song.CoverImageURL,
			&entry.Song.PlayCount,
			pq.Array(&entry.Song.Tags),
			&entry.Song.CreatedAt,
			&entry.Song.UpdatedAt,
			&entry.AddedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
