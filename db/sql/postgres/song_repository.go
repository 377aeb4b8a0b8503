package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/soundia/soundia/catalog"
)

// SongRepository persists catalog.Song records inside PostgreSQL.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository wraps an existing *sql.DB connection.
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

const songColumns = `id, title, artist, genre, duration_seconds, file_url, file_name,
                     cover_image_url, play_count, tags, created_at, updated_at`

func (r *SongRepository) List(ctx context.Context, limit, offset int) ([]catalog.Song, error) {
	const query = `SELECT ` + songColumns + ` FROM songs
                   ORDER BY created_at DESC
                   LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var songs []catalog.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, rows.Err()
}

func (r *SongRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM songs`).Scan(&count)
	return count, err
}

func (r *SongRepository) GetByID(ctx context.Context, id string) (catalog.Song, error) {
	const query = `SELECT ` + songColumns + ` FROM songs WHERE id = $1`
	song, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return catalog.Song{}, translateCatalogError(err, catalog.ErrSongNotFound)
	}
	return song, nil
}

func (r *SongRepository) IncrementPlayCount(ctx context.Context, id string) (int, error) {
	const query = `UPDATE songs SET play_count = play_count + 1 WHERE id = $1 RETURNING play_count`
	var count int
	err := r.db.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		return 0, translateCatalogError(err, catalog.ErrSongNotFound)
	}
	return count, nil
}

// Create inserts a song. Used by seeding and tests; the public API does not
// expose uploads.
func (r *SongRepository) Create(ctx context.Context, song catalog.Song) error {
	const query = `INSERT INTO songs (` + songColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.ExecContext(ctx, query,
		song.ID, song.Title, song.Artist, song.Genre, song.DurationSeconds,
		song.FileURL, song.FileName, song.CoverImageURL, song.PlayCount,
		pq.Array(song.Tags), song.CreatedAt, song.UpdatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (catalog.Song, error) {
	var song catalog.Song
	err := row.Scan(
		&song.ID,
		&song.Title,
		&song.Artist,
		&song.Genre,
		&song.DurationSeconds,
		&song.FileURL,
		&song.FileName,
		&song.CoverImageURL,
		&song.PlayCount,
		pq.Array(&song.Tags),
		&song.CreatedAt,
		&song.UpdatedAt,
	)
	return song, err
}

func translateCatalogError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "22P02" {
		return notFound
	}
	return err
}
