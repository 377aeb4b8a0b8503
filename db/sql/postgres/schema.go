package postgres

// Schema returns the migration statements for the full Soundia schema, in
// dependency order. Email uniqueness and like idempotence are enforced
// here rather than in application code.
func Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL,
			password_hash BYTEA NOT NULL,
			affiliate_code TEXT UNIQUE NOT NULL,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			last_login TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			genre TEXT NOT NULL DEFAULT '',
			duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 1),
			file_url TEXT NOT NULL,
			file_name TEXT NOT NULL,
			cover_image_url TEXT NOT NULL DEFAULT '',
			play_count INTEGER NOT NULL DEFAULT 0 CHECK (play_count >= 0),
			tags TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS songs_created_at_idx ON songs (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS songs_artist_idx ON songs (artist)`,
		`CREATE INDEX IF NOT EXISTS songs_play_count_idx ON songs (play_count DESC)`,
		`CREATE TABLE IF NOT EXISTS user_liked_songs (
			user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			song_id UUID NOT NULL REFERENCES songs (id) ON DELETE CASCADE,
			liked_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (user_id, song_id)
		)`,
		`CREATE TABLE IF NOT EXISTS playlists (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'personal',
			cover_image_url TEXT NOT NULL DEFAULT '',
			background_image_url TEXT NOT NULL DEFAULT '',
			play_count INTEGER NOT NULL DEFAULT 0 CHECK (play_count >= 0),
			last_played_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS playlist_songs (
			playlist_id UUID NOT NULL REFERENCES playlists (id) ON DELETE CASCADE,
			song_id UUID NOT NULL REFERENCES songs (id) ON DELETE CASCADE,
			added_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (playlist_id, song_id)
		)`,
	}
}
