package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/soundia/soundia/auth"
)

// UserRepository persists auth.User records inside PostgreSQL.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository wraps an existing *sql.DB connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, affiliate_code, is_verified, last_login, created_at, updated_at`

func (r *UserRepository) Create(ctx context.Context, user auth.User) error {
	const query = `INSERT INTO users (` + userColumns + `)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.AffiliateCode,
		user.IsVerified, user.LastLogin, user.CreatedAt, user.UpdatedAt)
	return translateUserError(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (auth.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getUser(ctx, query, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.getUser(ctx, query, email)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg any) (auth.User, error) {
	var user auth.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.AffiliateCode,
		&user.IsVerified,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, translateUserError(err)
	}

	liked, err := r.likedSongIDs(ctx, user.ID)
	if err != nil {
		return auth.User{}, err
	}
	user.LikedSongIDs = liked
	return user, nil
}

func (r *UserRepository) likedSongIDs(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT song_id FROM user_liked_songs WHERE user_id = $1 ORDER BY liked_at`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, user auth.User) error {
	const query = `UPDATE users SET email = $2, name = $3, is_verified = $4, updated_at = $5 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.IsVerified, user.UpdatedAt)
	if err != nil {
		return translateUserError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE users SET last_login = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return translateUserError(err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// LikeSong inserts into the join table; the primary key makes repeat likes
// a no-op instead of an error.
func (r *UserRepository) LikeSong(ctx context.Context, userID, songID string) error {
	const query = `INSERT INTO user_liked_songs (user_id, song_id) VALUES ($1, $2)
                   ON CONFLICT (user_id, song_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, songID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		// Referencing an unknown user or song.
		return auth.ErrInvalidInput
	}
	return translateUserError(err)
}

func (r *UserRepository) UnlikeSong(ctx context.Context, userID, songID string) error {
	const query = `DELETE FROM user_liked_songs WHERE user_id = $1 AND song_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, songID)
	return translateUserError(err)
}

func translateUserError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation: users.email or users.affiliate_code
			return auth.ErrEmailInUse
		case "22P02": // invalid uuid text means the row cannot exist
			return auth.ErrUserNotFound
		}
	}
	return err
}
