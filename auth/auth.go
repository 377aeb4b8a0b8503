// Package auth implements the authentication core of the Soundia API:
// session token issuance and verification, password hashing, and the
// request gate that turns bearer tokens into resolved user identities.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrEmailInUse         = errors.New("auth: email already in use")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrInvalidInput       = errors.New("auth: invalid user input")
)

// User is the durable identity record behind the credential store.
// PasswordHash never leaves the auth package in serialized form.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  []byte
	AffiliateCode string
	LikedSongIDs  []string
	IsVerified    bool
	LastLogin     time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserRepository abstracts identity persistence so callers can map to any
// backing schema. Implementations must enforce email uniqueness and report
// violations as ErrEmailInUse.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	LikeSong(ctx context.Context, userID, songID string) error
	UnlikeSong(ctx context.Context, userID, songID string) error
}

// IdentityResolver is the read-only slice of UserRepository the gate needs.
type IdentityResolver interface {
	GetByID(ctx context.Context, id string) (User, error)
}

// PasswordHasher performs one-way salted hashing and verification.
type PasswordHasher interface {
	Hash(ctx context.Context, plain []byte) ([]byte, error)
	Compare(ctx context.Context, plain, hashed []byte) error
}

// TokenVerifier validates opaque session tokens back into payloads.
type TokenVerifier interface {
	Verify(raw string) (SessionPayload, error)
}

func contextError(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
