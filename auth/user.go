package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxNameLength caps the display name, matching what the store enforces.
const MaxNameLength = 50

// UserService orchestrates registration, login, and profile workflows on
// top of the repository, the password hasher, and the token service.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens *TokenService
	now    func() time.Time
}

// UserServiceConfig wires dependencies for UserService.
type UserServiceConfig struct {
	Repository UserRepository
	Hasher     PasswordHasher
	Tokens     *TokenService
	Now        func() time.Time
}

func NewUserService(cfg UserServiceConfig) (*UserService, error) {
	if cfg.Repository == nil || cfg.Hasher == nil || cfg.Tokens == nil {
		return nil, errors.New("auth: user service requires repository, hasher, and token service")
	}
	svc := &UserService{
		repo:   cfg.Repository,
		hasher: cfg.Hasher,
		tokens: cfg.Tokens,
		now:    cfg.Now,
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// Register validates the input, hashes the password, derives an affiliate
// code, persists the new identity, and issues a session token for it.
// A duplicate email surfaces as ErrEmailInUse with no record created.
func (s *UserService) Register(ctx context.Context, email, password, name string) (User, string, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if !ValidateEmail(email) {
		return User{}, "", fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if name == "" || len(name) > MaxNameLength {
		return User{}, "", fmt.Errorf("%w: invalid name", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(ctx, []byte(password))
	if err != nil {
		return User{}, "", err
	}

	code, err := affiliateCode(email)
	if err != nil {
		return User{}, "", err
	}

	now := s.now().UTC()
	user := User{
		ID:            uuid.NewString(),
		Email:         email,
		Name:          name,
		PasswordHash:  hash,
		AffiliateCode: code,
		LastLogin:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Issue(s.tokens.BuildSessionPayload(user))
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Login checks the credentials against the stored hash and, on success,
// updates the last-login stamp and issues a fresh session token. Unknown
// email and wrong password collapse into the same ErrInvalidCredentials so
// callers cannot probe which of the two failed.
func (s *UserService) Login(ctx context.Context, email, password string) (User, string, error) {
	user, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := s.hasher.Compare(ctx, []byte(password), user.PasswordHash); err != nil {
		if errors.Is(err, ErrPasswordMismatch) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	user.LastLogin = s.now().UTC()
	if err := s.repo.TouchLastLogin(ctx, user.ID, user.LastLogin); err != nil {
		return User{}, "", err
	}

	token, err := s.tokens.Issue(s.tokens.BuildSessionPayload(user))
	if err != nil {
		return User{}, "", err
	}
	return user, token, nil
}

// Resolve fetches the identity behind a verified session payload.
func (s *UserService) Resolve(ctx context.Context, id string) (User, error) {
	if id == "" {
		return User{}, ErrUserNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile changes the mutable profile fields; blank values keep the
// existing ones.
func (s *UserService) UpdateProfile(ctx context.Context, user User, name, email string) (User, error) {
	if name = strings.TrimSpace(name); name != "" {
		if len(name) > MaxNameLength {
			return User{}, fmt.Errorf("%w: invalid name", ErrInvalidInput)
		}
		user.Name = name
	}
	if email = NormalizeEmail(email); email != "" {
		if !ValidateEmail(email) {
			return User{}, fmt.Errorf("%w: invalid email", ErrInvalidInput)
		}
		user.Email = email
	}
	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// LikeSong records the song in the user's liked set. Idempotent.
func (s *UserService) LikeSong(ctx context.Context, userID, songID string) error {
	if userID == "" || songID == "" {
		return ErrInvalidInput
	}
	return s.repo.LikeSong(ctx, userID, songID)
}

// UnlikeSong removes the song from the user's liked set.
func (s *UserService) UnlikeSong(ctx context.Context, userID, songID string) error {
	if userID == "" || songID == "" {
		return ErrInvalidInput
	}
	return s.repo.UnlikeSong(ctx, userID, songID)
}

const affiliateAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// affiliateCode derives a referral code from the mailbox prefix plus six
// random base36 characters, e.g. "JANE4K2Q9Z".
func affiliateCode(email string) (string, error) {
	prefix := strings.SplitN(email, "@", 2)[0]
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	buf := make([]byte, 6)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("auth: generate affiliate code: %w", err)
	}
	for i, b := range buf {
		buf[i] = affiliateAlphabet[int(b)%len(affiliateAlphabet)]
	}
	return strings.ToUpper(prefix) + string(buf), nil
}
