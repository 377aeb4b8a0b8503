package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("auth: password too short")
	ErrPasswordTooLong  = errors.New("auth: password too long")
	ErrPasswordMismatch = errors.New("auth: password does not match")
)

const (
	// DefaultBcryptCost mirrors the cost the store was seeded with.
	DefaultBcryptCost = 12

	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input ceiling.
	MaxPasswordLength = 72
)

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptHasherOption configures BcryptHasher.
type BcryptHasherOption func(*BcryptHasher)

// WithBcryptCost sets the bcrypt cost factor. Lower it in tests to keep
// hashing cheap.
func WithBcryptCost(cost int) BcryptHasherOption {
	return func(h *BcryptHasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewBcryptHasher creates a bcrypt-based password hasher.
func NewBcryptHasher(opts ...BcryptHasherOption) *BcryptHasher {
	h := &BcryptHasher{cost: DefaultBcryptCost}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Hash generates a salted bcrypt hash for the given password.
func (h *BcryptHasher) Hash(ctx context.Context, plain []byte) ([]byte, error) {
	if err := contextError(ctx); err != nil {
		return nil, err
	}
	if len(plain) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if len(plain) > MaxPasswordLength {
		return nil, ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword(plain, h.cost)
	if err != nil {
		return nil, fmt.Errorf("auth: bcrypt hash failed: %w", err)
	}
	return hashed, nil
}

// Compare validates a password against a stored hash in constant time.
func (h *BcryptHasher) Compare(ctx context.Context, plain, hashed []byte) error {
	if err := contextError(ctx); err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword(hashed, plain); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrPasswordMismatch
		}
		return fmt.Errorf("auth: bcrypt compare failed: %w", err)
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lower-cases and trims an email address so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail reports whether the address has a plausible mailbox format.
func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) == 0 || len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}
