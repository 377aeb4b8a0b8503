package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrTokenInvalidFormat    = errors.New("auth: invalid token format")
	ErrTokenInvalidSignature = errors.New("auth: invalid token signature")
	ErrTokenUnsupportedAlgo  = errors.New("auth: unsupported token algorithm")
	ErrTokenExpired          = errors.New("auth: token expired")
	ErrTokenIssuance         = errors.New("auth: token issuance failed")
	ErrMissingSigningKey     = errors.New("auth: missing signing key")
)

// DefaultTokenTTL is the validity window applied when none is configured.
const DefaultTokenTTL = 7 * 24 * time.Hour

const signingAlgorithm = "HS256"

// Strict decoding rejects non-canonical padding bits, so every single-byte
// mutation of a token invalidates it.
var tokenEncoding = base64.RawURLEncoding.Strict()

type tokenHeader struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

type tokenClaims struct {
	UserID    string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService issues and verifies HMAC-SHA256 signed session tokens.
// Tokens are stateless: nothing is persisted server-side and there is no
// revocation list, so a token stays valid until its expiry passes.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// TokenServiceConfig wires the secret key and validity window. Both come
// from process configuration rather than ambient globals so tests can run
// isolated services with distinct secrets.
type TokenServiceConfig struct {
	Secret []byte
	TTL    time.Duration
}

// NewTokenService builds a TokenService from explicit configuration.
func NewTokenService(cfg TokenServiceConfig) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrMissingSigningKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// SetNowFunc injects a deterministic clock (useful for tests).
func (s *TokenService) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	s.now = fn
}

// SetLeeway allows a grace period on expiry checks to absorb clock skew.
func (s *TokenService) SetLeeway(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.leeway = d
}

// TTL reports the configured validity window.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs the payload together with an expiry derived from the service
// TTL and returns the encoded token string. A signing failure is fatal and
// surfaces as ErrTokenIssuance; it is never retried.
func (s *TokenService) Issue(payload SessionPayload) (string, error) {
	issuedAt := payload.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = s.now()
	}

	headerSeg, err := encodeSegment(tokenHeader{Algorithm: signingAlgorithm, Type: "JWT"})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}
	claimsSeg, err := encodeSegment(tokenClaims{
		UserID:    payload.UserID,
		Email:     payload.Email,
		Name:      payload.Name,
		IssuedAt:  issuedAt.Unix(),
		ExpiresAt: issuedAt.Add(s.ttl).Unix(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenIssuance, err)
	}

	signingInput := headerSeg + "." + claimsSeg
	return signingInput + "." + s.sign(signingInput), nil
}

// Verify decodes the token, checks signature integrity and expiry, and
// returns the embedded session payload. Every failure mode collapses into
// one of the ErrToken sentinels; callers treat the outcome as boolean-like
// and must never escalate it into an aborted request pipeline. Verify is
// pure computation: deterministic given token, secret, and current time.
func (s *TokenService) Verify(raw string) (SessionPayload, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return SessionPayload{}, ErrTokenInvalidFormat
	}

	var header tokenHeader
	if err := decodeSegment(parts[0], &header); err != nil {
		return SessionPayload{}, ErrTokenInvalidFormat
	}
	if header.Algorithm != signingAlgorithm {
		return SessionPayload{}, ErrTokenUnsupportedAlgo
	}

	provided, err := tokenEncoding.DecodeString(parts[2])
	if err != nil {
		return SessionPayload{}, ErrTokenInvalidSignature
	}
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(provided, mac.Sum(nil)) {
		return SessionPayload{}, ErrTokenInvalidSignature
	}

	var claims tokenClaims
	if err := decodeSegment(parts[1], &claims); err != nil {
		return SessionPayload{}, ErrTokenInvalidFormat
	}
	if claims.ExpiresAt != 0 && s.now().After(time.Unix(claims.ExpiresAt, 0).Add(s.leeway)) {
		return SessionPayload{}, ErrTokenExpired
	}

	return SessionPayload{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		IssuedAt: time.Unix(claims.IssuedAt, 0).UTC(),
	}, nil
}

func (s *TokenService) sign(input string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(input))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func encodeSegment(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeSegment(segment string, dest any) error {
	data, err := tokenEncoding.DecodeString(segment)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}
