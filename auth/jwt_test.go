package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenServiceConfig{Secret: []byte(secret), TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService(TokenServiceConfig{}); !errors.Is(err, ErrMissingSigningKey) {
		t.Fatalf("error = %v, want ErrMissingSigningKey", err)
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, "round-trip-secret")

	payload := svc.BuildSessionPayload(User{
		ID:    "user-1",
		Email: "jane@example.com",
		Name:  "Jane",
	})

	token, err := svc.Issue(payload)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if got.UserID != payload.UserID || got.Email != payload.Email || got.Name != payload.Name {
		t.Fatalf("Verify() = %+v, want %+v", got, payload)
	}
	if !got.IssuedAt.Equal(payload.IssuedAt) {
		t.Fatalf("Verify() issued at = %v, want %v", got.IssuedAt, payload.IssuedAt)
	}
}

func TestTokenServiceRejectsWrongSecret(t *testing.T) {
	issuer := newTestTokenService(t, "secret-one")
	verifier := newTestTokenService(t, "secret-two")

	token, err := issuer.Issue(SessionPayload{UserID: "user-1"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := verifier.Verify(token); !errors.Is(err, ErrTokenInvalidSignature) {
		t.Fatalf("Verify() error = %v, want ErrTokenInvalidSignature", err)
	}
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	svc := newTestTokenService(t, "tamper-secret")

	token, err := svc.Issue(SessionPayload{UserID: "user-1", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flipping any single byte must invalidate the token.
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, err := svc.Verify(string(mutated)); err == nil {
			t.Fatalf("Verify() accepted token with byte %d flipped", i)
		}
	}
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := newTestTokenService(t, "expiry-secret")

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.SetNowFunc(func() time.Time { return issued })

	token, err := svc.Issue(svc.BuildSessionPayload(User{ID: "user-1"}))
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.SetNowFunc(func() time.Time { return issued.Add(time.Hour + time.Second) })
	if _, err := svc.Verify(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify() error = %v, want ErrTokenExpired", err)
	}

	// Leeway absorbs small clock skew past the deadline.
	svc.SetLeeway(30 * time.Second)
	svc.SetNowFunc(func() time.Time { return issued.Add(time.Hour + 10*time.Second) })
	if _, err := svc.Verify(token); err != nil {
		t.Fatalf("Verify() with leeway error = %v", err)
	}
}

func TestTokenServiceRejectsMalformed(t *testing.T) {
	svc := newTestTokenService(t, "malformed-secret")

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"garbage", "not-a-token"},
		{"bad base64", "!!!.???.###"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Verify(tt.raw); err == nil {
				t.Fatalf("Verify(%q) accepted malformed token", tt.raw)
			}
		})
	}
}

func TestTokenServiceRejectsForeignAlgorithm(t *testing.T) {
	svc := newTestTokenService(t, "algo-secret")

	header, err := encodeSegment(tokenHeader{Algorithm: "none", Type: "JWT"})
	if err != nil {
		t.Fatalf("encodeSegment() error = %v", err)
	}
	claims, err := encodeSegment(tokenClaims{UserID: "user-1"})
	if err != nil {
		t.Fatalf("encodeSegment() error = %v", err)
	}
	raw := header + "." + claims + "."

	if _, err := svc.Verify(raw); !errors.Is(err, ErrTokenUnsupportedAlgo) {
		t.Fatalf("Verify() error = %v, want ErrTokenUnsupportedAlgo", err)
	}
}

func TestBuildSessionPayloadOmitsSecrets(t *testing.T) {
	svc := newTestTokenService(t, "shape-secret")
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	svc.SetNowFunc(func() time.Time { return now })

	payload := svc.BuildSessionPayload(User{
		ID:           "user-1",
		Email:        "jane@example.com",
		Name:         "Jane",
		PasswordHash: []byte("$2a$12$not-for-export"),
	})

	if !payload.IssuedAt.Equal(now) {
		t.Fatalf("IssuedAt = %v, want %v", payload.IssuedAt, now)
	}

	token, err := svc.Issue(payload)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claimsJSON, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	if err != nil {
		t.Fatalf("decode claims segment: %v", err)
	}
	if strings.Contains(string(claimsJSON), "not-for-export") {
		t.Fatal("token claims leak password hash material")
	}

	var claims map[string]any
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		t.Fatalf("unmarshal claims: %v", err)
	}
	for key := range claims {
		switch key {
		case "id", "email", "name", "iat", "exp":
		default:
			t.Fatalf("unexpected claim %q in session payload", key)
		}
	}
}
