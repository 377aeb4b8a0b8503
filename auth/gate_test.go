package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

type fakeResolver struct {
	users map[string]User
	err   error
	calls int
}

func (f *fakeResolver) GetByID(_ context.Context, id string) (User, error) {
	f.calls++
	if f.err != nil {
		return User{}, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

type gateHarness struct {
	gate     *Gate
	tokens   *TokenService
	resolver *fakeResolver
}

func newGateHarness(t *testing.T) *gateHarness {
	t.Helper()
	tokens, err := NewTokenService(TokenServiceConfig{Secret: []byte("gate-test-secret"), TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	resolver := &fakeResolver{users: map[string]User{
		"user-1": {ID: "user-1", Email: "jane@example.com", Name: "Jane"},
	}}
	gate, err := NewGate(GateConfig{
		Tokens: tokens,
		Users:  resolver,
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return &gateHarness{gate: gate, tokens: tokens, resolver: resolver}
}

func (h *gateHarness) tokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := h.tokens.Issue(SessionPayload{UserID: userID})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	return token
}

// serve runs a request through the middleware wrapping a probe handler and
// reports whether the handler ran and with which identity.
func serve(t *testing.T, mw echo.MiddlewareFunc, authorization string) (*httptest.ResponseRecorder, bool, *User) {
	t.Helper()

	var invoked bool
	var attached *User
	handler := mw(func(c echo.Context) error {
		invoked = true
		if user, ok := IdentityFromRequest(c); ok {
			attached = &user
		}
		return c.NoContent(http.StatusOK)
	})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return rec, invoked, attached
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body %q is not JSON: %v", rec.Body.String(), err)
	}
	return body["error"]
}

func TestGateRequireMissingToken(t *testing.T) {
	h := newGateHarness(t)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token", "sometoken"},
		{"empty bearer", "Bearer "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, invoked, _ := serve(t, h.gate.Require(), tt.header)
			if invoked {
				t.Fatal("handler ran without a token")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if got := decodeErrorBody(t, rec); got != "No token provided" {
				t.Fatalf("error body = %q, want %q", got, "No token provided")
			}
		})
	}
}

func TestGateRequireInvalidToken(t *testing.T) {
	h := newGateHarness(t)

	rec, invoked, _ := serve(t, h.gate.Require(), "Bearer not-a-real-token")
	if invoked {
		t.Fatal("handler ran with an invalid token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := decodeErrorBody(t, rec); got != "Invalid token" {
		t.Fatalf("error body = %q, want %q", got, "Invalid token")
	}
	if h.resolver.calls != 0 {
		t.Fatal("store was queried for an invalid token")
	}
}

func TestGateRequireDeletedIdentity(t *testing.T) {
	h := newGateHarness(t)
	token := h.tokenFor(t, "user-gone")

	rec, invoked, _ := serve(t, h.gate.Require(), "Bearer "+token)
	if invoked {
		t.Fatal("handler ran for a deleted identity")
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if got := decodeErrorBody(t, rec); got != "User not found" {
		t.Fatalf("error body = %q, want %q", got, "User not found")
	}
}

func TestGateRequireStoreFault(t *testing.T) {
	h := newGateHarness(t)
	h.resolver.err = errors.New("connection refused")
	token := h.tokenFor(t, "user-1")

	rec, invoked, _ := serve(t, h.gate.Require(), "Bearer "+token)
	if invoked {
		t.Fatal("handler ran despite store fault")
	}
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestGateRequireAttachesIdentity(t *testing.T) {
	h := newGateHarness(t)
	token := h.tokenFor(t, "user-1")

	rec, invoked, attached := serve(t, h.gate.Require(), "Bearer "+token)
	if !invoked {
		t.Fatal("handler did not run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if attached == nil || attached.ID != "user-1" {
		t.Fatalf("attached identity = %+v, want user-1", attached)
	}
	if h.resolver.calls != 1 {
		t.Fatalf("store reads = %d, want exactly one per request", h.resolver.calls)
	}
}

func TestGateOptionalDegradesToAnonymous(t *testing.T) {
	h := newGateHarness(t)

	tests := []struct {
		name   string
		header string
		setup  func()
	}{
		{"no header", "", nil},
		{"invalid token", "Bearer garbage", nil},
		{"deleted identity", "Bearer " + h.tokenFor(t, "user-gone"), nil},
		{"store fault", "Bearer " + h.tokenFor(t, "user-1"), func() {
			h.resolver.err = errors.New("connection refused")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.resolver.err = nil
			if tt.setup != nil {
				tt.setup()
			}
			rec, invoked, attached := serve(t, h.gate.Optional(), tt.header)
			if !invoked {
				t.Fatal("handler did not run")
			}
			if attached != nil {
				t.Fatalf("identity attached: %+v", attached)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
		})
	}
}

func TestGateOptionalAttachesValidIdentity(t *testing.T) {
	h := newGateHarness(t)
	token := h.tokenFor(t, "user-1")

	_, invoked, attached := serve(t, h.gate.Optional(), "Bearer "+token)
	if !invoked {
		t.Fatal("handler did not run")
	}
	if attached == nil || attached.ID != "user-1" {
		t.Fatalf("attached identity = %+v, want user-1", attached)
	}
}

func TestIdentityFromContextAbsent(t *testing.T) {
	if _, ok := IdentityFromContext(context.Background()); ok {
		t.Fatal("identity reported on empty context")
	}
	var nilCtx context.Context
	if _, ok := IdentityFromContext(nilCtx); ok {
		t.Fatal("identity reported on nil context")
	}
}
