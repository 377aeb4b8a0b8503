package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

var (
	ErrNoToken = errors.New("auth: no bearer token in request")
)

type identityContextKey struct{}

// gatePolicy decides what a pipeline failure does to the request: reject it
// at the boundary, or continue without an attached identity.
type gatePolicy int

const (
	policyReject gatePolicy = iota
	policyContinue
)

// Gate is the request-processing step that extracts a bearer token,
// verifies it, resolves the identity behind it, and attaches that identity
// to the request context. It performs at most one store read per request
// and never caches verification results.
type Gate struct {
	tokens TokenVerifier
	users  IdentityResolver
	logger *log.Logger
}

// GateConfig wires the gate's collaborators.
type GateConfig struct {
	Tokens TokenVerifier
	Users  IdentityResolver
	Logger *log.Logger
}

// NewGate builds a Gate from explicit dependencies.
func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Tokens == nil || cfg.Users == nil {
		return nil, errors.New("auth: gate requires a token verifier and an identity resolver")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Gate{tokens: cfg.Tokens, users: cfg.Users, logger: logger}, nil
}

// Require returns middleware that rejects requests failing any pipeline
// step: missing token 401, invalid token 401, unknown identity 404,
// unreachable store 500. The wrapped handler only runs with an identity
// attached.
func (g *Gate) Require() echo.MiddlewareFunc {
	return g.middleware(policyReject)
}

// Optional returns middleware running the same pipeline, but every failure
// degrades to proceeding unauthenticated. Handlers must check
// IdentityFromContext themselves. Store faults are logged and swallowed.
func (g *Gate) Optional() echo.MiddlewareFunc {
	return g.middleware(policyContinue)
}

func (g *Gate) middleware(policy gatePolicy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request())
			if err != nil {
				if policy == policyReject {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "No token provided"})
				}
				return next(c)
			}

			payload, err := g.tokens.Verify(raw)
			if err != nil {
				if policy == policyReject {
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid token"})
				}
				return next(c)
			}

			user, err := g.users.GetByID(c.Request().Context(), payload.UserID)
			if err != nil {
				if policy == policyContinue {
					if !errors.Is(err, ErrUserNotFound) {
						g.logger.Warn("optional auth: identity lookup failed", "err", err)
					}
					return next(c)
				}
				if errors.Is(err, ErrUserNotFound) {
					return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
				}
				g.logger.Error("auth gate: identity lookup failed", "err", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}

			return next(withIdentity(c, user))
		}
	}
}

func withIdentity(c echo.Context, user User) echo.Context {
	req := c.Request()
	ctx := context.WithValue(req.Context(), identityContextKey{}, user)
	c.SetRequest(req.WithContext(ctx))
	return c
}

// IdentityFromContext returns the identity attached by the gate, if any.
// The binding is valid only for the duration of the request.
func IdentityFromContext(ctx context.Context) (User, bool) {
	if ctx == nil {
		return User{}, false
	}
	user, ok := ctx.Value(identityContextKey{}).(User)
	return user, ok
}

// IdentityFromRequest is a convenience accessor for echo handlers.
func IdentityFromRequest(c echo.Context) (User, bool) {
	return IdentityFromContext(c.Request().Context())
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrNoToken
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
