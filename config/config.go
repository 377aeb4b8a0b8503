// Package config loads process configuration from SOUNDIA_* environment
// variables into an explicit struct that gets passed into constructors,
// keeping tests free to run isolated instances with distinct secrets.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "SOUNDIA_"

// DefaultJWTSecret is the insecure fallback applied when no secret is
// configured. Deployments must override it; the server logs a warning when
// it is in effect.
const DefaultJWTSecret = "your-secret-key-change-this-in-production"

const (
	defaultAddr         = ":5000"
	defaultEnv          = "development"
	defaultTokenTTL     = 7 * 24 * time.Hour
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 15 * time.Second
)

// Config carries everything the server needs from the environment.
type Config struct {
	// Addr is the listen address, e.g. ":5000".
	Addr string
	// Env is "development" or "production"; it gates verbose error bodies.
	Env string
	// DatabaseURL is the lib/pq connection string.
	DatabaseURL string
	// JWTSecret signs session tokens. Falls back to DefaultJWTSecret.
	JWTSecret string
	// TokenTTL is the session token validity window.
	TokenTTL time.Duration

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads SOUNDIA_* environment variables, applying defaults for
// anything unset. SOUNDIA_TOKEN_TTL takes a Go duration string ("168h").
func Load() (Config, error) {
	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return Config{}, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := Config{
		Addr:         stringOr(k, "addr", defaultAddr),
		Env:          strings.ToLower(stringOr(k, "env", defaultEnv)),
		DatabaseURL:  k.String("database.url"),
		JWTSecret:    stringOr(k, "jwt.secret", DefaultJWTSecret),
		TokenTTL:     defaultTokenTTL,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}

	if raw := k.String("token.ttl"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: parse SOUNDIA_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, fmt.Errorf("config: SOUNDIA_TOKEN_TTL must be positive, got %s", ttl)
		}
		cfg.TokenTTL = ttl
	}

	switch cfg.Env {
	case "development", "production":
	default:
		return Config{}, fmt.Errorf("config: unknown SOUNDIA_ENV %q", cfg.Env)
	}

	return cfg, nil
}

// IsProduction reports whether verbose error detail should be suppressed.
func (c Config) IsProduction() bool { return c.Env == "production" }

// UsesFallbackSecret reports whether the known weak default secret is in
// effect.
func (c Config) UsesFallbackSecret() bool { return c.JWTSecret == DefaultJWTSecret }

func stringOr(k *koanf.Koanf, path, fallback string) string {
	if v := k.String(path); v != "" {
		return v
	}
	return fallback
}
