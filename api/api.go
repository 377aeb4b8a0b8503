// Package api registers the Soundia REST surface on top of httpx: the auth
// endpoints, the gated user routes, and the public catalog routes.
package api

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/catalog"
	"github.com/soundia/soundia/httpx"
)

// API holds the services the handlers dispatch into.
type API struct {
	users   *auth.UserService
	tokens  *auth.TokenService
	catalog *catalog.Service
	gate    *auth.Gate
	logger  *log.Logger
	dev     bool
}

// Config wires the API's collaborators.
type Config struct {
	Users   *auth.UserService
	Tokens  *auth.TokenService
	Catalog *catalog.Service
	Gate    *auth.Gate
	Logger  *log.Logger
	// Development switches error responses to include failure detail.
	Development bool
}

func New(cfg Config) (*API, error) {
	if cfg.Users == nil || cfg.Tokens == nil || cfg.Catalog == nil || cfg.Gate == nil {
		return nil, errors.New("api: missing user service, token service, catalog service, or gate")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		users:   cfg.Users,
		tokens:  cfg.Tokens,
		catalog: cfg.Catalog,
		gate:    cfg.Gate,
		logger:  logger,
		dev:     cfg.Development,
	}, nil
}

// Register mounts all routes on the echo instance.
func (a *API) Register(e *httpx.Echo) {
	e.Use(a.requestLogger())

	authGroup := e.Group("/api/auth")
	authGroup.POST("/login", a.login)
	authGroup.POST("/register", a.register)
	authGroup.POST("/verify", a.verify)

	userGroup := e.Group("/api/user", a.gate.Require())
	userGroup.GET("/profile", a.profile)
	userGroup.PUT("/profile", a.updateProfile)
	userGroup.POST("/like-song/:songId", a.likeSong)
	userGroup.DELETE("/like-song/:songId", a.unlikeSong)

	songGroup := e.Group("/api/songs", a.gate.Optional())
	songGroup.GET("", a.listSongs)
	songGroup.GET("/:id", a.getSong)
	songGroup.POST("/:id/play", a.playSong)

	playlistGroup := e.Group("/api/playlists")
	playlistGroup.GET("", a.listPlaylists)
	playlistGroup.GET("/metadata", a.playlistMetadata)
	playlistGroup.GET("/:id", a.getPlaylist)

	e.GET("/api/health", a.health)
}

func (a *API) health(c httpx.Context) error {
	return c.JSON(httpx.StatusOK, map[string]string{
		"status":    "OK",
		"message":   "Soundia API Server is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) requestLogger() httpx.MiddlewareFunc {
	return func(next httpx.HandlerFunc) httpx.HandlerFunc {
		return func(c httpx.Context) error {
			start := time.Now()
			err := next(c)
			a.logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration", time.Since(start),
			)
			return err
		}
	}
}
