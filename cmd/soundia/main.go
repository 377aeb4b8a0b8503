// Command soundia runs the Soundia API server.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/soundia/soundia/api"
	"github.com/soundia/soundia/auth"
	"github.com/soundia/soundia/catalog"
	"github.com/soundia/soundia/config"
	"github.com/soundia/soundia/db/sql/postgres"
	"github.com/soundia/soundia/httpx"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "soundia",
	})

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("server exited", "err", err)
	}
}

func run(logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.UsesFallbackSecret() {
		logger.Warn("SOUNDIA_JWT_SECRET is unset; using the insecure default secret")
	}

	db, err := postgres.Open(postgres.WithDSN(cfg.DatabaseURL))
	if err != nil {
		return err
	}
	defer db.Close()

	if err := postgres.ApplyMigrations(ctx, db, postgres.Schema()...); err != nil {
		return err
	}

	tokens, err := auth.NewTokenService(auth.TokenServiceConfig{
		Secret: []byte(cfg.JWTSecret),
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return err
	}

	userRepo := postgres.NewUserRepository(db)
	users, err := auth.NewUserService(auth.UserServiceConfig{
		Repository: userRepo,
		Hasher:     auth.NewBcryptHasher(),
		Tokens:     tokens,
	})
	if err != nil {
		return err
	}

	gate, err := auth.NewGate(auth.GateConfig{
		Tokens: tokens,
		Users:  userRepo,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Songs:     postgres.NewSongRepository(db),
		Playlists: postgres.NewPlaylistRepository(db),
	})
	if err != nil {
		return err
	}

	a, err := api.New(api.Config{
		Users:       users,
		Tokens:      tokens,
		Catalog:     catalogSvc,
		Gate:        gate,
		Logger:      logger,
		Development: !cfg.IsProduction(),
	})
	if err != nil {
		return err
	}

	server := httpx.NewServer(
		httpx.WithAddress(cfg.Addr),
		httpx.WithTimeouts(cfg.ReadTimeout, cfg.WriteTimeout),
		httpx.WithErrorHandler(a.ErrorHandler),
		httpx.WithCORS(nil),
		httpx.AppendMiddlewares(httpx.BodyLimitMiddleware("10M")),
	)
	server.RegisterRoutes(a.Register)

	logger.Info("listening", "addr", cfg.Addr, "env", cfg.Env)
	return server.Start(ctx)
}
