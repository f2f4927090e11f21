// Package server initializes and runs the API server: it opens the
// database, applies migrations, loads the JWT signing keys, wires the
// services, and serves the HTTP endpoints until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/teamsphere/api/internal/logging"
	"github.com/teamsphere/api/internal/server/auth"
	"github.com/teamsphere/api/internal/server/config"
	"github.com/teamsphere/api/internal/server/httpapi"
	"github.com/teamsphere/api/internal/server/repositories/repomanager"
	"github.com/teamsphere/api/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	keys, err := auth.LoadKeyMaterial(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("jwt key error: %w", err)
	}
	codec := auth.NewCodec(keys, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenValidityDuration)

	us := services.NewUserService(db, repos)
	ss := services.NewSessionService(db, repos, us, codec, cfg.RefreshTokenValidityDuration, logger)
	as := services.NewAvatarService(cfg)

	srv := httpapi.NewServer(cfg.EndpointAddrHTTP, codec, ss, as, logger)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
