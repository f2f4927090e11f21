// Package httpapi exposes the authentication and profile endpoints over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/teamsphere/api/internal/logging"
	"github.com/teamsphere/api/internal/server/auth"
)

const shutdownTimeout = 10 * time.Second

// Server holds the echo instance and the services the handlers call.
type Server struct {
	echo     *echo.Echo
	addr     string
	logger   logging.Logger
	sessions Sessions
	avatars  Avatars
}

// NewServer wires routes and middleware. Every route runs through the
// authenticator; routes that must reject anonymous requests add RequireAuth.
func NewServer(addr string, codec *auth.Codec, sessions Sessions, avatars Avatars, logger logging.Logger) *Server {
	s := &Server{
		addr:     addr,
		logger:   logger,
		sessions: sessions,
		avatars:  avatars,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	authenticator := NewAuthenticator(codec, logger)
	e.Use(authenticator.Middleware())

	e.POST("/auth/signin", s.signin)
	e.POST("/auth/refresh", s.refresh)
	e.GET("/auth/verify", s.verify)
	e.POST("/auth/logout", s.logout, RequireAuth())

	profile := e.Group("/profile", RequireAuth())
	profile.POST("/avatar/upload-url", s.avatarUploadURL)
	profile.GET("/avatar/download-url", s.avatarDownloadURL)

	s.echo = e
	return s
}

// Run starts the listener and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info(ctx, "starting http server", "addr", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(shutdownCtx, "shutting down http server")
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
