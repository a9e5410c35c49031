package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/shelfgraph/shelfgraph/internal/profile"
	apiv1 "github.com/shelfgraph/shelfgraph/server/router/api/v1"
	"github.com/shelfgraph/shelfgraph/server/router/rss"
	"github.com/shelfgraph/shelfgraph/store"
)

type Server struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

func NewServer(_ context.Context, profile *profile.Profile, store *store.Store) (*Server, error) {
	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	echoServer.Use(echomw.Secure())
	echoServer.Use(echomw.TimeoutWithConfig(echomw.TimeoutConfig{
		// Library analysis fans out one model call per book.
		Timeout: 5 * time.Minute,
	}))
	echoServer.HTTPErrorHandler = newHTTPErrorHandler(echoServer)

	server := &Server{
		Secret:     profile.Secret,
		Profile:    profile,
		Store:      store,
		echoServer: echoServer,
	}

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	apiV1Service := apiv1.NewAPIV1Service(server.Secret, profile, store)
	apiV1Service.Register(echoServer)

	rssService := rss.NewRSSService(profile, store)
	rssService.RegisterRoutes(echoServer)

	return server, nil
}

func (s *Server) Start(_ context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", slog.String("address", address))
	if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "failed to start echo server")
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server", slog.Any("error", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", slog.Any("error", err))
	}
	slog.Info("server stopped")
}
