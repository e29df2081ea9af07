// Package server hosts the HTTP surface of naldo.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/hyeonlog/naldo/internal/profile"
	naldomw "github.com/hyeonlog/naldo/server/middleware"
	apiv1 "github.com/hyeonlog/naldo/server/router/api/v1"
	"github.com/hyeonlog/naldo/server/service/schedule"
	"github.com/hyeonlog/naldo/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
}

func NewServer(profile *profile.Profile, store *store.Store, scheduleService schedule.Service) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger())
	e.Use(naldomw.NewRateLimiter(10, 20).Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
			"mode":    profile.Mode,
		})
	})

	apiv1.NewAPIV1Service(profile, store, scheduleService).RegisterRoutes(e)

	return &Server{
		Profile:    profile,
		Store:      store,
		echoServer: e,
	}
}

// Start serves HTTP until ctx is canceled, then drains in-flight requests
// and closes the store.
func (s *Server) Start(ctx context.Context) error {
	address := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started",
		slog.String("address", address),
		slog.String("version", s.Profile.Version),
		slog.String("driver", s.Profile.Driver))

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.echoServer.Start(address); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		return s.shutdown()
	})
	return group.Wait()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shut down http server", slog.Any("err", err))
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close store", slog.Any("err", err))
	}
	slog.Info("server stopped")
	return nil
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("err", v.Error))
			}
			slog.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	})
}
