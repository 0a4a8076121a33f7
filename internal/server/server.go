package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"messapp/internal/config"
	"messapp/internal/handler"
	"messapp/internal/logger"
	"messapp/internal/middleware"
	"messapp/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 5 * time.Second

// New builds the echo instance with the shared middleware stack and all routes.
func New(
	cfg config.Config,
	log *logger.Logger,
	userRepo repository.UserRepository,
	health *handler.HealthHandler,
	hs ...RouteRegistrar,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: strings.Split(cfg.FEURL, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderAuthorization,
			echo.HeaderContentType,
			handler.HeaderIdempotencyKey,
		},
	}))

	if health != nil {
		health.RegisterRoutes(e)
	}
	RegisterRoutes(e, cfg, userRepo, hs...)
	return e
}

// Start serves on :PORT until ctx is cancelled, then drains in-flight requests.
func Start(ctx context.Context, e *echo.Echo, port string, log *logger.Logger) error {
	addr := port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_start", "", "listening", slog.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stop", "", "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
