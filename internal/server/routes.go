package server

import (
	"messapp/internal/config"
	"messapp/internal/repository"

	"github.com/labstack/echo/v4"
)

// RouteRegistrar is implemented by every authenticated handler.
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository)
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, hs ...RouteRegistrar) {
	for _, h := range hs {
		h.RegisterRoutes(e, cfg, userRepo)
	}
}
