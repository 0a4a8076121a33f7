package handler

import (
	"net/http"

	"messapp/internal/config"
	"messapp/internal/middleware"
	"messapp/internal/repository"
	"messapp/internal/usecase"

	"github.com/labstack/echo/v4"
)

type MenuHandler struct {
	uc *usecase.MenuUsecase
}

func NewMenuHandler(uc *usecase.MenuUsecase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

func (h *MenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	e.GET("/menu", h.get, middleware.Protected(cfg, userRepo)...)
}

func (h *MenuHandler) get(c echo.Context) error {
	out, err := h.uc.Menu(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
