package handler

import (
	"net/http"

	"messapp/internal/config"
	"messapp/internal/domain/model"
	"messapp/internal/middleware"
	"messapp/internal/repository"
	"messapp/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminMenuHandler struct {
	uc *usecase.MenuUsecase
}

func NewAdminMenuHandler(uc *usecase.MenuUsecase) *AdminMenuHandler {
	return &AdminMenuHandler{uc: uc}
}

func (h *AdminMenuHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	admin := e.Group("/admin/menu", middleware.Protected(cfg, userRepo, model.RoleAdmin)...)

	admin.GET("", h.get)
	admin.PUT("", h.replace)
}

// unfiltered: the veg filter only applies to students
func (h *AdminMenuHandler) get(c echo.Context) error {
	out, err := h.uc.AdminMenu(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminMenuHandler) replace(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ReplaceMenuInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Replace(c.Request().Context(), adminID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
