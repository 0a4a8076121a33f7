package handler

import (
	"errors"
	"net/http"
	"strconv"

	"messapp/internal/config"
	"messapp/internal/domain/model"
	"messapp/internal/middleware"
	"messapp/internal/repository"
	"messapp/internal/usecase"
	auth "messapp/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AdminStudentHandler struct {
	uc       *usecase.AdminStudentUsecase
	logoutUC *auth.LogoutUsecase
}

func NewAdminStudentHandler(uc *usecase.AdminStudentUsecase, logoutUC *auth.LogoutUsecase) *AdminStudentHandler {
	return &AdminStudentHandler{uc: uc, logoutUC: logoutUC}
}

func (h *AdminStudentHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	// everything under /admin: JWT + token_version + ADMIN
	admin := e.Group("/admin/students", middleware.Protected(cfg, userRepo, model.RoleAdmin)...)

	admin.GET("", h.list)
	admin.POST("/:id/force-logout", h.forceLogout)
}

func (h *AdminStudentHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminStudentHandler) forceLogout(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
	}

	if err := h.logoutUC.Execute(c.Request().Context(), userID); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}
