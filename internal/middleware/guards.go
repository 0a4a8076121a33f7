package middleware

import (
	"net/http"

	"messapp/internal/config"
	"messapp/internal/domain/model"
	"messapp/internal/repository"

	"github.com/labstack/echo/v4"
)

// Protected is the middleware chain for signed-in routes. With roles, only
// those roles get through.
func Protected(cfg config.Config, users repository.UserRepository, roles ...model.Role) []echo.MiddlewareFunc {
	chain := []echo.MiddlewareFunc{AuthJWT(cfg), SessionGuard(users)}
	if len(roles) > 0 {
		chain = append(chain, RequireRole(roles...))
	}
	return chain
}

// SessionGuard rejects tokens of deactivated users and tokens issued before
// the last logout (tv no longer matches token_version). Run it after AuthJWT.
func SessionGuard(users repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return unauthorized(c)
			}
			tv, ok := c.Get(CtxTokenVersionKey).(int)
			if !ok {
				return unauthorized(c)
			}

			user, err := users.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || !user.IsActive || user.TokenVersion != tv {
				return unauthorized(c)
			}

			// the stored role wins over the claim
			c.Set(CtxUserRoleKey, string(user.Role))
			return next(c)
		}
	}
}

func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || role == "" {
				return unauthorized(c)
			}
			for _, r := range roles {
				if role == string(r) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}
