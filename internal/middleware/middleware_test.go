package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"messapp/internal/config"
	"messapp/internal/domain/model"
	"messapp/internal/logger"
	"messapp/internal/middleware"
	"messapp/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mwErrorResponse struct {
	Error string `json:"error"`
}

type mwOKResponse struct {
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
	TokenVersion int    `json:"token_version"`
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) FindByEnrollment(ctx context.Context, enrollment string) (*model.User, error) {
	args := m.Called(ctx, enrollment)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	us, _ := args.Get(0).([]model.User)
	return us, args.Error(1)
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func mustMakeJWT(t *testing.T, secret string, sub int64, role string, tv int, signingMethod jwt.SigningMethod) string {
	t.Helper()

	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(sub, 10),
		"role": role,
		"tv":   tv,
		"iat":  1,
		"exp":  9999999999,
	}

	token := jwt.NewWithClaims(signingMethod, claims)

	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func runRequest(t *testing.T, e *echo.Echo, method string, path string, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeMWError(t *testing.T, rec *httptest.ResponseRecorder) mwErrorResponse {
	t.Helper()
	var r mwErrorResponse
	_ = json.NewDecoder(rec.Body).Decode(&r)
	return r
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
}

func TestAuthJWT_Unauthorized(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"bad scheme", "Token abc.def.ghi"},
		{"empty bearer", "Bearer  "},
		{"bad signature", "Bearer " + mustMakeJWT(t, "wrong-secret", 1, "STUDENT", 0, jwt.SigningMethodHS256)},
		{"wrong alg", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "STUDENT", 0, jwt.SigningMethodHS512)},
		{"bad sub", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 0, "STUDENT", 0, jwt.SigningMethodHS256)},
		{"no role", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "", 0, jwt.SigningMethodHS256)},
		{"unknown role", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "COOK", 0, jwt.SigningMethodHS256)},
		{"negative tv", "Bearer " + mustMakeJWT(t, cfg.JWTSecret, 1, "STUDENT", -1, jwt.SigningMethodHS256)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			e.GET("/protected", okHandler, middleware.AuthJWT(cfg))

			rec := runRequest(t, e, http.MethodGet, "/protected", tt.header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeMWError(t, rec).Error)
		})
	}
}

func TestAuthJWT_Success_SetsContext(t *testing.T) {
	e := echo.New()
	cfg := config.Config{JWTSecret: "test-secret"}

	raw := mustMakeJWT(t, cfg.JWTSecret, 123, "STUDENT", 7, jwt.SigningMethodHS256)

	e.GET("/protected", func(c echo.Context) error {
		userID, _ := c.Get(middleware.CtxUserIDKey).(int64)
		role, _ := c.Get(middleware.CtxUserRoleKey).(string)
		tv, _ := c.Get(middleware.CtxTokenVersionKey).(int)

		return c.JSON(http.StatusOK, mwOKResponse{
			UserID:       userID,
			Role:         role,
			TokenVersion: tv,
		})
	}, middleware.AuthJWT(cfg))

	rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body mwOKResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(123), body.UserID)
	assert.Equal(t, "STUDENT", body.Role)
	assert.Equal(t, 7, body.TokenVersion)
}

// AuthJWT missing => nothing on the context
func TestSessionGuard_MissingContext(t *testing.T) {
	e := echo.New()
	userRepo := new(MockUserRepo)

	e.GET("/protected", okHandler, middleware.SessionGuard(userRepo))

	rec := runRequest(t, e, http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	userRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSessionGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name     string
		dbUser   *model.User
		wantCode int
	}{
		{"match", &model.User{ID: 1, Role: model.RoleStudent, TokenVersion: 5, IsActive: true}, http.StatusOK},
		{"logged out since", &model.User{ID: 1, Role: model.RoleStudent, TokenVersion: 6, IsActive: true}, http.StatusUnauthorized},
		{"deactivated", &model.User{ID: 1, Role: model.RoleStudent, TokenVersion: 5, IsActive: false}, http.StatusUnauthorized},
		{"user gone", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			userRepo := new(MockUserRepo)
			userRepo.On("FindByID", mock.Anything, int64(1)).Return(tt.dbUser, nil)

			raw := mustMakeJWT(t, cfg.JWTSecret, 1, "STUDENT", 5, jwt.SigningMethodHS256)
			e.GET("/protected", okHandler, middleware.Protected(cfg, userRepo)...)

			rec := runRequest(t, e, http.MethodGet, "/protected", "Bearer "+raw)
			assert.Equal(t, tt.wantCode, rec.Code)
			userRepo.AssertExpectations(t)
		})
	}
}

func TestProtected_Roles(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	tests := []struct {
		name      string
		tokenRole string
		dbRole    model.Role
		wantCode  int
	}{
		{"admin", "ADMIN", model.RoleAdmin, http.StatusOK},
		{"student", "STUDENT", model.RoleStudent, http.StatusForbidden},
		// demoted after the token was issued
		{"stale admin claim", "ADMIN", model.RoleStudent, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			userRepo := new(MockUserRepo)
			userRepo.On("FindByID", mock.Anything, int64(9)).
				Return(&model.User{ID: 9, Role: tt.dbRole, IsActive: true}, nil)
			e.GET("/admin", okHandler, middleware.Protected(cfg, userRepo, model.RoleAdmin)...)

			raw := mustMakeJWT(t, cfg.JWTSecret, 9, tt.tokenRole, 0, jwt.SigningMethodHS256)
			rec := runRequest(t, e, http.MethodGet, "/admin", "Bearer "+raw)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}

	// guard alone, no role on the context
	e := echo.New()
	e.GET("/admin", okHandler, middleware.RequireRole(model.RoleAdmin))
	rec := runRequest(t, e, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestLogger_WritesAccessLine(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("mess-api", &buf, slog.LevelDebug)

	e := echo.New()
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.GET("/healthz", okHandler)

	rec := runRequest(t, e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "http_request", line["action"])
	assert.Equal(t, "/healthz", line["uri"])
	assert.Equal(t, float64(200), line["status"])
	assert.Equal(t, rec.Header().Get(echo.HeaderXRequestID), line["request_id"])
}
