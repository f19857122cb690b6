package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dispatch-hub/backend/internal/application/usecase/auth"
	"github.com/dispatch-hub/backend/internal/infra/workerpool"
	"github.com/dispatch-hub/backend/internal/integration/adapters"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/controller"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/dto"
	"github.com/dispatch-hub/backend/internal/integration/entrypoint/middleware"
	"github.com/dispatch-hub/backend/internal/integration/persistence"
	"github.com/dispatch-hub/backend/internal/integration/persistence/model"
)

type testServer struct {
	engine    *gin.Engine
	db        *gorm.DB
	imageRoot string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	imageRoot := t.TempDir()
	repo := persistence.NewAuthRepository(db)
	passwords := adapters.NewPasswordService(bcrypt.MinCost)
	tokens := adapters.NewSessionTokenService()
	pool := workerpool.New(workerpool.Config{Size: 2})

	validate := auth.NewValidateSessionUseCase(repo)
	authController := controller.NewAuthController(
		auth.NewRegisterUserUseCase(repo, passwords, tokens, pool),
		auth.NewLoginUserUseCase(repo, passwords, tokens, pool),
		auth.NewLogoutUserUseCase(repo),
		validate,
	)
	userController := controller.NewUserController(
		auth.NewGetCurrentUserUseCase(repo),
		auth.NewGetProfileImageUseCase(repo, adapters.NewImageProcessor(0), pool, imageRoot, 512),
	)
	sessions := middleware.NewSessionMiddleware(validate)

	engine := gin.New()
	v1 := engine.Group("/api/v1")
	v1.POST("/auth/register", authController.Register)
	v1.POST("/auth/login", authController.Login)
	v1.POST("/auth/logout", authController.Logout)
	v1.GET("/auth/session", authController.ValidateSession)
	users := v1.Group("/users", sessions.Authenticate())
	users.GET("/me", userController.Me)
	users.GET("/:id/profile-image", userController.ProfileImage)

	return &testServer{engine: engine, db: db, imageRoot: imageRoot}
}

func (s *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username": "bob", "password": "pw123", "role": "dispatcher", "area_id": 7,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	registered := decode[dto.LoginResponse](t, rec)
	assert.Equal(t, "bob", registered.Username)
	assert.Equal(t, "dispatcher", registered.Role)
	require.NotNil(t, registered.AreaID)
	assert.Equal(t, 7, *registered.AreaID)
	assert.NotNil(t, registered.DispatcherID)
	assert.NotEmpty(t, registered.SessionToken)

	rec = s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "bob", "password": "pw123"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	loggedIn := decode[dto.LoginResponse](t, rec)
	assert.Equal(t, registered.UserID, loggedIn.UserID)
	assert.Equal(t, *registered.AreaID, *loggedIn.AreaID)
	assert.NotEqual(t, registered.SessionToken, loggedIn.SessionToken)
}

func TestRegister_PlainUserOmitsDispatcherFields(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username": "alice", "password": "pw", "role": "user",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.NotContains(t, raw, "dispatcher_id")
	assert.NotContains(t, raw, "area_id")
}

func TestRegister_ErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username": "taken", "password": "pw", "role": "user",
	}, "").Code)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"dispatcher without area", map[string]any{"username": "d", "password": "pw", "role": "dispatcher"}, http.StatusBadRequest},
		{"unknown role", map[string]any{"username": "d", "password": "pw", "role": "admin"}, http.StatusBadRequest},
		{"missing password", map[string]any{"username": "d", "role": "user"}, http.StatusBadRequest},
		{"duplicate username", map[string]any{"username": "taken", "password": "pw", "role": "user"}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, "/api/v1/auth/register", tt.body, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			errResp := decode[dto.ErrorResponse](t, rec)
			assert.NotEmpty(t, errResp.Code)
		})
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "alice", "password": "pw", "role": "user"}, "")

	unknown := s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "nobody", "password": "pw"}, "")
	wrong := s.do(http.MethodPost, "/api/v1/auth/login", map[string]any{"username": "alice", "password": "nope"}, "")

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.JSONEq(t, unknown.Body.String(), wrong.Body.String())
}

func TestLogoutThenValidate(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "alice", "password": "pw", "role": "user"}, "")
	token := decode[dto.LoginResponse](t, rec).SessionToken

	rec = s.do(http.MethodGet, "/api/v1/auth/session", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[dto.ValidateSessionResponse](t, rec).Valid)

	rec = s.do(http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Successfully logged out", decode[dto.MessageResponse](t, rec).Message)

	rec = s.do(http.MethodGet, "/api/v1/auth/session", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/auth/session", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCurrentUser(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{
		"username": "dana", "password": "pw", "role": "dispatcher", "area_id": 3,
	}, "")
	registered := decode[dto.LoginResponse](t, rec)

	rec = s.do(http.MethodGet, "/api/v1/users/me", nil, registered.SessionToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	me := decode[dto.CurrentUserResponse](t, rec)
	assert.Equal(t, registered.UserID, me.UserID)
	assert.Equal(t, "dana", me.Username)
	require.NotNil(t, me.AreaID)
	assert.Equal(t, 3, *me.AreaID)

	rec = s.do(http.MethodGet, "/api/v1/users/me", nil, "bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfileImage(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodPost, "/api/v1/auth/register", map[string]any{"username": "alice", "password": "pw", "role": "user"}, "")
	registered := decode[dto.LoginResponse](t, rec)
	token := registered.SessionToken
	imagePath := fmt.Sprintf("/api/v1/users/%d/profile-image", registered.UserID)

	// No image stored yet
	rec = s.do(http.MethodGet, imagePath+"?width=10&height=10", nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	src := image.NewRGBA(image.Rect(0, 0, 30, 20))
	for x := 0; x < 30; x++ {
		src.Set(x, x%20, color.RGBA{R: 255, A: 255})
	}
	f, err := os.Create(filepath.Join(s.imageRoot, "alice.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, src))
	require.NoError(t, f.Close())
	require.NoError(t, s.db.Model(&model.UserModel{}).
		Where("id = ?", registered.UserID).
		Update("profile_image", "alice.png").Error)

	rec = s.do(http.MethodGet, imagePath+"?width=12&height=8", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, auth.ProfileImageContentType, rec.Header().Get("Content-Type"))
	decoded, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 12, decoded.Bounds().Dx())
	assert.Equal(t, 8, decoded.Bounds().Dy())

	for _, query := range []string{"", "?width=0&height=5", "?width=abc&height=5", "?width=600&height=5"} {
		rec = s.do(http.MethodGet, imagePath+query, nil, token)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", query)
	}

	rec = s.do(http.MethodGet, "/api/v1/users/x/profile-image?width=5&height=5", nil, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, imagePath+"?width=5&height=5", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	up := func(context.Context) bool { return true }
	down := func(context.Context) bool { return false }

	tests := []struct {
		name     string
		db       controller.HealthChecker
		cache    controller.HealthChecker
		status   int
		database string
		cacheStr string
	}{
		{"all up", up, up, http.StatusOK, "connected", "connected"},
		{"cache disabled", up, nil, http.StatusOK, "connected", "disabled"},
		{"cache down", up, down, http.StatusOK, "connected", "disconnected"},
		{"database down", down, up, http.StatusServiceUnavailable, "disconnected", "connected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/health", controller.NewHealthController(tt.db, tt.cache).Check)

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, rec.Code)
			resp := decode[controller.HealthResponse](t, rec)
			assert.Equal(t, tt.database, resp.Database)
			assert.Equal(t, tt.cacheStr, resp.Cache)
		})
	}
}
