package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/handler"
	"github.com/csta-edu/enrollment-api/internal/service"
)

type mockAuthService struct {
	login      dto.LoginResponse
	loginErr   error
	lastUserID uint
	changeErr  error
}

func (m *mockAuthService) Login(_ context.Context, _ dto.LoginRequest) (dto.LoginResponse, error) {
	if m.loginErr != nil {
		return dto.LoginResponse{}, m.loginErr
	}
	return m.login, nil
}

func (m *mockAuthService) ChangePassword(_ context.Context, userID uint, _ dto.ChangePasswordRequest) error {
	m.lastUserID = userID
	return m.changeErr
}

func TestAuthHandlerLogin(t *testing.T) {
	svc := &mockAuthService{login: dto.LoginResponse{AccessToken: "token", TokenType: "bearer", Role: "student", UserID: 3, TempPassword: true}}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).RegisterPublic(app.Group("/api/auth"))

	body, err := json.Marshal(dto.LoginRequest{Username: "jane.doe", Password: "pw"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool              `json:"success"`
		Data    dto.LoginResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, "token", response.Data.AccessToken)
	require.True(t, response.Data.TempPassword)
}

func TestAuthHandlerLoginRejectsBadCredentials(t *testing.T) {
	svc := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).RegisterPublic(app.Group("/api/auth"))

	body, err := json.Marshal(dto.LoginRequest{Username: "jane.doe", Password: "wrong"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthHandlerChangePassword(t *testing.T) {
	svc := &mockAuthService{}
	app := fiber.New()
	group := app.Group("/api/auth", func(c *fiber.Ctx) error {
		c.Locals("user_id", uint(3))
		return c.Next()
	})
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).RegisterProtected(group)

	body, err := json.Marshal(dto.ChangePasswordRequest{NewPassword: "a-much-longer-password"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/change_password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(3), svc.lastUserID)
}

func TestAuthHandlerChangePasswordRequiresAuth(t *testing.T) {
	svc := &mockAuthService{}
	app := fiber.New()
	handler.NewAuthHandler(svc, zerolog.New(io.Discard)).RegisterProtected(app.Group("/api/auth"))

	body, err := json.Marshal(dto.ChangePasswordRequest{NewPassword: "a-much-longer-password"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/change_password", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
