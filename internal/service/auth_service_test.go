package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/security"
)

func setupAuthService(t *testing.T) (AuthService, repository.UserRepository) {
	t.Helper()
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	svc := NewAuthService(users, fakeHasher{}, tokens, validate, zerolog.Nop())
	return svc, users
}

func TestAuthServiceLogin(t *testing.T) {
	svc, users := setupAuthService(t)

	user := models.User{Username: "jane.doe", PasswordHash: "hashed:secretsecret", Role: models.RoleStudent, TempPassword: true}
	require.NoError(t, users.Create(context.Background(), &user))

	response, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jane.doe", Password: "secretsecret"})
	require.NoError(t, err)
	require.NotEmpty(t, response.AccessToken)
	require.Equal(t, "bearer", response.TokenType)
	require.Equal(t, models.RoleStudent, response.Role)
	require.Equal(t, user.ID, response.UserID)
	require.True(t, response.TempPassword)
}

func TestAuthServiceLoginRejectsBadCredentials(t *testing.T) {
	svc, users := setupAuthService(t)

	user := models.User{Username: "jane.doe", PasswordHash: "hashed:rightpassword", Role: models.RoleStudent}
	require.NoError(t, users.Create(context.Background(), &user))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "jane.doe", Password: "wrongpassword"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceChangePasswordOnTempAccount(t *testing.T) {
	svc, users := setupAuthService(t)

	user := models.User{Username: "jane.doe", PasswordHash: "hashed:temp", Role: models.RoleStudent, TempPassword: true}
	require.NoError(t, users.Create(context.Background(), &user))

	// Temporary credentials rotate without the current password.
	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{NewPassword: "a-much-longer-password"})
	require.NoError(t, err)

	updated, err := users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.False(t, updated.TempPassword)
	require.Equal(t, "hashed:a-much-longer-password", updated.PasswordHash)
}

func TestAuthServiceChangePasswordRequiresCurrentPassword(t *testing.T) {
	svc, users := setupAuthService(t)

	user := models.User{Username: "jane.doe", PasswordHash: "hashed:oldpasswordhere", Role: models.RoleStudent, TempPassword: false}
	require.NoError(t, users.Create(context.Background(), &user))

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "a-much-longer-password"})
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{CurrentPassword: "oldpasswordhere", NewPassword: "a-much-longer-password"})
	require.NoError(t, err)
}

func TestAuthServiceChangePasswordRejectsShortPasswords(t *testing.T) {
	svc, users := setupAuthService(t)

	user := models.User{Username: "jane.doe", PasswordHash: "hashed:temp", Role: models.RoleStudent, TempPassword: true}
	require.NoError(t, users.Create(context.Background(), &user))

	err := svc.ChangePassword(context.Background(), user.ID, dto.ChangePasswordRequest{NewPassword: "short"})
	require.Error(t, err)
}
