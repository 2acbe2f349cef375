package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/security"
)

var (
	// ErrInvalidCredentials covers both unknown usernames and bad passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrWrongPassword indicates the supplied current password did not match.
	ErrWrongPassword = errors.New("incorrect current password")
	// ErrUserNotFound indicates the account no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// AuthService authenticates users and rotates passwords.
type AuthService interface {
	Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error)
	ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error
}

type authService struct {
	users     repository.UserRepository
	hasher    security.PasswordHasher
	tokens    *security.TokenIssuer
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, hasher security.PasswordHasher, tokens *security.TokenIssuer, validate *validator.Validate, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		validator: validate,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByUsername(ctx, payload.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if err := s.hasher.Compare(payload.Password, user.PasswordHash); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")

	return dto.LoginResponse{
		AccessToken:  token,
		TokenType:    "bearer",
		Role:         user.Role,
		UserID:       user.ID,
		TempPassword: user.TempPassword,
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uint, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	// Accounts still on a temporary password may rotate without proving the
	// old one; the temp plaintext was only ever shown once at provisioning.
	if !user.TempPassword {
		if err := s.hasher.Compare(payload.CurrentPassword, user.PasswordHash); err != nil {
			return ErrWrongPassword
		}
	}

	digest, err := s.hasher.Hash(payload.NewPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, digest, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.logger.Info().Uint("user_id", userID).Msg("password changed")
	return nil
}
