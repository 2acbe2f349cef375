package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/models"
	"github.com/csta-edu/enrollment-api/internal/observability"
	"github.com/csta-edu/enrollment-api/internal/repository"
	"github.com/csta-edu/enrollment-api/internal/security"
)

// maxUsernameSuffix bounds the collision retry loop: the bare base plus
// base1..base20 are tried before giving up.
const maxUsernameSuffix = 20

var (
	// ErrRequestNotFound indicates no enrollment request exists with the id.
	ErrRequestNotFound = errors.New("enrollment request not found")
	// ErrRequestAlreadyHandled indicates the request already left pending.
	ErrRequestAlreadyHandled = errors.New("enrollment request already handled")
	// ErrUsernameExhausted indicates every username candidate collided.
	// Nothing was committed; manual intervention is required.
	ErrUsernameExhausted = errors.New("username candidates exhausted")
)

// Actor identifies the authenticated administrator performing a decision.
type Actor struct {
	ID   uint
	Role string
}

// EnrollmentService drives the pending->terminal transitions of enrollment
// requests. Accept provisions a login identity and student profile in the
// same unit of work; Reject only flips the request and records the decision.
type EnrollmentService interface {
	Accept(ctx context.Context, requestID uint, actor Actor) (dto.ProvisionResponse, error)
	Reject(ctx context.Context, requestID uint, actor Actor) (dto.RejectResponse, error)
}

type enrollmentService struct {
	db       *gorm.DB
	requests repository.EnrollRequestRepository
	users    repository.UserRepository
	students repository.StudentRepository
	audit    repository.AuditLogRepository
	hasher   security.PasswordHasher
	cache    *redis.Client
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEnrollmentService constructs the enrollment decision service. The cache
// client may be nil; it is only used to drop the pending-list cache after a
// decision.
func NewEnrollmentService(
	db *gorm.DB,
	requests repository.EnrollRequestRepository,
	users repository.UserRepository,
	students repository.StudentRepository,
	audit repository.AuditLogRepository,
	hasher security.PasswordHasher,
	cache *redis.Client,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentService{
		db:       db,
		requests: requests,
		users:    users,
		students: students,
		audit:    audit,
		hasher:   hasher,
		cache:    cache,
		logger:   logger.With().Str("component", "enrollment_service").Logger(),
		now:      time.Now,
	}
}

func (s *enrollmentService) Accept(ctx context.Context, requestID uint, actor Actor) (dto.ProvisionResponse, error) {
	request, err := s.loadPending(ctx, requestID)
	if err != nil {
		return dto.ProvisionResponse{}, err
	}

	tempPassword, err := security.GenerateTempPassword()
	if err != nil {
		return dto.ProvisionResponse{}, err
	}
	digest, err := s.hasher.Hash(tempPassword)
	if err != nil {
		return dto.ProvisionResponse{}, err
	}

	base := usernameBase(request.Email)

	var result dto.ProvisionResponse
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.createUserWithUniqueUsername(ctx, tx, request, base, digest)
		if err != nil {
			return err
		}

		student := models.Student{
			UserID:    user.ID,
			YearLevel: parseYearLevel(request.YearLevel),
			Contact:   request.Contact,
			Address:   request.Address,
			Status:    models.StudentStatusActive,
		}
		if err := s.students.WithTx(tx).Create(ctx, &student); err != nil {
			return fmt.Errorf("create student: %w", err)
		}

		handled, err := s.requests.WithTx(tx).MarkHandled(ctx, requestID, models.EnrollStatusAccepted, actor.ID, s.now())
		if err != nil {
			return fmt.Errorf("mark request accepted: %w", err)
		}
		if !handled {
			// Another decision won the race after our initial read; roll
			// everything back, including the freshly inserted user.
			return ErrRequestAlreadyHandled
		}

		entry := models.AuditLog{
			ActorUserID: actor.ID,
			Entity:      "enroll_request",
			EntityID:    requestID,
			Action:      models.AuditActionAccept,
			NewValue: datatypes.JSONMap{
				"status":     models.EnrollStatusAccepted,
				"user_id":    user.ID,
				"student_id": student.ID,
				"username":   user.Username,
			},
		}
		if err := s.audit.WithTx(tx).Create(ctx, &entry); err != nil {
			return fmt.Errorf("write audit entry: %w", err)
		}

		result = dto.ProvisionResponse{
			UserID:       user.ID,
			StudentID:    student.ID,
			Username:     user.Username,
			TempPassword: tempPassword,
		}
		return nil
	})
	if err != nil {
		observability.EnrollDecisions().WithLabelValues("accept", "error").Inc()
		return dto.ProvisionResponse{}, err
	}

	observability.EnrollDecisions().WithLabelValues("accept", "ok").Inc()
	s.invalidatePendingCache(ctx)
	s.logger.Info().
		Uint("request_id", requestID).
		Uint("user_id", result.UserID).
		Str("username", result.Username).
		Msg("enrollment request accepted")

	return result, nil
}

func (s *enrollmentService) Reject(ctx context.Context, requestID uint, actor Actor) (dto.RejectResponse, error) {
	if _, err := s.loadPending(ctx, requestID); err != nil {
		return dto.RejectResponse{}, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		handled, err := s.requests.WithTx(tx).MarkHandled(ctx, requestID, models.EnrollStatusRejected, actor.ID, s.now())
		if err != nil {
			return fmt.Errorf("mark request rejected: %w", err)
		}
		if !handled {
			return ErrRequestAlreadyHandled
		}

		entry := models.AuditLog{
			ActorUserID: actor.ID,
			Entity:      "enroll_request",
			EntityID:    requestID,
			Action:      models.AuditActionReject,
			NewValue: datatypes.JSONMap{
				"status": models.EnrollStatusRejected,
			},
		}
		if err := s.audit.WithTx(tx).Create(ctx, &entry); err != nil {
			return fmt.Errorf("write audit entry: %w", err)
		}
		return nil
	})
	if err != nil {
		observability.EnrollDecisions().WithLabelValues("reject", "error").Inc()
		return dto.RejectResponse{}, err
	}

	observability.EnrollDecisions().WithLabelValues("reject", "ok").Inc()
	s.invalidatePendingCache(ctx)
	s.logger.Info().Uint("request_id", requestID).Msg("enrollment request rejected")

	return dto.RejectResponse{ID: requestID, Status: models.EnrollStatusRejected}, nil
}

// createUserWithUniqueUsername inserts the new identity, appending numeric
// suffixes while the uniqueness constraint rejects the candidate. Each
// attempt runs in a nested transaction (savepoint) so a failed insert cannot
// poison the rest of the outer unit of work.
func (s *enrollmentService) createUserWithUniqueUsername(ctx context.Context, tx *gorm.DB, request models.EnrollRequest, base, digest string) (models.User, error) {
	var email *string
	if trimmed := strings.TrimSpace(request.Email); trimmed != "" {
		email = &trimmed
	}

	for attempt := 0; attempt <= maxUsernameSuffix; attempt++ {
		candidate := base
		if attempt > 0 {
			candidate = base + strconv.Itoa(attempt)
		}

		user := models.User{
			Username:     candidate,
			Email:        email,
			PasswordHash: digest,
			FirstName:    request.FirstName,
			LastName:     request.LastName,
			Role:         models.RoleStudent,
			TempPassword: true,
		}

		err := tx.Transaction(func(inner *gorm.DB) error {
			return s.users.WithTx(inner).Create(ctx, &user)
		})
		if err == nil {
			return user, nil
		}
		if errors.Is(err, repository.ErrDuplicateKey) {
			observability.UsernameCollisions().Inc()
			s.logger.Debug().Str("candidate", candidate).Msg("username candidate taken")
			continue
		}
		return models.User{}, fmt.Errorf("create user: %w", err)
	}

	return models.User{}, ErrUsernameExhausted
}

// loadPending fetches the request and applies the NotFound / already-handled
// guards. The terminal race is still closed by MarkHandled's conditional
// update inside the transaction; this early check just avoids pointless work.
func (s *enrollmentService) loadPending(ctx context.Context, requestID uint) (models.EnrollRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.EnrollRequest{}, ErrRequestNotFound
		}
		return models.EnrollRequest{}, err
	}
	if request.Status != models.EnrollStatusPending {
		return models.EnrollRequest{}, ErrRequestAlreadyHandled
	}
	return request, nil
}

func (s *enrollmentService) invalidatePendingCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, pendingRequestsCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate pending request cache")
	}
}

// usernameBase derives the candidate username from the email local-part,
// falling back to the literal "user" when no usable text remains.
func usernameBase(email string) string {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	local = strings.TrimSpace(local)
	if local == "" {
		return "user"
	}
	return local
}

// parseYearLevel normalizes the free-text year level submitted by applicants.
// Plain integers and integer-valued decimals ("1.0") are accepted; anything
// else maps to NULL rather than failing the provisioning run.
func parseYearLevel(raw string) *int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}

	value := int(parsed)
	return &value
}
