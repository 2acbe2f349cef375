package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/dto"
	"github.com/csta-edu/enrollment-api/internal/repository"
)

// ErrStudentNotFound indicates the user has no student profile.
var ErrStudentNotFound = errors.New("student record not found")

// StudentService serves profile lookups for authenticated students.
type StudentService interface {
	Me(ctx context.Context, userID uint) (dto.StudentMeResponse, error)
}

type studentService struct {
	users    repository.UserRepository
	students repository.StudentRepository
	logger   zerolog.Logger
}

// NewStudentService constructs the student profile service.
func NewStudentService(users repository.UserRepository, students repository.StudentRepository, logger zerolog.Logger) StudentService {
	return &studentService{
		users:    users,
		students: students,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) Me(ctx context.Context, userID uint) (dto.StudentMeResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentMeResponse{}, ErrStudentNotFound
		}
		return dto.StudentMeResponse{}, err
	}

	student, err := s.students.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.StudentMeResponse{}, ErrStudentNotFound
		}
		return dto.StudentMeResponse{}, err
	}

	return dto.NewStudentMeResponse(user, student), nil
}
