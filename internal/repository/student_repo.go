package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/models"
)

// StudentRepository provides access to student profile records.
type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	WithTx(tx *gorm.DB) StudentRepository
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) WithTx(tx *gorm.DB) StudentRepository {
	return &studentRepository{db: tx}
}

func (r *studentRepository) Create(ctx context.Context, student *models.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return models.Student{}, err
	}
	return student, nil
}
