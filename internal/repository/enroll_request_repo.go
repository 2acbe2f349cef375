package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/csta-edu/enrollment-api/internal/models"
)

// EnrollRequestRepository provides access to enrollment requests and their
// lifecycle state.
type EnrollRequestRepository interface {
	Create(ctx context.Context, request *models.EnrollRequest) error
	GetByID(ctx context.Context, id uint) (models.EnrollRequest, error)
	ListPending(ctx context.Context) ([]models.EnrollRequest, error)
	// MarkHandled transitions a request out of pending. The WHERE clause
	// re-checks the status inside the caller's transaction, so of two racing
	// terminal transitions exactly one reports handled=true.
	MarkHandled(ctx context.Context, id uint, status string, handlerID uint, handledAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) EnrollRequestRepository
}

type enrollRequestRepository struct {
	db *gorm.DB
}

// NewEnrollRequestRepository constructs an enrollment request repository.
func NewEnrollRequestRepository(db *gorm.DB) EnrollRequestRepository {
	return &enrollRequestRepository{db: db}
}

func (r *enrollRequestRepository) WithTx(tx *gorm.DB) EnrollRequestRepository {
	return &enrollRequestRepository{db: tx}
}

func (r *enrollRequestRepository) Create(ctx context.Context, request *models.EnrollRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *enrollRequestRepository) GetByID(ctx context.Context, id uint) (models.EnrollRequest, error) {
	var request models.EnrollRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return models.EnrollRequest{}, err
	}
	return request, nil
}

func (r *enrollRequestRepository) ListPending(ctx context.Context) ([]models.EnrollRequest, error) {
	var requests []models.EnrollRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.EnrollStatusPending).
		Order("created_at ASC, id ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *enrollRequestRepository) MarkHandled(ctx context.Context, id uint, status string, handlerID uint, handledAt time.Time) (bool, error) {
	update := r.db.WithContext(ctx).Model(&models.EnrollRequest{}).
		Where("id = ?", id).
		Where("status = ?", models.EnrollStatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"handled_by": handlerID,
			"handled_at": handledAt,
		})
	if update.Error != nil {
		return false, update.Error
	}
	return update.RowsAffected == 1, nil
}
