package dto

import (
	"time"

	"github.com/csta-edu/enrollment-api/internal/models"
)

// EnrollSubmitRequest is the public enrollment form payload. YearLevel is
// accepted as free text and normalized only if the request is accepted.
type EnrollSubmitRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=255"`
	LastName  string `json:"last_name" validate:"required,min=1,max=255"`
	Email     string `json:"email" validate:"omitempty,email"`
	Program   string `json:"program" validate:"omitempty,max=255"`
	YearLevel string `json:"year_level" validate:"omitempty,max=32"`
	Contact   string `json:"contact" validate:"omitempty,max=255"`
	Address   string `json:"address" validate:"omitempty,max=2000"`
}

// EnrollSubmitResponse acknowledges a submitted request.
type EnrollSubmitResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

// EnrollRequestResponse serializes an enrollment request for admin review.
type EnrollRequestResponse struct {
	ID        uint       `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Program   string     `json:"program"`
	YearLevel string     `json:"year_level"`
	Contact   string     `json:"contact"`
	Address   string     `json:"address"`
	Status    string     `json:"status"`
	HandledBy *uint      `json:"handled_by,omitempty"`
	HandledAt *time.Time `json:"handled_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewEnrollRequestResponse maps a model onto the admin review payload.
func NewEnrollRequestResponse(request models.EnrollRequest) EnrollRequestResponse {
	return EnrollRequestResponse{
		ID:        request.ID,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     request.Email,
		Program:   request.Program,
		YearLevel: request.YearLevel,
		Contact:   request.Contact,
		Address:   request.Address,
		Status:    request.Status,
		HandledBy: request.HandledBy,
		HandledAt: request.HandledAt,
		CreatedAt: request.CreatedAt,
	}
}

// ProvisionResponse is returned once per accepted request. TempPassword is
// the only time the plaintext leaves the system.
type ProvisionResponse struct {
	UserID       uint   `json:"user_id"`
	StudentID    uint   `json:"student_id"`
	Username     string `json:"username"`
	TempPassword string `json:"temp_password"`
}

// RejectResponse confirms a rejection.
type RejectResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}
