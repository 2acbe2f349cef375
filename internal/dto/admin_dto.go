package dto

import (
	"time"

	"github.com/csta-edu/enrollment-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// AuditLogListRequest defines filters for browsing the audit trail.
type AuditLogListRequest struct {
	Page     int
	PageSize int
	ActorID  uint
	Entity   string
	Action   string
}

// AuditLogResponse serializes one audit entry.
type AuditLogResponse struct {
	ID          uint                   `json:"id"`
	ActorUserID uint                   `json:"actor_user_id"`
	Entity      string                 `json:"entity"`
	EntityID    uint                   `json:"entity_id"`
	Action      string                 `json:"action"`
	NewValue    map[string]interface{} `json:"new_value"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AuditLogListResponse wraps a paginated audit trail page.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewAuditLogResponse maps an audit entry onto its response payload.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		ID:          entry.ID,
		ActorUserID: entry.ActorUserID,
		Entity:      entry.Entity,
		EntityID:    entry.EntityID,
		Action:      entry.Action,
		NewValue:    entry.NewValue,
		CreatedAt:   entry.CreatedAt,
	}
}
