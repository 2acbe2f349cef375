package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded by the enrollment workflow.
const (
	AuditActionAccept = "accept"
	AuditActionReject = "reject"
)

// AuditLog is an append-only record of an administrative action. Entries are
// written in the same transaction as the change they describe and are never
// updated or deleted.
type AuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ActorUserID uint              `gorm:"not null;index" json:"actor_user_id"`
	Entity      string            `gorm:"size:64;not null" json:"entity"`
	EntityID    uint              `gorm:"not null" json:"entity_id"`
	Action      string            `gorm:"size:64;not null" json:"action"`
	NewValue    datatypes.JSONMap `gorm:"type:json" json:"new_value"`
	CreatedAt   time.Time         `json:"created_at"`
}
