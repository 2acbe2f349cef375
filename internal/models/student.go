package models

import "time"

// Student lifecycle statuses.
const (
	StudentStatusActive   = "active"
	StudentStatusInactive = "inactive"
	StudentStatusArchived = "archived"
)

// Student is the profile record owned one-to-one by a User. It is created
// atomically with its user when an enrollment request is accepted.
type Student struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	YearLevel *int      `json:"year_level"`
	Contact   string    `gorm:"size:255" json:"contact"`
	Address   string    `json:"address"`
	Status    string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
