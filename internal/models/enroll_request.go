package models

import "time"

// Enrollment request lifecycle states. A request leaves pending exactly once,
// into one of the two terminal states, and is never mutated again.
const (
	EnrollStatusPending  = "pending"
	EnrollStatusAccepted = "accepted"
	EnrollStatusRejected = "rejected"
)

// EnrollRequest is an applicant-submitted enrollment form awaiting an
// administrative decision. YearLevel stays free text as submitted; it is
// normalized to an integer only when the request is accepted.
type EnrollRequest struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	FirstName string     `gorm:"size:255" json:"first_name"`
	LastName  string     `gorm:"size:255" json:"last_name"`
	Email     string     `gorm:"size:255" json:"email"`
	Program   string     `gorm:"size:255" json:"program"`
	YearLevel string     `gorm:"size:32" json:"year_level"`
	Contact   string     `gorm:"size:255" json:"contact"`
	Address   string     `json:"address"`
	Status    string     `gorm:"size:32;not null;default:pending;index" json:"status"`
	HandledBy *uint      `json:"handled_by"`
	HandledAt *time.Time `json:"handled_at"`
	CreatedAt time.Time  `json:"created_at"`
}
