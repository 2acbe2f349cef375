package models

import "time"

// Roles a user account can carry. Student accounts are the only ones created
// by the enrollment workflow; the rest are provisioned out of band.
const (
	RoleStudent    = "student"
	RoleFaculty    = "faculty"
	RoleAdmin      = "admin"
	RoleDean       = "dean"
	RoleSuperadmin = "superadmin"
)

// User is a login identity. Usernames are unique; emails are unique when
// present (NULL emails do not collide).
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FirstName    string    `gorm:"size:255" json:"first_name"`
	LastName     string    `gorm:"size:255" json:"last_name"`
	Role         string    `gorm:"size:32;not null;default:student" json:"role"`
	TempPassword bool      `gorm:"not null;default:true" json:"temp_password"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Student *Student `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
