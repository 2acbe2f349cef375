package models

import "time"

// Program is the academic program catalog. The enrollment workflow only
// records the program name applicants typed; nothing joins against this table
// yet. Kept in the schema for the grading features that will need it.
type Program struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Years     int       `gorm:"not null;default:4" json:"years"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
