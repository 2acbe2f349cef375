package dto

import "github.com/csta-edu/enrollment-api/internal/models"

// StudentAccount is the slim identity view embedded in profile responses.
type StudentAccount struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// StudentProfile is the profile view for the authenticated student.
type StudentProfile struct {
	ID        uint   `json:"id"`
	YearLevel *int   `json:"year_level"`
	Contact   string `json:"contact"`
	Address   string `json:"address"`
	Status    string `json:"status"`
}

// StudentMeResponse combines the login identity with its student record.
type StudentMeResponse struct {
	User    StudentAccount `json:"user"`
	Student StudentProfile `json:"student"`
}

// NewStudentMeResponse maps a user and its profile onto the me payload.
func NewStudentMeResponse(user models.User, student models.Student) StudentMeResponse {
	return StudentMeResponse{
		User: StudentAccount{
			ID:       user.ID,
			Username: user.Username,
			Role:     user.Role,
		},
		Student: StudentProfile{
			ID:        student.ID,
			YearLevel: student.YearLevel,
			Contact:   student.Contact,
			Address:   student.Address,
			Status:    student.Status,
		},
	}
}
