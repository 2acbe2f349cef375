package dto

// LoginRequest carries username/password credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the signed access token and enough account state for
// the client to force a password change on temporary credentials.
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	Role         string `json:"role"`
	UserID       uint   `json:"user_id"`
	TempPassword bool   `json:"temp_password"`
}

// ChangePasswordRequest rotates the caller's password. CurrentPassword may be
// empty while the account still carries a temporary password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=16"`
}
