package dto

// UserResponse is the public account shape.
type UserResponse struct {
	ID          string   `json:"id"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	DateOfBirth string   `json:"date_of_birth,omitempty"`
	Enabled     bool     `json:"enabled"`
	Roles       []string `json:"roles"`
}

// ProfileUpdateRequest payload for profile merges.
type ProfileUpdateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
}

// PasswordChangeRequest payload for password changes.
type PasswordChangeRequest struct {
	CurrentPassword    string `json:"current_password"`
	NewPassword        string `json:"new_password"`
	ConfirmNewPassword string `json:"confirm_new_password"`
}
