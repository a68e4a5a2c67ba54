package dto

import (
	"time"

	"github.com/dormhub/facility-service/internal/domain"
)

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StaffCreateRequest payload for roster entries.
type StaffCreateRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Phone    string           `json:"phone"`
	PhotoURL string           `json:"photo_url"`
	Password string           `json:"password"`
	Role     domain.StaffRole `json:"role"`
}

// StaffUpdateRequest payload for roster edits.
type StaffUpdateRequest struct {
	Name     string           `json:"name"`
	Phone    string           `json:"phone"`
	PhotoURL string           `json:"photo_url"`
	Role     domain.StaffRole `json:"role"`
	Active   *bool            `json:"active"`
}

// StaffResponse roster entry view.
type StaffResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Phone     string           `json:"phone"`
	PhotoURL  string           `json:"photo_url"`
	Role      domain.StaffRole `json:"role"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"created_at"`
}

// PasswordResetRequest payload for initiating reset.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirmRequest payload for confirming reset.
type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
