package dto

import "time"

// ResidentRegisterRequest payload for new residents.
type ResidentRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Room     string `json:"room"`
}

// ResidentLoginRequest payload for login.
type ResidentLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
