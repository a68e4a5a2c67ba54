package dto

import "github.com/dormhub/facility-service/internal/domain"

// CategoryCreateRequest payload.
type CategoryCreateRequest struct {
	Kind domain.TicketKind `json:"kind"`
	Name string            `json:"name"`
	Icon string            `json:"icon"`
}

// CategoryUpdateRequest payload. Kind is immutable.
type CategoryUpdateRequest struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Active *bool  `json:"active"`
}

// CategoryResponse taxonomy entry view.
type CategoryResponse struct {
	ID       string            `json:"id"`
	Kind     domain.TicketKind `json:"kind"`
	Name     string            `json:"name"`
	Icon     string            `json:"icon"`
	IsActive bool              `json:"is_active"`
}
