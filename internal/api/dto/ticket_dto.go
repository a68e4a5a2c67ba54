package dto

import (
	"time"

	"github.com/dormhub/facility-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Kind        domain.TicketKind     `json:"kind"`
	Room        string                `json:"room"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Description string                `json:"description"`
}

// SubmitRatingRequest payload for the one-shot feedback.
type SubmitRatingRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AssignTicketRequest payload for admin assignment.
type AssignTicketRequest struct {
	StaffID string `json:"staff_id"`
}

// TicketSummary response.
type TicketSummary struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	Kind            domain.TicketKind     `json:"kind"`
	Room            string                `json:"room"`
	Category        string                `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	StatusLabel     string                `json:"status_label"`
	AssignedStaffID *string               `json:"assigned_staff_id,omitempty"`
	Rating          *int                  `json:"rating,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID              string                `json:"id"`
	ExternalKey     string                `json:"external_key"`
	Kind            domain.TicketKind     `json:"kind"`
	ReporterID      string                `json:"reporter_id"`
	Room            string                `json:"room"`
	Category        string                `json:"category"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	StatusLabel     string                `json:"status_label"`
	Description     string                `json:"description"`
	AssignedStaffID *string               `json:"assigned_staff_id,omitempty"`
	Rating          *int                  `json:"rating,omitempty"`
	RatingComment   *string               `json:"rating_comment,omitempty"`
	RatedAt         *time.Time            `json:"rated_at,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ResolvedAt      *time.Time            `json:"resolved_at,omitempty"`
}
