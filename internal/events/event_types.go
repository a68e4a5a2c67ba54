package events

import (
	"time"

	"github.com/dormhub/facility-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketResolved EventType = "ticket_resolved"
	EventTicketRejected EventType = "ticket_rejected"
	EventTicketRated    EventType = "ticket_rated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type       domain.SubjectType `json:"type"`
	ResidentID *string            `json:"resident_id,omitempty"`
	StaffID    *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Kind     domain.TicketKind     `json:"kind"`
	Category string                `json:"category"`
	Room     string                `json:"room"`
	Priority domain.TicketPriority `json:"priority"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AssignedStaffID string  `json:"assigned_staff_id"`
	PreviousStaffID *string `json:"previous_staff_id,omitempty"`
}

// TicketClosedPayload covers the two terminal transitions.
type TicketClosedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketRatedPayload payload.
type TicketRatedPayload struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}
