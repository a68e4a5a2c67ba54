package domain

import "time"

// TicketKind distinguishes maintenance requests from behavioral complaints.
type TicketKind string

const (
	TicketKindRequest   TicketKind = "REQUEST"
	TicketKindComplaint TicketKind = "COMPLAINT"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "OPEN"
	TicketStatusAssigned TicketStatus = "ASSIGNED"
	TicketStatusResolved TicketStatus = "RESOLVED"
	TicketStatusRejected TicketStatus = "REJECTED"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "LOW"
	TicketPriorityMedium   TicketPriority = "MEDIUM"
	TicketPriorityHigh     TicketPriority = "HIGH"
	TicketPriorityCritical TicketPriority = "CRITICAL"
)

// Ticket is the aggregate for maintenance requests and complaints.
// Kind, ReporterID, Room, Category, Priority and Description are fixed at
// creation; the engine only ever mutates Status, AssignedStaffID and the
// write-once rating fields.
type Ticket struct {
	ID              string
	ExternalKey     string
	Kind            TicketKind
	ReporterID      string
	Room            string
	Category        string
	Priority        TicketPriority
	Status          TicketStatus
	Description     string
	AssignedStaffID *string
	Rating          *int
	RatingComment   *string
	RatedAt         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
}

// Rated reports whether the reporter already submitted feedback.
func (t *Ticket) Rated() bool {
	return t.Rating != nil
}

// StatusLabel maps a canonical status to the display vocabulary of the
// ticket kind. Every outward surface goes through this single translation
// instead of re-inventing status strings per screen.
func StatusLabel(kind TicketKind, status TicketStatus) string {
	switch status {
	case TicketStatusOpen:
		return "Open"
	case TicketStatusAssigned:
		if kind == TicketKindComplaint {
			return "Under Review"
		}
		return "In Progress"
	case TicketStatusResolved:
		return "Resolved"
	case TicketStatusRejected:
		return "Rejected"
	default:
		return string(status)
	}
}

// ValidKind reports whether the kind is one of the two ticket kinds.
func ValidKind(kind TicketKind) bool {
	return kind == TicketKindRequest || kind == TicketKindComplaint
}

// ValidPriority reports whether the priority is a defined level.
func ValidPriority(priority TicketPriority) bool {
	switch priority {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// ValidRating reports whether a satisfaction score is within bounds.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
