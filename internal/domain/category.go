package domain

import "time"

// Category is a taxonomy entry residents pick from when filing a ticket.
// Each entry belongs to exactly one ticket kind.
type Category struct {
	ID        string
	Kind      TicketKind
	Name      string
	Icon      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
