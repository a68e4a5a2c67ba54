package domain

import "time"

// ResidentStatus represents lifecycle states for a resident account.
type ResidentStatus string

const (
	ResidentStatusActive    ResidentStatus = "ACTIVE"
	ResidentStatusSuspended ResidentStatus = "SUSPENDED"
)

// Resident is the domain model for students who file tickets.
type Resident struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Room         string
	Status       ResidentStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
