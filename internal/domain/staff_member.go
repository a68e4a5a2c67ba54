package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleWorker StaffRole = "STAFF"
	StaffRoleAdmin  StaffRole = "ADMIN"
)

// StaffMember models a facility worker or administrator.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PhotoURL     string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
