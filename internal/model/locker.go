package model

import "time"

// Locker represents a physical storage locker.
type Locker struct {
	ID           int64     `json:"id"`
	LockerNumber int       `json:"locker_number"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`

	// Admin enrichment (not always populated).
	ActiveAssignment *Assignment `json:"active_assignment,omitempty"`

	// Inconsistency flags a locker whose status disagrees with its
	// assignment state. The condition is allowed and surfaced, not repaired.
	Inconsistency string `json:"inconsistency,omitempty"`
}

// Locker statuses.
const (
	LockerStatusAvailable   = "available"
	LockerStatusOccupied    = "occupied"
	LockerStatusMaintenance = "maintenance"
)

// ValidLockerStatus reports whether s is one of the three locker statuses.
func ValidLockerStatus(s string) bool {
	switch s {
	case LockerStatusAvailable, LockerStatusOccupied, LockerStatusMaintenance:
		return true
	}
	return false
}

// Inconsistency kinds computed by the admin listing.
const (
	InconsistencyOccupiedNoAssignment  = "occupied_without_assignment"
	InconsistencyAvailableWithActive   = "available_with_active_assignment"
	InconsistencyMaintenanceWithActive = "maintenance_with_active_assignment"
)
