package model

import "time"

// Assignment represents a locker held by a student. Assignments are never
// deleted; a return flips the status and sets returned_at.
type Assignment struct {
	ID         string     `json:"id"`
	StudentID  string     `json:"student_id"`
	LockerID   int64      `json:"locker_id"`
	Password   string     `json:"password,omitempty"`
	Status     string     `json:"status"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	// Joined fields (not always populated).
	LockerNumber int          `json:"locker_number,omitempty"`
	Items        []StoredItem `json:"items,omitempty"`

	// StudentName is resolved through the identity directory for admin
	// views; "unknown" when the directory cannot resolve the subject.
	StudentName string `json:"student_name,omitempty"`
}

// Assignment statuses.
const (
	AssignmentStatusActive   = "active"
	AssignmentStatusReturned = "returned"
)

// StoredItem is an item kept inside a locker. Items are owned by exactly one
// assignment and are never mutated after creation (the photo is the one
// exception).
type StoredItem struct {
	ID           string    `json:"id"`
	AssignmentID string    `json:"assignment_id"`
	ItemType     string    `json:"item_type"`
	Model        string    `json:"model,omitempty"`
	Color        string    `json:"color,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	PhotoMime    string    `json:"photo_mime,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewStoredItem is the caller-supplied description of an item to store.
type NewStoredItem struct {
	ItemType string `json:"item_type"`
	Model    string `json:"model,omitempty"`
	Color    string `json:"color,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
