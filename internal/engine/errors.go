package engine

import "errors"

// Sentinel errors returned by engine operations. Callers classify failures
// with errors.Is; anything not wrapping one of these is a storage failure.
var (
	// ErrValidation indicates a request rejected before any store access.
	ErrValidation = errors.New("invalid request")

	// ErrActiveAssignmentExists indicates the student already holds a locker.
	ErrActiveAssignmentExists = errors.New("student already has an active locker assignment")

	// ErrNoLockersAvailable indicates every locker is occupied or in maintenance.
	ErrNoLockersAvailable = errors.New("no lockers available")

	// ErrNoActiveAssignment indicates no active assignment matched the request.
	ErrNoActiveAssignment = errors.New("active assignment not found")

	// ErrLockerNotFound indicates the referenced locker does not exist.
	ErrLockerNotFound = errors.New("locker not found")
)
