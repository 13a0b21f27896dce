// Package engine implements the locker assignment state machine: atomic
// allocation of available lockers, returns, item attachment, and the
// administrative release/override paths.
//
// All cross-request mutual exclusion is expressed at the storage layer. The
// locker claim is a single conditional UPDATE (never select-then-update), and
// the partial unique indexes on active assignments are the authoritative
// guards; application-level pre-checks only produce friendlier errors.
package engine

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
	"github.com/keerthisuryateja/Hostel-Locker-System/internal/store"
)

// Allocation is the result of a successful locker allocation.
type Allocation struct {
	AssignmentID string `json:"assignment_id"`
	LockerNumber int    `json:"locker_number"`
	Password     string `json:"password"`
}

// Allocate claims an available locker for the student, creates the active
// assignment with a generated 6-digit code, and stores any initial items.
// The whole operation is one transaction: on any failure no state changes.
func Allocate(ctx context.Context, db *sql.DB, studentID string, items []model.NewStoredItem) (*Allocation, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id required", ErrValidation)
	}
	for _, item := range items {
		if item.ItemType == "" {
			return nil, fmt.Errorf("%w: item_type required", ErrValidation)
		}
	}

	password, err := generatePassword()
	if err != nil {
		return nil, fmt.Errorf("generating locker password: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Fast-path duplicate check. The partial unique index on
	// (student_id) WHERE status='active' is the real guard below.
	var activeCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locker_assignments WHERE student_id = ? AND status = 'active'`,
		studentID,
	).Scan(&activeCount)
	if err != nil {
		return nil, fmt.Errorf("checking existing assignment: %w", err)
	}
	if activeCount > 0 {
		return nil, ErrActiveAssignmentExists
	}

	// Claim the lowest-numbered available locker in one conditional update.
	// The WHERE status='available' re-check makes the claim atomic: two
	// concurrent allocations can never both flip the same row.
	var lockerID int64
	var lockerNumber int
	err = tx.QueryRowContext(ctx,
		`UPDATE lockers SET status = 'occupied'
		 WHERE id = (SELECT id FROM lockers WHERE status = 'available' ORDER BY locker_number LIMIT 1)
		   AND status = 'available'
		 RETURNING id, locker_number`,
	).Scan(&lockerID, &lockerNumber)
	if err == sql.ErrNoRows {
		return nil, ErrNoLockersAvailable
	}
	if err != nil {
		return nil, fmt.Errorf("claiming locker: %w", err)
	}

	assignmentID := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO locker_assignments (id, student_id, locker_id, password, status)
		 VALUES (?, ?, ?, ?, 'active')`,
		assignmentID, studentID, lockerID, password,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// A concurrent allocation for the same student won the race.
			// Rolling back releases the claimed locker.
			return nil, ErrActiveAssignmentExists
		}
		return nil, fmt.Errorf("creating assignment: %w", err)
	}

	for _, item := range items {
		if err := insertStoredItem(ctx, tx, assignmentID, item); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing allocation: %w", err)
	}

	slog.Info("locker allocated",
		"student", studentID, "locker", lockerNumber, "assignment", assignmentID)

	return &Allocation{
		AssignmentID: assignmentID,
		LockerNumber: lockerNumber,
		Password:     password,
	}, nil
}

// Return ends the student's active assignment on the given locker. The
// assignment flip and the locker release commit together or not at all.
func Return(ctx context.Context, db *sql.DB, studentID string, lockerNumber int) error {
	if studentID == "" {
		return fmt.Errorf("%w: student id required", ErrValidation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var assignmentID string
	var lockerID int64
	err = tx.QueryRowContext(ctx,
		`SELECT a.id, a.locker_id
		 FROM locker_assignments a
		 JOIN lockers l ON l.id = a.locker_id
		 WHERE a.student_id = ? AND a.status = 'active' AND l.locker_number = ?`,
		studentID, lockerNumber,
	).Scan(&assignmentID, &lockerID)
	if err == sql.ErrNoRows {
		return ErrNoActiveAssignment
	}
	if err != nil {
		return fmt.Errorf("locating active assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE locker_assignments
		 SET status = 'returned', returned_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = 'active'`,
		assignmentID,
	)
	if err != nil {
		return fmt.Errorf("returning assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE lockers SET status = 'available' WHERE id = ?`, lockerID,
	)
	if err != nil {
		return fmt.Errorf("releasing locker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing return: %w", err)
	}

	slog.Info("locker returned", "student", studentID, "locker", lockerNumber)
	return nil
}

// AttachItem stores a single item in the student's active assignment.
func AttachItem(ctx context.Context, db *sql.DB, studentID string, item model.NewStoredItem) (*model.StoredItem, error) {
	items, err := AttachItems(ctx, db, studentID, []model.NewStoredItem{item})
	if err != nil {
		return nil, err
	}
	return &items[0], nil
}

// AttachItems stores items in the student's active assignment. All items are
// inserted in one transaction.
func AttachItems(ctx context.Context, db *sql.DB, studentID string, items []model.NewStoredItem) ([]model.StoredItem, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id required", ErrValidation)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: at least one item required", ErrValidation)
	}
	for _, item := range items {
		if item.ItemType == "" {
			return nil, fmt.Errorf("%w: item_type required", ErrValidation)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var assignmentID string
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM locker_assignments WHERE student_id = ? AND status = 'active'`,
		studentID,
	).Scan(&assignmentID)
	if err == sql.ErrNoRows {
		return nil, ErrNoActiveAssignment
	}
	if err != nil {
		return nil, fmt.Errorf("locating active assignment: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		id, err := insertStoredItemID(ctx, tx, assignmentID, item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing items: %w", err)
	}

	created := make([]model.StoredItem, 0, len(ids))
	for _, id := range ids {
		item, err := store.GetStoredItem(ctx, db, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			created = append(created, *item)
		}
	}
	return created, nil
}

// ForceRelease is the administrative return, keyed by locker instead of
// student. It ends the active assignment if one exists and always asserts
// the locker's availability, so calling it twice is safe.
func ForceRelease(ctx context.Context, db *sql.DB, lockerID int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM lockers WHERE id = ?`, lockerID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrLockerNotFound
	}
	if err != nil {
		return fmt.Errorf("checking locker: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE locker_assignments
		 SET status = 'returned', returned_at = CURRENT_TIMESTAMP
		 WHERE locker_id = ? AND status = 'active'`,
		lockerID,
	)
	if err != nil {
		return fmt.Errorf("returning assignment: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE lockers SET status = 'available' WHERE id = ?`, lockerID,
	)
	if err != nil {
		return fmt.Errorf("releasing locker: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing force release: %w", err)
	}

	slog.Info("locker force released", "locker_id", lockerID)
	return nil
}

// SetLockerStatus sets a locker's status directly, bypassing assignment
// consistency. An override that disagrees with the assignment state (e.g.
// maintenance while occupied) succeeds but is logged; the admin listing
// surfaces the same condition as a read-side flag.
func SetLockerStatus(ctx context.Context, db *sql.DB, lockerID int64, status string) error {
	if !model.ValidLockerStatus(status) {
		return fmt.Errorf("%w: unknown locker status %q", ErrValidation, status)
	}

	ok, err := store.UpdateLockerStatus(ctx, db, lockerID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrLockerNotFound
	}

	var activeCount int
	err = db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM locker_assignments WHERE locker_id = ? AND status = 'active'`,
		lockerID,
	).Scan(&activeCount)
	if err != nil {
		return fmt.Errorf("checking assignment state: %w", err)
	}

	if flag := store.Inconsistency(status, activeCount > 0); flag != "" {
		slog.Warn("locker status override left an inconsistent state",
			"locker_id", lockerID, "status", status, "inconsistency", flag)
	}
	return nil
}

// CurrentAssignment returns the student's active assignment joined with its
// locker number and stored items, or (nil, nil) when the student holds no
// locker.
func CurrentAssignment(ctx context.Context, db *sql.DB, studentID string) (*model.Assignment, error) {
	if studentID == "" {
		return nil, fmt.Errorf("%w: student id required", ErrValidation)
	}

	a := &model.Assignment{}
	err := db.QueryRowContext(ctx,
		`SELECT a.id, a.student_id, a.locker_id, a.password, a.status,
		        a.assigned_at, a.returned_at, l.locker_number
		 FROM locker_assignments a
		 JOIN lockers l ON l.id = a.locker_id
		 WHERE a.student_id = ? AND a.status = 'active'`,
		studentID,
	).Scan(&a.ID, &a.StudentID, &a.LockerID, &a.Password, &a.Status,
		&a.AssignedAt, &a.ReturnedAt, &a.LockerNumber)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting current assignment: %w", err)
	}

	items, err := store.ListItemsForAssignment(ctx, db, a.ID)
	if err != nil {
		return nil, err
	}
	a.Items = items
	return a, nil
}

func insertStoredItem(ctx context.Context, tx *sql.Tx, assignmentID string, item model.NewStoredItem) error {
	_, err := insertStoredItemID(ctx, tx, assignmentID, item)
	return err
}

func insertStoredItemID(ctx context.Context, tx *sql.Tx, assignmentID string, item model.NewStoredItem) (string, error) {
	id := uuid.NewString()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO stored_items (id, assignment_id, item_type, model, color, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, assignmentID, item.ItemType, item.Model, item.Color, item.Notes,
	)
	if err != nil {
		return "", fmt.Errorf("storing item: %w", err)
	}
	return id, nil
}

// generatePassword draws a uniform 6-digit code from [100000, 999999].
func generatePassword() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
