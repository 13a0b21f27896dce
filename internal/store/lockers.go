package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
)

// CreateLocker registers a new locker with the given display number.
func CreateLocker(ctx context.Context, db *sql.DB, lockerNumber int) (*model.Locker, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO lockers (locker_number) VALUES (?)`,
		lockerNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("creating locker: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting locker id: %w", err)
	}

	return GetLocker(ctx, db, id)
}

// EnsureLocker registers a locker if its number is not already taken.
// Used by idempotent seed provisioning.
func EnsureLocker(ctx context.Context, db *sql.DB, lockerNumber int) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO lockers (locker_number) VALUES (?)`,
		lockerNumber,
	)
	if err != nil {
		return fmt.Errorf("ensuring locker: %w", err)
	}
	return nil
}

// GetLocker returns a locker by ID.
func GetLocker(ctx context.Context, db *sql.DB, id int64) (*model.Locker, error) {
	locker := &model.Locker{}
	err := db.QueryRowContext(ctx,
		`SELECT id, locker_number, status, created_at FROM lockers WHERE id = ?`, id,
	).Scan(&locker.ID, &locker.LockerNumber, &locker.Status, &locker.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting locker: %w", err)
	}
	return locker, nil
}

// GetLockerByNumber returns a locker by its display number.
func GetLockerByNumber(ctx context.Context, db *sql.DB, lockerNumber int) (*model.Locker, error) {
	locker := &model.Locker{}
	err := db.QueryRowContext(ctx,
		`SELECT id, locker_number, status, created_at FROM lockers WHERE locker_number = ?`,
		lockerNumber,
	).Scan(&locker.ID, &locker.LockerNumber, &locker.Status, &locker.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting locker by number: %w", err)
	}
	return locker, nil
}

// ListLockers returns all lockers ordered by locker number.
func ListLockers(ctx context.Context, db *sql.DB) ([]model.Locker, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, locker_number, status, created_at FROM lockers ORDER BY locker_number`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing lockers: %w", err)
	}
	defer rows.Close()

	var lockers []model.Locker
	for rows.Next() {
		var l model.Locker
		if err := rows.Scan(&l.ID, &l.LockerNumber, &l.Status, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning locker: %w", err)
		}
		lockers = append(lockers, l)
	}
	return lockers, rows.Err()
}

// UpdateLockerStatus sets a locker's status without touching assignment
// state. Returns false if no locker with the given ID exists. Callers that
// care about assignment consistency go through the engine.
func UpdateLockerStatus(ctx context.Context, db *sql.DB, id int64, status string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE lockers SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return false, fmt.Errorf("updating locker status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating locker status: %w", err)
	}
	return n > 0, nil
}

// ListLockersAdmin returns all lockers ordered by locker number, each
// enriched with its active assignment (if any) and that assignment's stored
// items. Lockers whose status disagrees with their assignment state get an
// Inconsistency flag; the listing surfaces the condition instead of fixing it.
func ListLockersAdmin(ctx context.Context, db *sql.DB) ([]model.Locker, error) {
	lockers, err := ListLockers(ctx, db)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT a.id, a.student_id, a.locker_id, a.status, a.assigned_at, a.returned_at,
		        l.locker_number
		 FROM locker_assignments a
		 JOIN lockers l ON l.id = a.locker_id
		 WHERE a.status = 'active'`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing active assignments: %w", err)
	}
	defer rows.Close()

	active := make(map[int64]*model.Assignment)
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.StudentID, &a.LockerID, &a.Status, &a.AssignedAt,
			&a.ReturnedAt, &a.LockerNumber); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		active[a.LockerID] = &a
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := db.QueryContext(ctx,
		`SELECT i.id, i.assignment_id, i.item_type, i.model, i.color, i.notes,
		        i.photo_mime, i.created_at
		 FROM stored_items i
		 JOIN locker_assignments a ON a.id = i.assignment_id
		 WHERE a.status = 'active'
		 ORDER BY i.created_at, i.rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stored items: %w", err)
	}
	defer itemRows.Close()

	itemsByAssignment := make(map[string][]model.StoredItem)
	for itemRows.Next() {
		item, err := scanStoredItem(itemRows)
		if err != nil {
			return nil, err
		}
		itemsByAssignment[item.AssignmentID] = append(itemsByAssignment[item.AssignmentID], *item)
	}
	if err := itemRows.Err(); err != nil {
		return nil, err
	}

	for i := range lockers {
		l := &lockers[i]
		if a, ok := active[l.ID]; ok {
			a.Items = itemsByAssignment[a.ID]
			l.ActiveAssignment = a
		}
		l.Inconsistency = Inconsistency(l.Status, l.ActiveAssignment != nil)
	}
	return lockers, nil
}

// Inconsistency names the condition when a locker's status disagrees with its
// assignment state, or returns "" when the two agree.
func Inconsistency(status string, hasActive bool) string {
	switch {
	case status == model.LockerStatusOccupied && !hasActive:
		return model.InconsistencyOccupiedNoAssignment
	case status == model.LockerStatusAvailable && hasActive:
		return model.InconsistencyAvailableWithActive
	case status == model.LockerStatusMaintenance && hasActive:
		return model.InconsistencyMaintenanceWithActive
	}
	return ""
}
