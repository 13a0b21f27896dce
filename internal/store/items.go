package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/model"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanStoredItem(row rowScanner) (*model.StoredItem, error) {
	item := &model.StoredItem{}
	var itemModel, color, notes, photoMime sql.NullString
	err := row.Scan(&item.ID, &item.AssignmentID, &item.ItemType, &itemModel, &color,
		&notes, &photoMime, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scanning stored item: %w", err)
	}
	item.Model = itemModel.String
	item.Color = color.String
	item.Notes = notes.String
	item.PhotoMime = photoMime.String
	return item, nil
}

// GetStoredItem returns a stored item by ID.
func GetStoredItem(ctx context.Context, db *sql.DB, id string) (*model.StoredItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, assignment_id, item_type, model, color, notes, photo_mime, created_at
		 FROM stored_items WHERE id = ?`, id,
	)
	item, err := scanStoredItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ListItemsForAssignment returns the stored items owned by an assignment,
// oldest first.
func ListItemsForAssignment(ctx context.Context, db *sql.DB, assignmentID string) ([]model.StoredItem, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, assignment_id, item_type, model, color, notes, photo_mime, created_at
		 FROM stored_items WHERE assignment_id = ? ORDER BY created_at, rowid`,
		assignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing stored items: %w", err)
	}
	defer rows.Close()

	var items []model.StoredItem
	for rows.Next() {
		item, err := scanStoredItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetStoredItemForStudent returns a stored item only if it belongs to the
// student's active assignment. Used by the photo endpoints to enforce
// ownership.
func GetStoredItemForStudent(ctx context.Context, db *sql.DB, itemID, studentID string) (*model.StoredItem, error) {
	row := db.QueryRowContext(ctx,
		`SELECT i.id, i.assignment_id, i.item_type, i.model, i.color, i.notes,
		        i.photo_mime, i.created_at
		 FROM stored_items i
		 JOIN locker_assignments a ON a.id = i.assignment_id
		 WHERE i.id = ? AND a.student_id = ? AND a.status = 'active'`,
		itemID, studentID,
	)
	item, err := scanStoredItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// SetStoredItemPhoto stores the normalized photo bytes for an item.
func SetStoredItemPhoto(ctx context.Context, db *sql.DB, itemID string, photo []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE stored_items SET photo = ?, photo_mime = ? WHERE id = ?`,
		photo, mime, itemID,
	)
	if err != nil {
		return fmt.Errorf("setting stored item photo: %w", err)
	}
	return nil
}

// GetStoredItemPhoto returns an item's photo bytes and MIME type, or nil
// bytes when the item has no photo.
func GetStoredItemPhoto(ctx context.Context, db *sql.DB, itemID string) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM stored_items WHERE id = ?`, itemID,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting stored item photo: %w", err)
	}
	return photo, mime.String, nil
}
