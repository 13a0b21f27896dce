package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/keerthisuryateja/Hostel-Locker-System/internal/db"
)

// seedAssignment inserts an active assignment directly; the engine's
// allocation path has its own tests.
func seedAssignment(t *testing.T, database *sql.DB, studentID string) string {
	t.Helper()
	ctx := context.Background()

	locker, err := CreateLocker(ctx, database, 1)
	if err != nil {
		t.Fatalf("CreateLocker: %v", err)
	}

	id := uuid.NewString()
	_, err = database.ExecContext(ctx,
		`INSERT INTO locker_assignments (id, student_id, locker_id, password, status)
		 VALUES (?, ?, ?, '123456', 'active')`,
		id, studentID, locker.ID,
	)
	if err != nil {
		t.Fatalf("seeding assignment: %v", err)
	}
	return id
}

func seedItem(t *testing.T, database *sql.DB, assignmentID, itemType string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := database.ExecContext(context.Background(),
		`INSERT INTO stored_items (id, assignment_id, item_type) VALUES (?, ?, ?)`,
		id, assignmentID, itemType,
	)
	if err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return id
}

func TestListItemsForAssignment(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	assignmentID := seedAssignment(t, database, "s1")
	seedItem(t, database, assignmentID, "Laptop")
	seedItem(t, database, assignmentID, "Charger")

	items, err := ListItemsForAssignment(ctx, database, assignmentID)
	if err != nil {
		t.Fatalf("ListItemsForAssignment: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ItemType != "Laptop" || items[1].ItemType != "Charger" {
		t.Errorf("unexpected order: %q, %q", items[0].ItemType, items[1].ItemType)
	}
}

func TestGetStoredItemForStudent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	assignmentID := seedAssignment(t, database, "s1")
	itemID := seedItem(t, database, assignmentID, "Laptop")

	item, err := GetStoredItemForStudent(ctx, database, itemID, "s1")
	if err != nil {
		t.Fatalf("GetStoredItemForStudent: %v", err)
	}
	if item == nil || item.ItemType != "Laptop" {
		t.Errorf("expected laptop item, got %+v", item)
	}

	// Another student must not see the item.
	other, err := GetStoredItemForStudent(ctx, database, itemID, "s2")
	if err != nil {
		t.Fatalf("GetStoredItemForStudent: %v", err)
	}
	if other != nil {
		t.Error("expected nil for non-owning student")
	}
}

func TestStoredItemPhoto(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	assignmentID := seedAssignment(t, database, "s1")
	itemID := seedItem(t, database, assignmentID, "Laptop")

	photo, mime, err := GetStoredItemPhoto(ctx, database, itemID)
	if err != nil {
		t.Fatalf("GetStoredItemPhoto: %v", err)
	}
	if photo != nil || mime != "" {
		t.Error("expected no photo initially")
	}

	if err := SetStoredItemPhoto(ctx, database, itemID, []byte("jpeg bytes"), "image/jpeg"); err != nil {
		t.Fatalf("SetStoredItemPhoto: %v", err)
	}

	photo, mime, err = GetStoredItemPhoto(ctx, database, itemID)
	if err != nil {
		t.Fatalf("GetStoredItemPhoto: %v", err)
	}
	if string(photo) != "jpeg bytes" || mime != "image/jpeg" {
		t.Errorf("unexpected photo round trip: %q %q", photo, mime)
	}
}
