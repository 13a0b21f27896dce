package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// The two partial unique indexes on locker_assignments are load-bearing: they
// are the authoritative guards for "at most one active assignment per student"
// and "at most one active assignment per locker". Application-level checks are
// fast-path optimizations only.
const schema = `
CREATE TABLE IF NOT EXISTS lockers (
    id            INTEGER PRIMARY KEY,
    locker_number INTEGER NOT NULL UNIQUE,
    status        TEXT NOT NULL DEFAULT 'available' CHECK (status IN ('available', 'occupied', 'maintenance')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS locker_assignments (
    id          TEXT PRIMARY KEY,
    student_id  TEXT NOT NULL,
    locker_id   INTEGER NOT NULL REFERENCES lockers(id),
    password    TEXT NOT NULL,
    status      TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'returned')),
    assigned_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    returned_at DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_student_active
    ON locker_assignments(student_id) WHERE status = 'active';

CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_locker_active
    ON locker_assignments(locker_id) WHERE status = 'active';

CREATE TABLE IF NOT EXISTS stored_items (
    id            TEXT PRIMARY KEY,
    assignment_id TEXT NOT NULL REFERENCES locker_assignments(id) ON DELETE CASCADE,
    item_type     TEXT NOT NULL,
    model         TEXT,
    color         TEXT,
    notes         TEXT,
    photo         BLOB,
    photo_mime    TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_stored_items_assignment
    ON stored_items(assignment_id);

CREATE TABLE IF NOT EXISTS admin_whitelist (
    email    TEXT PRIMARY KEY,
    added_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
