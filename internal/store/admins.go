package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// IsAdminEmail checks the admin allow-list for the given email.
// The comparison is case-insensitive.
func IsAdminEmail(ctx context.Context, db *sql.DB, email string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM admin_whitelist WHERE email = ?`,
		strings.ToLower(email),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking admin whitelist: %w", err)
	}
	return count > 0, nil
}

// AddAdminEmail adds an email to the admin allow-list. Adding an existing
// entry is a no-op.
func AddAdminEmail(ctx context.Context, db *sql.DB, email string) error {
	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_whitelist (email) VALUES (?)`,
		strings.ToLower(email),
	)
	if err != nil {
		return fmt.Errorf("adding admin email: %w", err)
	}
	return nil
}

// RemoveAdminEmail removes an email from the admin allow-list.
func RemoveAdminEmail(ctx context.Context, db *sql.DB, email string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM admin_whitelist WHERE email = ?`,
		strings.ToLower(email),
	)
	if err != nil {
		return fmt.Errorf("removing admin email: %w", err)
	}
	return nil
}

// ListAdminEmails returns the allow-list, oldest entries first.
func ListAdminEmails(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT email FROM admin_whitelist ORDER BY added_at, email`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing admin emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scanning admin email: %w", err)
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}
