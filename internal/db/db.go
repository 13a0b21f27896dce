package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// connOptions is applied to every connection the pool opens. database/sql
// hands out many connections, so anything per-connection must travel in the
// DSN: an Exec would configure one pooled connection and leave the rest with
// busy_timeout=0 (instant SQLITE_BUSY instead of queueing) and foreign keys
// off. Transactions start with an immediate write lock (_txlock=immediate) so
// concurrent writers queue on busy_timeout instead of failing on a stale read
// snapshot. The locker claim path depends on both.
const connOptions = "_txlock=immediate" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=journal_mode(WAL)" +
	"&_pragma=synchronous(NORMAL)"

// Open opens a SQLite database pool with the connection options appended to
// any parameters already present in path.
func Open(path string) (*sql.DB, error) {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite", path+sep+connOptions)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return db, nil
}
