package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by every store when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Open opens the SQLite file at path with WAL, a busy timeout and foreign keys.
// PRE: path is a writable file path or ":memory:"
// POST: Returns a pool limited to one writer connection
func Open(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// SQLite serialises writers; a single connection keeps transactions and
	// in-memory databases on one handle.
	db.SetMaxOpenConns(1)
	return db, nil
}

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: The document table and its indexes exist
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS document (
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		parent TEXT NOT NULL DEFAULT '',
		data TEXT NOT NULL CHECK (json_valid(data)),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_document_parent ON document (collection, parent);
	CREATE INDEX IF NOT EXISTS idx_member_ref ON document (collection, json_extract(data, '$.memberId'));
	CREATE INDEX IF NOT EXISTS idx_lesson_date ON document (collection, json_extract(data, '$.date'));
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
