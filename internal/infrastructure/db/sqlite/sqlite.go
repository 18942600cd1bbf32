// Package sqlite implements the persistent store behind the repository
// ports. SQLite gives the two guarantees the placement engine leans on:
// multi-statement transactions and a composite UNIQUE(x, y) constraint that
// stays authoritative under concurrent placements.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	sqlitedriver "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
}

// New opens a SQLite database at path and applies the connection pragmas.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &DB{db}, nil
}

// Migrate creates the schema. Idempotent, so it runs unconditionally at
// startup.
func (db *DB) Migrate() error {
	schema := `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slack_id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    avatar TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
    id TEXT PRIMARY KEY,
    user_id INTEGER NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_sessions_expiry ON sessions(expires_at);

CREATE TABLE IF NOT EXISTS frames (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id INTEGER NOT NULL,
    url TEXT NOT NULL,
    project_names TEXT NOT NULL DEFAULT '',
    is_pending INTEGER NOT NULL DEFAULT 1,
    approved_time INTEGER,
    placed_tiles INTEGER NOT NULL DEFAULT 0,
    tracker_record_id TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (owner_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_frames_owner ON frames(owner_id);
CREATE INDEX IF NOT EXISTS idx_frames_url ON frames(url);

CREATE TABLE IF NOT EXISTS tiles (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    frame_id INTEGER NOT NULL,
    is_pending INTEGER NOT NULL DEFAULT 0,
    placed_at TIMESTAMP NOT NULL,
    UNIQUE (x, y),
    FOREIGN KEY (frame_id) REFERENCES frames(id)
);
CREATE INDEX IF NOT EXISTS idx_tiles_frame ON tiles(frame_id);
`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var serr *sqlitedriver.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
