// internal/database/db.go
package database

import (
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// Database wraps the SQLite database connection
type Database struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// init creates the database schema
func (d *Database) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS recent_workspaces (
		path TEXT PRIMARY KEY,
		open_count INTEGER NOT NULL DEFAULT 0,
		last_opened INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_recent_workspaces_last_opened ON recent_workspaces(last_opened);
	`

	_, err := d.db.Exec(schema)
	return err
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// SaveSetting saves or updates a setting
func (d *Database) SaveSetting(key, value string) error {
	_, err := d.db.Exec(`
		INSERT OR REPLACE INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)`, key, value, time.Now())
	return err
}

// GetSetting retrieves a setting by key. The boolean is false when the key
// has never been saved.
func (d *Database) GetSetting(key string) (string, bool, error) {
	var value string
	err := d.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// DeleteSetting removes a setting
func (d *Database) DeleteSetting(key string) error {
	_, err := d.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

// TouchWorkspace records that a workspace directory was opened
func (d *Database) TouchWorkspace(path string) error {
	_, err := d.db.Exec(`
		INSERT INTO recent_workspaces (path, open_count, last_opened)
		VALUES (?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			open_count = open_count + 1,
			last_opened = excluded.last_opened`,
		path, time.Now().UnixNano())
	return err
}

// ListRecentWorkspaces returns workspaces, most recently opened first
func (d *Database) ListRecentWorkspaces(limit int) ([]*RecentWorkspace, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := d.db.Query(`
		SELECT path, open_count, last_opened
		FROM recent_workspaces ORDER BY last_opened DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workspaces []*RecentWorkspace
	for rows.Next() {
		var ws RecentWorkspace
		var lastOpened int64
		if err := rows.Scan(&ws.Path, &ws.OpenCount, &lastOpened); err != nil {
			return nil, err
		}
		ws.LastOpened = time.Unix(0, lastOpened)
		workspaces = append(workspaces, &ws)
	}
	return workspaces, rows.Err()
}

// DeleteRecentWorkspace forgets a workspace directory
func (d *Database) DeleteRecentWorkspace(path string) error {
	_, err := d.db.Exec("DELETE FROM recent_workspaces WHERE path = ?", path)
	return err
}
