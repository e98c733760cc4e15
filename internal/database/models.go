// internal/database/models.go
package database

import "time"

// Setting stores application settings
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecentWorkspace is a previously opened workspace directory
type RecentWorkspace struct {
	Path       string    `json:"path"`
	OpenCount  int       `json:"open_count"`
	LastOpened time.Time `json:"last_opened"`
}
