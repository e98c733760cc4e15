// internal/note/models.go
package note

import "time"

// FileRecord describes one note in the workspace list
type FileRecord struct {
	Title     string    `json:"title"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`

	// Transient records come from externally supplied content and have no
	// backing file until the user saves them elsewhere.
	Transient bool   `json:"transient,omitempty"`
	Content   string `json:"-"`
}

// FileList is the ordered note list of a workspace
type FileList []FileRecord

// Clone returns a copy that shares no backing array with l
func (l FileList) Clone() FileList {
	if l == nil {
		return FileList{}
	}
	out := make(FileList, len(l))
	copy(out, l)
	return out
}

// Snapshot is the host-facing view of a workspace session
type Snapshot struct {
	Directory       string   `json:"directory"`
	Files           FileList `json:"files"`
	ActiveIndex     int      `json:"active_index"`
	Buffer          string   `json:"buffer"`
	ActiveCreatedAt string   `json:"active_created_at"`
	Populated       bool     `json:"populated"`
}

// Active returns the active record, if any
func (s Snapshot) Active() (FileRecord, bool) {
	if s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Files) {
		return FileRecord{}, false
	}
	return s.Files[s.ActiveIndex], true
}
