// internal/discovery/discovery.go
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"saturn/internal/note"
)

// DefaultMarker is the substring a file name must contain to be listed
const DefaultMarker = ".md"

type options struct {
	marker string
	now    func() time.Time
}

// Option configures a Discover call
type Option func(*options)

// WithMarker overrides the markdown marker
func WithMarker(marker string) Option {
	return func(o *options) {
		if marker != "" {
			o.marker = marker
		}
	}
}

// WithClock sets the source of the discovery timestamp
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Discover lists the markdown files of dir as an ordered FileList.
// File contents are not opened.
func Discover(dir string, opts ...Option) (note.FileList, error) {
	o := options{marker: DefaultMarker, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, &note.DirectoryError{Dir: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &note.DirectoryError{Dir: dir, Err: fmt.Errorf("not a directory")}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &note.DirectoryError{Dir: dir, Err: err}
	}

	// One placeholder for the whole scan; the true creation time is only
	// known once a record is loaded.
	discoveredAt := o.now()

	files := make(note.FileList, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.Contains(entry.Name(), o.marker) {
			continue
		}
		files = append(files, note.FileRecord{
			Title:     Title(entry.Name()),
			Path:      filepath.Join(dir, entry.Name()),
			CreatedAt: discoveredAt,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt.Before(files[j].CreatedAt)
	})

	return files, nil
}

// Title derives the display name of a note from its path
func Title(path string) string {
	name := filepath.Base(path)
	if i := strings.Index(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
