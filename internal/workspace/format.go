// internal/workspace/format.go
package workspace

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatCreatedAt renders a creation time as "19th October 2026"
func FormatCreatedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Ordinal(t.Day()) + " " + t.Format("January 2006")
}
