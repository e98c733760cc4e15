// internal/storage/gateway.go
package storage

import (
	"os"
	"time"

	"github.com/djherbis/times"

	"saturn/internal/note"
)

// Gateway performs file I/O for note files. It holds no session state.
type Gateway struct{}

// NewGateway creates a new Gateway
func NewGateway() *Gateway {
	return &Gateway{}
}

// ReadFile reads the full content of a note
func (g *Gateway) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, note.NewIOError(note.OpRead, path, err)
	}
	return data, nil
}

// WriteFile overwrites a note in place
func (g *Gateway) WriteFile(path string, data []byte) error {
	return note.NewIOError(note.OpWrite, path, os.WriteFile(path, data, 0644))
}

// StatCreatedAt returns the on-disk creation time of a note. Platforms
// without birth time fall back to change time, then modification time.
func (g *Gateway) StatCreatedAt(path string) (time.Time, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, note.NewIOError(note.OpStat, path, err)
	}
	switch {
	case ts.HasBirthTime():
		return ts.BirthTime(), nil
	case ts.HasChangeTime():
		return ts.ChangeTime(), nil
	default:
		return ts.ModTime(), nil
	}
}
