// internal/note/errors_test.go
package note

import (
	"errors"
	"io/fs"
	"testing"
)

func TestIOError_Is(t *testing.T) {
	tests := []struct {
		op       Op
		sentinel error
	}{
		{OpRead, ErrIORead},
		{OpWrite, ErrIOWrite},
		{OpStat, ErrIOStat},
	}

	for _, tt := range tests {
		err := NewIOError(tt.op, "/notes/a.md", fs.ErrNotExist)
		if !errors.Is(err, tt.sentinel) {
			t.Errorf("%s: expected errors.Is(%v)", tt.op, tt.sentinel)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("%s: cause should stay reachable", tt.op)
		}
	}
}

func TestNewIOError_Nil(t *testing.T) {
	if err := NewIOError(OpRead, "/notes/a.md", nil); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestDirectoryError_Is(t *testing.T) {
	err := &DirectoryError{Dir: "/missing", Err: fs.ErrNotExist}
	if !errors.Is(err, ErrDirectoryUnavailable) {
		t.Error("Expected ErrDirectoryUnavailable")
	}
	if err.Error() != "directory unavailable: /missing: file does not exist" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestSnapshot_Active(t *testing.T) {
	s := Snapshot{ActiveIndex: -1}
	if _, ok := s.Active(); ok {
		t.Error("Empty snapshot should have no active record")
	}

	s = Snapshot{
		Files:       FileList{{Title: "a", Path: "/notes/a.md"}},
		ActiveIndex: 0,
	}
	rec, ok := s.Active()
	if !ok || rec.Title != "a" {
		t.Errorf("Expected record a, got %+v", rec)
	}
}
