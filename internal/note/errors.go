// internal/note/errors.go
package note

import (
	"errors"
	"fmt"
)

var (
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrIORead               = errors.New("read failed")
	ErrIOWrite              = errors.New("write failed")
	ErrIOStat               = errors.New("stat failed")
	ErrNoActiveFile         = errors.New("no active file")
)

// DirectoryError reports a workspace directory that could not be listed
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory unavailable: %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() []error {
	return []error{ErrDirectoryUnavailable, e.Err}
}

// Op names a per-file operation of the persistence gateway
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
	OpStat  Op = "stat"
)

// IOError reports a failed read, write or stat of a single note file
type IOError struct {
	Op   Op
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() []error {
	return []error{e.sentinel(), e.Err}
}

func (e *IOError) sentinel() error {
	switch e.Op {
	case OpRead:
		return ErrIORead
	case OpWrite:
		return ErrIOWrite
	default:
		return ErrIOStat
	}
}

// NewIOError wraps err as an IOError, or returns nil when err is nil
func NewIOError(op Op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
