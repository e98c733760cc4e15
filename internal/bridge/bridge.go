// internal/bridge/bridge.go
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"saturn/internal/note"
)

// DirectoryKey is the settings key holding the last opened workspace
const DirectoryKey = "directory"

// ErrStopped is returned by Dispatch after Run has returned
var ErrStopped = errors.New("command bridge stopped")

// Session is the part of the workspace session driven by host commands
type Session interface {
	SetWorkspace(ctx context.Context, dir string) error
	OpenContent(content string)
	SaveActive(ctx context.Context) error
	Snapshot() note.Snapshot
}

// Settings is the durable key-value store
type Settings interface {
	GetSetting(key string) (string, bool, error)
	SaveSetting(key, value string) error
	DeleteSetting(key string) error
}

// RecentWorkspaces optionally records opened directories
type RecentWorkspaces interface {
	TouchWorkspace(path string) error
	DeleteRecentWorkspace(path string) error
}

// Command is a host request
type Command interface {
	Name() string
}

// OpenDirectory asks to switch the workspace to Path
type OpenDirectory struct {
	Path string
}

// OpenFile hands externally read content to the editor
type OpenFile struct {
	Content string
}

// RequestSave asks to save the active note
type RequestSave struct{}

func (OpenDirectory) Name() string { return "open-directory" }
func (OpenFile) Name() string      { return "open-file" }
func (RequestSave) Name() string   { return "save-file" }

type request struct {
	cmd    Command
	result chan error
}

// Bridge maps host commands onto the session and executes them one at a time
type Bridge struct {
	session  Session
	settings Settings
	recent   RecentWorkspaces
	log      logger.Logger

	// mu is held for reading while Dispatch queues a request and for
	// writing while Run drains the queue on stop.
	mu       sync.RWMutex
	requests chan request
	stopped  chan struct{}
}

// New creates a Bridge. recent may be nil.
func New(session Session, settings Settings, recent RecentWorkspaces, log logger.Logger) *Bridge {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &Bridge{
		session:  session,
		settings: settings,
		recent:   recent,
		log:      log,
		requests: make(chan request, 16),
		stopped:  make(chan struct{}),
	}
}

// Run executes dispatched commands in arrival order until ctx is done.
// Commands still queued at that point are answered with ErrStopped.
func (b *Bridge) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			b.stop()
			return
		}
		select {
		case req := <-b.requests:
			req.result <- b.Do(ctx, req.cmd)
			close(req.result)
		case <-ctx.Done():
			b.stop()
			return
		}
	}
}

func (b *Bridge) stop() {
	close(b.stopped)

	// Wait out Dispatch calls that saw the bridge running
	b.mu.Lock()
	defer b.mu.Unlock()
	for {
		select {
		case req := <-b.requests:
			b.log.Debug("dropping command " + req.cmd.Name())
			req.result <- ErrStopped
			close(req.result)
		default:
			return
		}
	}
}

// Dispatch queues cmd for Run and returns a channel carrying its result
func (b *Bridge) Dispatch(cmd Command) <-chan error {
	result := make(chan error, 1)

	b.mu.RLock()
	defer b.mu.RUnlock()
	select {
	case <-b.stopped:
		result <- ErrStopped
		close(result)
		return result
	default:
	}

	select {
	case b.requests <- request{cmd: cmd, result: result}:
	case <-b.stopped:
		result <- ErrStopped
		close(result)
	}
	return result
}

// Do executes cmd synchronously on the caller's goroutine
func (b *Bridge) Do(ctx context.Context, cmd Command) error {
	b.log.Debug("command " + cmd.Name())

	switch c := cmd.(type) {
	case OpenDirectory:
		return b.openDirectory(ctx, c.Path)
	case OpenFile:
		b.session.OpenContent(c.Content)
		return nil
	case RequestSave:
		return b.session.SaveActive(ctx)
	default:
		return fmt.Errorf("unknown command %q", cmd.Name())
	}
}

// Restore reopens the last workspace, if one was saved
func (b *Bridge) Restore(ctx context.Context) error {
	dir, ok, err := b.settings.GetSetting(DirectoryKey)
	if err != nil {
		return fmt.Errorf("read %s setting: %w", DirectoryKey, err)
	}
	if !ok || dir == "" {
		return nil
	}

	b.log.Info("restoring workspace " + dir)
	err = b.session.SetWorkspace(ctx, dir)
	if errors.Is(err, note.ErrDirectoryUnavailable) {
		if err := b.settings.DeleteSetting(DirectoryKey); err != nil {
			b.log.Error(fmt.Sprintf("delete %s setting: %v", DirectoryKey, err))
		}
		b.forget(dir)
	}
	return err
}

func (b *Bridge) openDirectory(ctx context.Context, dir string) error {
	if dir == "" {
		return fmt.Errorf("%w: empty path", note.ErrDirectoryUnavailable)
	}

	err := b.session.SetWorkspace(ctx, dir)
	switch {
	// A failed first load still leaves the workspace open
	case err == nil || errors.Is(err, note.ErrIORead):
		b.persist(dir)
	case errors.Is(err, note.ErrDirectoryUnavailable):
		b.forget(dir)
	}
	return err
}

// forget drops a directory that no longer opens from the recent list
func (b *Bridge) forget(dir string) {
	if b.recent == nil {
		return
	}
	if err := b.recent.DeleteRecentWorkspace(dir); err != nil {
		b.log.Error(fmt.Sprintf("forget recent workspace %s: %v", dir, err))
	}
}

func (b *Bridge) persist(dir string) {
	if err := b.settings.SaveSetting(DirectoryKey, dir); err != nil {
		b.log.Error(fmt.Sprintf("save %s setting: %v", DirectoryKey, err))
	}
	if b.recent != nil {
		if err := b.recent.TouchWorkspace(dir); err != nil {
			b.log.Error(fmt.Sprintf("record recent workspace %s: %v", dir, err))
		}
	}
}
