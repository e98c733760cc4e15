// bindings.go
package main

import (
	"errors"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"saturn/internal/bridge"
	"saturn/internal/config"
	"saturn/internal/database"
	"saturn/internal/note"
	"saturn/internal/storage"
)

// ===== Session Bindings =====

// GetState returns the current workspace session
func (a *App) GetState() note.Snapshot {
	return a.session.Snapshot()
}

// OpenDirectory makes path the current workspace and remembers it
func (a *App) OpenDirectory(path string) error {
	err := <-a.bridge.Dispatch(bridge.OpenDirectory{Path: path})
	// Opening touches the recent list; an unavailable directory is dropped from it
	if err == nil || errors.Is(err, note.ErrIORead) || errors.Is(err, note.ErrDirectoryUnavailable) {
		a.recentChanged()
	}
	return hostError(err)
}

// OpenFile shows content as an unsaved note
func (a *App) OpenFile(content string) error {
	return hostError(<-a.bridge.Dispatch(bridge.OpenFile{Content: content}))
}

// SaveActiveFile writes the editor buffer to the active note
func (a *App) SaveActiveFile() error {
	return hostError(<-a.bridge.Dispatch(bridge.RequestSave{}))
}

// SwitchFile saves the current note and opens the one at index
func (a *App) SwitchFile(index int) error {
	return hostError(a.session.SwitchFile(a.ctx, index))
}

// EditBuffer records the editor contents
func (a *App) EditBuffer(text string) {
	a.session.EditBuffer(text)
}

// ===== Preview Bindings =====

// RenderMarkdown converts markdown to HTML for the preview pane
func (a *App) RenderMarkdown(source string) (string, error) {
	return a.renderer.Render(source)
}

// ===== Dialog Bindings =====

// OpenDirectoryDialog lets the user pick a workspace and opens it.
// Returns the chosen path, or "" when cancelled.
func (a *App) OpenDirectoryDialog() (string, error) {
	dir, err := runtime.OpenDirectoryDialog(a.ctx, runtime.OpenDialogOptions{
		DefaultDirectory:     a.defaultDialogDirectory(),
		Title:                "Open Workspace",
		CanCreateDirectories: true,
		ShowHiddenFiles:      false,
	})
	if err != nil || dir == "" {
		return "", err
	}
	return dir, a.OpenDirectory(dir)
}

// OpenFileDialog lets the user pick any file and shows it as an unsaved note.
// Returns the chosen path, or "" when cancelled.
func (a *App) OpenFileDialog() (string, error) {
	// File filters are left out: NSOpenPanel crashes on some patterns
	path, err := runtime.OpenFileDialog(a.ctx, runtime.OpenDialogOptions{
		DefaultDirectory: a.defaultDialogDirectory(),
		Title:            "Open File",
	})
	if err != nil || path == "" {
		return "", err
	}

	data, err := storage.NewGateway().ReadFile(path)
	if err != nil {
		a.log.Error(err.Error())
		return "", err
	}
	return path, a.OpenFile(string(data))
}

func (a *App) defaultDialogDirectory() string {
	if dir := a.session.Snapshot().Directory; dir != "" {
		return dir
	}
	return a.config.HomeDir
}

// ===== Settings Bindings =====

// ListRecentWorkspaces returns recently opened workspaces, newest first
func (a *App) ListRecentWorkspaces() ([]*database.RecentWorkspace, error) {
	if a.dbManager == nil {
		return []*database.RecentWorkspace{}, nil
	}
	return a.dbManager.ListRecentWorkspaces(a.config.RecentLimit)
}

// GetConfig returns the user preferences in effect
func (a *App) GetConfig() config.Preferences {
	return a.config.Preferences
}

// hostError hides results that were overtaken by a newer request
func hostError(err error) error {
	if isSuperseded(err) {
		return nil
	}
	return err
}
