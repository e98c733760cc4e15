// app_test.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"saturn/internal/config"
	"saturn/internal/note"
	"saturn/internal/workspace"
)

func startTestApp(t *testing.T) *App {
	t.Helper()
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	app := NewApp(cfg, logger.NewDefaultLogger())
	app.Startup(context.Background())
	t.Cleanup(func() { app.Shutdown(context.Background()) })
	return app
}

func writeNotes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.md"), []byte("# A\n"), 0644)
	os.WriteFile(filepath.Join(dir, "b.md"), []byte("# B\n"), 0644)
	return dir
}

func TestApp_OpenEditSwitch(t *testing.T) {
	app := startTestApp(t)
	dir := writeNotes(t)

	if state := app.GetState(); state.Populated || state.ActiveIndex != -1 {
		t.Fatalf("Expected empty session, got %+v", state)
	}

	if err := app.OpenDirectory(dir); err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	state := app.GetState()
	if len(state.Files) != 2 || state.ActiveIndex != 0 || state.Buffer != "# A\n" {
		t.Fatalf("Unexpected state %+v", state)
	}

	app.EditBuffer("# A edited\n")
	if err := app.SwitchFile(1); err != nil {
		t.Fatalf("SwitchFile failed: %v", err)
	}
	if got := app.GetState().Buffer; got != "# B\n" {
		t.Errorf("Expected b.md content, got %q", got)
	}

	if err := app.SwitchFile(0); err != nil {
		t.Fatalf("SwitchFile back failed: %v", err)
	}
	if got := app.GetState().Buffer; got != "# A edited\n" {
		t.Errorf("Expected saved edit to be reloaded, got %q", got)
	}
}

func TestApp_SaveActiveFile(t *testing.T) {
	app := startTestApp(t)
	dir := writeNotes(t)

	if err := app.SaveActiveFile(); err == nil {
		t.Error("Expected error saving with no workspace")
	}

	app.OpenDirectory(dir)
	app.EditBuffer("saved")
	if err := app.SaveActiveFile(); err != nil {
		t.Fatalf("SaveActiveFile failed: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "a.md"))
	if string(data) != "saved" {
		t.Errorf("Expected file to hold buffer, got %q", data)
	}
}

func TestApp_OpenFile(t *testing.T) {
	app := startTestApp(t)

	if err := app.OpenFile("# outside"); err != nil {
		t.Fatalf("OpenFile failed: %v", err)
	}
	state := app.GetState()
	if state.ActiveIndex != 0 || state.Buffer != "# outside" {
		t.Errorf("Unexpected state %+v", state)
	}
	if state.Files[0].Title != "Untitled" {
		t.Errorf("Expected Untitled record, got %q", state.Files[0].Title)
	}
}

func TestApp_RecentAndRestore(t *testing.T) {
	cfg, err := config.LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	dir := writeNotes(t)

	first := NewApp(cfg, logger.NewDefaultLogger())
	first.Startup(context.Background())
	if err := first.OpenDirectory(dir); err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}

	recent, err := first.ListRecentWorkspaces()
	if err != nil {
		t.Fatalf("ListRecentWorkspaces failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Path != dir {
		t.Errorf("Expected %s in recent workspaces, got %+v", dir, recent)
	}
	first.Shutdown(context.Background())

	// A new run reopens the last workspace
	second := NewApp(cfg, logger.NewDefaultLogger())
	second.Startup(context.Background())
	defer second.Shutdown(context.Background())

	if got := second.GetState().Directory; got != dir {
		t.Errorf("Expected restored directory %s, got %q", dir, got)
	}
}

func TestApp_RenderMarkdownAndConfig(t *testing.T) {
	app := startTestApp(t)

	html, err := app.RenderMarkdown("# Title")
	if err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("Expected heading, got %q", html)
	}

	if got := app.GetConfig().MarkdownMarker; got != ".md" {
		t.Errorf("Expected default marker, got %q", got)
	}
}

func TestHostError(t *testing.T) {
	other := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"superseded load", workspace.ErrStaleLoad, nil},
		{"superseded scan", fmt.Errorf("open: %w", workspace.ErrStaleWorkspace), nil},
		{"real failure", other, other},
		{"no active file", note.ErrNoActiveFile, note.ErrNoActiveFile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hostError(tt.err); got != tt.want {
				t.Errorf("hostError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestApp_OpenMissingDirectoryDropsFromRecent(t *testing.T) {
	app := startTestApp(t)
	dir := writeNotes(t)
	missing := filepath.Join(t.TempDir(), "gone")

	notified := 0
	app.onRecentChanged = func() { notified++ }

	if err := app.OpenDirectory(dir); err != nil {
		t.Fatalf("OpenDirectory failed: %v", err)
	}
	app.dbManager.TouchWorkspace(missing)

	if err := app.OpenDirectory(missing); !errors.Is(err, note.ErrDirectoryUnavailable) {
		t.Fatalf("Expected ErrDirectoryUnavailable, got %v", err)
	}

	recent, err := app.ListRecentWorkspaces()
	if err != nil {
		t.Fatalf("ListRecentWorkspaces failed: %v", err)
	}
	if len(recent) != 1 || recent[0].Path != dir {
		t.Errorf("Expected only %s in recent workspaces, got %+v", dir, recent)
	}
	if notified != 2 {
		t.Errorf("Expected 2 recent list notifications, got %d", notified)
	}
}
