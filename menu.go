//go:build !server

// +build !server

package main

import (
	"context"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/menu"
	"github.com/wailsapp/wails/v2/pkg/menu/keys"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// appMenu is the native application menu. The recent workspaces submenu is
// rebuilt whenever a workspace is opened or found missing.
type appMenu struct {
	app    *App
	menu   *menu.Menu
	recent *menu.Menu

	mu  sync.Mutex
	ctx context.Context
}

func newAppMenu(app *App) *appMenu {
	m := &appMenu{app: app, menu: menu.NewMenu()}

	m.menu.Append(menu.AppMenu())

	file := m.menu.AddSubmenu("File")
	file.AddText("Open Workspace…", keys.CmdOrCtrl("o"), func(*menu.CallbackData) {
		go m.run("open workspace", func() error {
			_, err := app.OpenDirectoryDialog()
			return err
		})
	})
	file.AddText("Open File…", keys.CmdOrCtrl("n"), func(*menu.CallbackData) {
		go m.run("open file", func() error {
			_, err := app.OpenFileDialog()
			return err
		})
	})
	m.recent = file.AddSubmenu("Recent Workspaces")
	file.AddSeparator()
	file.AddText("Save", keys.CmdOrCtrl("s"), func(*menu.CallbackData) {
		go m.run("save", app.SaveActiveFile)
	})

	m.menu.Append(menu.EditMenu())
	return m
}

// attach binds the menu to the running window and fills in recent workspaces
func (m *appMenu) attach(ctx context.Context) {
	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	m.app.mu.Lock()
	m.app.onRecentChanged = m.refreshRecent
	m.app.mu.Unlock()

	m.refreshRecent()
}

func (m *appMenu) refreshRecent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return
	}

	workspaces, err := m.app.ListRecentWorkspaces()
	if err != nil {
		m.app.log.Error("Failed to list recent workspaces: " + err.Error())
		return
	}

	m.recent.Items = nil
	if len(workspaces) == 0 {
		item := m.recent.AddText("No Recent Workspaces", nil, nil)
		item.Disabled = true
	}
	for _, ws := range workspaces {
		path := ws.Path
		m.recent.AddText(path, nil, func(*menu.CallbackData) {
			go m.run("open recent workspace", func() error {
				return m.app.OpenDirectory(path)
			})
		})
	}

	runtime.MenuSetApplicationMenu(m.ctx, m.menu)
	runtime.MenuUpdateApplicationMenu(m.ctx)
}

// run executes a menu action; failures are already published as
// session:error, so they are only logged here.
func (m *appMenu) run(action string, fn func() error) {
	if err := fn(); err != nil {
		m.app.log.Warning(action + ": " + err.Error())
	}
}
