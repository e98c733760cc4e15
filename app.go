// app.go
package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"saturn/internal/bridge"
	"saturn/internal/config"
	"saturn/internal/database"
	"saturn/internal/discovery"
	"saturn/internal/eventhub"
	"saturn/internal/note"
	"saturn/internal/render"
	"saturn/internal/storage"
	"saturn/internal/workspace"
)

// shutdownTimeout bounds how long pending note writes may delay exit
const shutdownTimeout = 5 * time.Second

// App struct contains the core application state and managers
type App struct {
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	config *config.Config
	log    logger.Logger

	dbManager *database.Database
	eventHub  *eventhub.EventHub
	session   *workspace.Session
	bridge    *bridge.Bridge
	renderer  *render.Renderer

	// onRecentChanged runs after the recent workspaces list may have changed
	onRecentChanged func()
}

// NewApp creates a new App application struct
func NewApp(cfg *config.Config, log logger.Logger) *App {
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	return &App{
		config:   cfg,
		log:      log,
		renderer: render.New(),
	}
}

// startup is called when the app starts (Wails callback)
func (a *App) startup(ctx context.Context) {
	a.startupCommon(ctx)
}

// Startup is the exported version for standalone server
func (a *App) Startup(ctx context.Context) {
	a.startupCommon(ctx)
}

// startupCommon contains the common startup logic
func (a *App) startupCommon(ctx context.Context) {
	a.ctx = ctx

	// Settings are optional: without a database the app still edits notes
	var settings bridge.Settings = memorySettings{}
	var recent bridge.RecentWorkspaces
	db, err := database.Open(a.config.DatabasePath)
	if err != nil {
		a.log.Error("Failed to open database: " + err.Error())
	} else {
		a.dbManager = db
		settings = db
		recent = db
	}

	a.eventHub = eventhub.New(ctx)

	marker := a.config.MarkdownMarker
	a.session = workspace.NewSession(storage.NewGateway(),
		workspace.WithPublisher(a.eventHub),
		workspace.WithLogger(a.log),
		workspace.WithDiscover(func(dir string) (note.FileList, error) {
			return discovery.Discover(dir, discovery.WithMarker(marker))
		}),
	)

	a.bridge = bridge.New(a.session, settings, recent, a.log)

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.bridge.Run(runCtx)

	if err := a.bridge.Restore(ctx); err != nil && !isSuperseded(err) {
		a.log.Warning("Failed to restore last workspace: " + err.Error())
	}

	a.log.Info("saturn started successfully")
}

// shutdown is called when the app is shutting down (Wails callback)
func (a *App) shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

// Shutdown is the exported version for standalone server
func (a *App) Shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

// shutdownCommon contains the common shutdown logic
func (a *App) shutdownCommon(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	// Let queued note writes land before the process exits
	if a.session != nil {
		flushCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
		if err := a.session.Close(flushCtx); err != nil {
			a.log.Error("Pending note writes not flushed: " + err.Error())
		}
		cancel()
	}

	if a.dbManager != nil {
		if err := a.dbManager.Close(); err != nil {
			a.log.Error("Failed to close database: " + err.Error())
		}
	}

	a.log.Info("saturn shutdown complete")
}

// SetBroadcaster attaches an event sink such as the websocket server
func (a *App) SetBroadcaster(b eventhub.Broadcaster) {
	a.eventHub.SetBroadcaster(b)
}

// recentChanged notifies the desktop host, if any
func (a *App) recentChanged() {
	a.mu.RLock()
	fn := a.onRecentChanged
	a.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// isSuperseded reports errors caused by a newer request overtaking this one
func isSuperseded(err error) bool {
	return errors.Is(err, workspace.ErrStaleWorkspace) || errors.Is(err, workspace.ErrStaleLoad)
}

// memorySettings stands in when the database could not be opened
type memorySettings struct{}

func (memorySettings) GetSetting(string) (string, bool, error) { return "", false, nil }

func (memorySettings) SaveSetting(key, value string) error {
	return fmt.Errorf("settings unavailable: %s not saved", key)
}

func (memorySettings) DeleteSetting(string) error { return nil }
