//go:build !server

// +build !server

package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/runtime"

	"saturn/internal/config"
)

//go:embed all:frontend/dist
var assets embed.FS

// wailsBroadcaster forwards hub events to the window
type wailsBroadcaster struct {
	ctx context.Context
}

func (b *wailsBroadcaster) BroadcastEvent(eventType string, payload interface{}) {
	runtime.EventsEmit(b.ctx, eventType, payload)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}

	level, err := logger.StringToLogLevel(cfg.LogLevel)
	if err != nil {
		level = logger.INFO
	}
	fileLogger := logger.NewFileLogger(cfg.LogPath())

	app := NewApp(cfg, fileLogger)
	appMenu := newAppMenu(app)

	err = wails.Run(&options.App{
		Title:     "Saturn Note",
		Width:     1100,
		Height:    700,
		MinWidth:  640,
		MinHeight: 480,
		Menu:      appMenu.menu,
		AssetServer: &assetserver.Options{
			Assets: assets,
			Handler: NewFileLoader(func() string {
				return app.GetState().Directory
			}, fileLogger),
		},
		BackgroundColour:         &options.RGBA{R: 255, G: 255, B: 255, A: 255},
		EnableDefaultContextMenu: true,
		Logger:                   fileLogger,
		LogLevel:                 logger.DEBUG,
		LogLevelProduction:       level,
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			app.SetBroadcaster(&wailsBroadcaster{ctx: ctx})
			appMenu.attach(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
		Mac: &mac.Options{
			TitleBar: mac.TitleBarDefault(),
			About: &mac.AboutInfo{
				Title:   "Saturn Note",
				Message: fmt.Sprintf("Notes live in plain %s files.", cfg.MarkdownMarker),
			},
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
