//go:build server

// +build server

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wailsapp/wails/v2/pkg/logger"

	"saturn/internal/config"
	"saturn/internal/websocket"
)

// desktopOnly lists bindings that need a native window; the router skips them
var desktopOnly = []string{
	"Startup",
	"Shutdown",
	"SetBroadcaster",
	"OpenDirectoryDialog",
	"OpenFileDialog",
}

func main() {
	// 检查运行模式
	if mode := os.Getenv("SATURN_MODE"); mode != "websocket" {
		fmt.Println("Error: SATURN_MODE must be 'websocket'")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewDefaultLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := NewApp(cfg, log)
	app.Startup(ctx)

	wsServer := websocket.NewServer(app, os.Getenv("SATURN_AUTH_KEY"), log, desktopOnly...)
	app.SetBroadcaster(wsServer)

	port, err := wsServer.Start(ctx)
	if err != nil {
		fmt.Printf("Failed to start WebSocket server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("SATURN_WS_READY:port=%d\n", port)

	// 等待退出信号
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("Shutting down...")
	wsServer.Stop(ctx)
	app.Shutdown(ctx)
}
