package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"task_frontend/internal/config"
	"task_frontend/internal/logger"
	"task_frontend/internal/page"
	"task_frontend/internal/taskapi"
	"task_frontend/internal/tui"
)

func main() {
	cfg := config.LoadClient()

	// the terminal belongs to the UI; logs go to TUI_LOG_FILE or nowhere
	var logOut io.Writer = io.Discard
	if path := os.Getenv("TUI_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Fatal("open log file", "path", path, "error", err)
		}
		defer f.Close()
		logOut = f
	}
	logger.InitWriter(logOut, cfg.LogLevel, cfg.LogJSON)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := taskapi.NewClient(cfg.TaskAPIBaseURL, cfg.TaskAPIAuth)
	if err := tui.Run(ctx, page.New(client)); err != nil {
		logger.InitWriter(os.Stderr, cfg.LogLevel, false)
		logger.Fatal("tui", "error", err)
	}
}
