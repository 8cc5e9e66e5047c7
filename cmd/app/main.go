package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_frontend/internal/config"
	httpServer "task_frontend/internal/http"
	"task_frontend/internal/http/middleware"
	"task_frontend/internal/logger"
	"task_frontend/internal/page"
	"task_frontend/internal/session"
	"task_frontend/internal/taskapi"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	client := taskapi.NewClient(cfg.TaskAPIBaseURL, cfg.TaskAPIAuth)
	store := session.NewStore(cfg.SessionTTL, func() *page.Page {
		return page.New(client)
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	store.StartCleanup(ctx, time.Minute)

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer middleware.CloseRedisRateLimiter()

	r := gin.Default()
	httpServer.RegisterRoutes(r, httpServer.Deps{
		Backend:  client,
		Sessions: store,
		Tokens:   session.NewManager(cfg.SessionSecret, cfg.SessionTTL),
		Version:  version,
	}, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "task_api", cfg.TaskAPIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
