package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_frontend/internal/logger"
	"task_frontend/internal/mockapi"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	port := os.Getenv("MOCKAPI_PORT")
	if port == "" {
		port = "8081"
	}
	// an empty credential disables the header check
	auth := os.Getenv("TASK_API_AUTH")

	backend := mockapi.New(auth)
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: backend.Handler(),
	}

	go func() {
		logger.Info("mock task api started", "port", port, "auth_required", auth != "")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("mock task api forced to shutdown", "error", err)
	}
	logger.Info("mock task api exited", "tasks", len(backend.Tasks()))
}
