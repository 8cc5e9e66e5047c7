package main

import (
	"context"
	"time"

	"task_frontend/internal/config"
	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
	"task_frontend/internal/taskapi"
)

// Runs create, list, update and delete once against the configured backend.
func main() {
	cfg := config.LoadClient()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	client := taskapi.NewClient(cfg.TaskAPIBaseURL, cfg.TaskAPIAuth)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	draft := domain.Draft{
		Title:   "smoke " + time.Now().Format(time.RFC3339),
		Desc:    "created by api_smoke",
		DueDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
		Status:  true,
	}

	created, err := client.Create(ctx, draft)
	if err != nil {
		logger.Fatal("create", "error", err)
	}
	if created == nil || created.ID == "" {
		logger.Fatal("create returned no record")
	}
	logger.Info("created", "task_id", created.ID, "title", created.DisplayTitle())

	tasks, err := client.List(ctx)
	if err != nil {
		logger.Fatal("list", "error", err)
	}
	found := false
	for _, t := range tasks {
		if t != nil && t.ID == created.ID {
			found = true
			break
		}
	}
	logger.Info("listed", "count", len(tasks), "found_created", found)
	if !found {
		logger.Fatal("created task missing from list", "task_id", created.ID)
	}

	draft.Title += " (edited)"
	draft.Status = false
	if _, err := client.Update(ctx, created.ID, draft); err != nil {
		logger.Fatal("update", "error", err)
	}
	logger.Info("updated", "task_id", created.ID)

	if err := client.Delete(ctx, created.ID); err != nil {
		logger.Fatal("delete", "error", err)
	}
	logger.Info("deleted", "task_id", created.ID)

	logger.Info("smoke test passed")
}
