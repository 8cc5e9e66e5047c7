package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"

	"github.com/gin-gonic/gin"
)

// Backend is the part of the task API the probes use.
type Backend interface {
	List(ctx context.Context) ([]*domain.Task, error)
}

// Sessions reports how many view sessions are live.
type Sessions interface {
	Len() int
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	backend   Backend
	sessions  Sessions
	startTime time.Time
	version   string
}

func NewHealthHandler(backend Backend, sessions Sessions, version string) *HealthHandler {
	return &HealthHandler{
		backend:   backend,
		sessions:  sessions,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness lists tasks on the backend with a 5 s bound and reports the
// result alongside process stats.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if _, err := h.backend.List(ctx); err != nil {
		// the error may carry the backend's response body
		logger.Warn("readiness: task api check failed", "error", err)
		checks["task_api"] = "unhealthy"
		allHealthy = false
	} else {
		checks["task_api"] = "healthy"
	}

	if h.sessions != nil {
		checks["sessions"] = fmt.Sprintf("%d", h.sessions.Len())
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if _, err := h.backend.List(ctx); err != nil {
		logger.Warn("health: task api check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "task api unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}
