package http

import (
	"task_frontend/internal/config"
	"task_frontend/internal/http/handlers"
	"task_frontend/internal/http/middleware"
	"task_frontend/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the long-lived objects the routes work on.
type Deps struct {
	Backend  handlers.Backend
	Sessions *session.Store
	Tokens   *session.Manager
	Version  string
}

// RegisterRoutes wires the page, the probes, and /metrics onto r.
func RegisterRoutes(r *gin.Engine, d Deps, cfg *config.Config) {
	r.Use(middleware.Metrics())
	r.SetHTMLTemplate(handlers.Templates())

	h := handlers.NewHandler(nil)
	healthHandler := handlers.NewHealthHandler(d.Backend, d.Sessions, d.Version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	ui := r.Group("/")
	ui.Use(middleware.RateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	ui.Use(middleware.Session(d.Sessions, d.Tokens))

	ui.GET("/", h.Index)
	ui.GET("/api/view", h.View)

	// every action that changes the page is budgeted per session
	actions := ui.Group("/")
	actions.Use(middleware.SessionRateLimit(cfg.ActionRateLimit, cfg.ActionRateWindow))
	{
		actions.POST("/filter", h.SetFilter)
		actions.POST("/tasks/new", h.OpenNew)
		actions.POST("/tasks/:index/edit", h.OpenEdit)
		actions.POST("/tasks/:index/delete", h.RequestDelete)
		actions.POST("/modal/close", h.CloseModal)
		actions.POST("/modal/submit", h.SubmitModal)
		actions.POST("/delete/confirm", h.ConfirmDelete)
		actions.POST("/alert/dismiss", h.DismissAlert)
	}
}
