package handlers

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"task_frontend/internal/domain"
	"task_frontend/internal/http/middleware"
	"task_frontend/internal/logger"
	"task_frontend/internal/page"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.html"))
}

// Handler serves the task page. Every route works on the page of the
// caller's session, so middleware.Session must run first.
type Handler struct {
	loc *time.Location
}

func NewHandler(loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{loc: loc}
}

// Index renders the current view.
func (h *Handler) Index(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "index.html", page.RenderIn(p.Snapshot(), h.loc))
}

// View returns the current view as JSON.
func (h *Handler) View(c *gin.Context) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, page.RenderIn(p.Snapshot(), h.loc))
}

func (h *Handler) SetFilter(c *gin.Context) {
	h.act(c, "set filter", func(p *page.Page) error {
		f, err := domain.ParseFilter(c.PostForm("filter"))
		if err != nil {
			return err
		}
		return p.SetFilter(f)
	})
}

func (h *Handler) OpenNew(c *gin.Context) {
	h.act(c, "open new", func(p *page.Page) error {
		return p.OpenNew()
	})
}

// OpenEdit targets a card by its list index; the posted id must match it.
func (h *Handler) OpenEdit(c *gin.Context) {
	h.act(c, "open edit", func(p *page.Page) error {
		i, id, err := cardRef(c)
		if err != nil {
			return err
		}
		return p.OpenEditAt(i, id)
	})
}

func (h *Handler) RequestDelete(c *gin.Context) {
	h.act(c, "request delete", func(p *page.Page) error {
		i, id, err := cardRef(c)
		if err != nil {
			return err
		}
		return p.RequestDeleteAt(i, id)
	})
}

func (h *Handler) CloseModal(c *gin.Context) {
	h.act(c, "close modal", func(p *page.Page) error {
		return p.Close()
	})
}

// SubmitModal copies the posted form into the draft, then saves it.
func (h *Handler) SubmitModal(c *gin.Context) {
	h.act(c, "submit", func(p *page.Page) error {
		fields := []page.Field{page.FieldTitle, page.FieldDesc, page.FieldDueDate}
		for _, f := range fields {
			if err := p.SetField(f, c.PostForm(string(f))); err != nil {
				return err
			}
		}
		if err := p.SetStatus(checked(c.PostForm("status"))); err != nil {
			return err
		}
		return p.Submit(context.WithoutCancel(c.Request.Context()))
	})
}

func (h *Handler) ConfirmDelete(c *gin.Context) {
	h.act(c, "confirm delete", func(p *page.Page) error {
		yes := c.PostForm("answer") == "yes"
		return p.ConfirmDelete(context.WithoutCancel(c.Request.Context()), yes)
	})
}

func (h *Handler) DismissAlert(c *gin.Context) {
	h.act(c, "dismiss alert", func(p *page.Page) error {
		p.DismissAlert()
		return nil
	})
}

// act runs one page action and redirects back to the page. Outcomes the
// user should see are already in the page state, so errors are only logged.
func (h *Handler) act(c *gin.Context, name string, fn func(*page.Page) error) {
	p, ok := h.page(c)
	if !ok {
		return
	}
	if err := fn(p); err != nil {
		log := logger.With("action", name, "sid", middleware.SessionID(c), "error", err)
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, page.ErrAwaitingAnswer),
			errors.Is(err, page.ErrModalOpen),
			errors.Is(err, page.ErrModalClosed),
			errors.Is(err, page.ErrSubmitInFlight),
			errors.Is(err, page.ErrNoPendingDelete):
			log.Debug("page action refused")
		case errors.Is(err, page.ErrTaskNotFound):
			log.Info("page action on unknown task")
		default:
			log.Warn("page action failed")
		}
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) page(c *gin.Context) (*page.Page, bool) {
	p := middleware.PageFrom(c)
	if p == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "no session"})
		return nil, false
	}
	return p, true
}

func cardRef(c *gin.Context) (int, domain.TaskID, error) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, "", fmt.Errorf("%w: bad index %q", page.ErrTaskNotFound, c.Param("index"))
	}
	return i, domain.TaskID(c.PostForm("id")), nil
}

// checked reads an HTML checkbox value.
func checked(v string) bool {
	switch v {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
