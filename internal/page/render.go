package page

import (
	"fmt"
	"time"

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
)

const (
	AppName    = "Task-U-Do"
	AppTagline = "Organize your life, one task at a time"
)

// View is what a renderer draws. It is derived from a State and nothing else.
type View struct {
	Heading string        `json:"heading"`
	Tagline string        `json:"tagline"`
	Filter  domain.Filter `json:"filter"`
	Tabs    []Tab         `json:"tabs"`
	Cards   []Card        `json:"cards"`
	Empty   *EmptyState   `json:"empty,omitempty"`
	Modal   *Modal        `json:"modal,omitempty"`
	Confirm *Confirm      `json:"confirm,omitempty"`
	Alert   string        `json:"alert,omitempty"`
}

type Tab struct {
	Filter domain.Filter `json:"filter"`
	Label  string        `json:"label"`
	Active bool          `json:"active"`
}

// Card is one drawn task. Index is its position in State.Tasks and is how
// renderers address it, since ids may be empty or repeated.
type Card struct {
	Index   int           `json:"index"`
	ID      domain.TaskID `json:"id"`
	Title   string        `json:"title"`
	Desc    string        `json:"desc,omitempty"`
	Due     string        `json:"due"`
	Created string        `json:"created,omitempty"`
	Active  bool          `json:"active"`
	Badge   string        `json:"badge"`
}

// EmptyState replaces the card grid. Action labels the button that opens
// the create form.
type EmptyState struct {
	Heading string `json:"heading"`
	Prompt  string `json:"prompt"`
	Action  string `json:"action"`
}

type Modal struct {
	Heading     string       `json:"heading"`
	Form        domain.Draft `json:"form"`
	StatusLabel string       `json:"status_label"`
	Error       string       `json:"error,omitempty"`
	Loading     bool         `json:"loading"`
	SubmitLabel string       `json:"submit_label"`
}

type Confirm struct {
	TaskID  domain.TaskID `json:"task_id"`
	Message string        `json:"message"`
}

// Visible returns the tasks the current filter lets through, in list order.
// Missing entries pass only the "all" filter.
func (s State) Visible() []*domain.Task {
	out := make([]*domain.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if s.Filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Render derives the view in the local time zone.
func Render(s State) View {
	return RenderIn(s, time.Local)
}

// RenderIn derives the view, formatting timestamps in loc.
func RenderIn(s State, loc *time.Location) View {
	v := View{
		Heading: AppName,
		Tagline: AppTagline,
		Filter:  s.Filter,
		Alert:   s.Alert,
	}

	for _, f := range domain.Filters {
		v.Tabs = append(v.Tabs, Tab{Filter: f, Label: f.Label(), Active: f == s.Filter})
	}

	visible := 0
	v.Cards = make([]Card, 0, len(s.Tasks))
	for i, t := range s.Tasks {
		if !s.Filter.Matches(t) {
			continue
		}
		visible++
		if t == nil {
			logger.Warn("skipping undefined task entry", "index", i)
			continue
		}
		c := cardFor(t, loc)
		c.Index = i
		v.Cards = append(v.Cards, c)
	}

	// the empty state follows the filtered list, before missing entries are dropped
	if visible == 0 {
		v.Empty = emptyStateFor(s.Filter)
	}

	if s.ShowModal {
		v.Modal = modalFor(s)
	}
	if s.PendingDelete != nil {
		v.Confirm = &Confirm{TaskID: *s.PendingDelete, Message: MsgConfirmDelete}
	}
	return v
}

func cardFor(t *domain.Task, loc *time.Location) Card {
	c := Card{
		ID:     t.ID,
		Title:  t.DisplayTitle(),
		Desc:   t.Desc,
		Due:    domain.FormatDateIn(t.DueDate, loc),
		Active: t.IsActive(),
		Badge:  "Inactive",
	}
	if c.Active {
		c.Badge = "Active"
	}
	if t.CreatedAt != "" {
		c.Created = domain.FormatDateIn(t.CreatedAt, loc)
	}
	return c
}

func emptyStateFor(f domain.Filter) *EmptyState {
	e := &EmptyState{Heading: "No tasks found", Action: "Create Your First Task"}
	if f == domain.FilterAll {
		e.Prompt = "Get started by creating your first task!"
	} else {
		e.Prompt = fmt.Sprintf("No %s tasks at the moment.", f)
	}
	return e
}

func modalFor(s State) *Modal {
	m := &Modal{
		Heading:     "Create New Task",
		Form:        s.Form,
		Error:       s.Error,
		Loading:     s.Loading,
		SubmitLabel: "Create Task",
		StatusLabel: "Inactive",
	}
	if s.Form.Status {
		m.StatusLabel = "Active"
	}
	switch {
	case s.Editing() && s.Loading:
		m.Heading, m.SubmitLabel = "Edit Task", "Updating..."
	case s.Editing():
		m.Heading, m.SubmitLabel = "Edit Task", "Update Task"
	case s.Loading:
		m.SubmitLabel = "Creating..."
	}
	return m
}
