package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// TaskID is the backend-assigned identifier. The backend may send it as a
// JSON string or number; both decode to the same textual form.
type TaskID string

func (id *TaskID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("task id: %w", err)
	}
	*id = TaskID(n.String())
	return nil
}

func (id TaskID) String() string { return string(id) }

// Task is the client-side copy of a backend record.
type Task struct {
	ID        TaskID `json:"id"`
	Title     string `json:"title,omitempty"`
	Name      string `json:"name,omitempty"` // legacy title field
	Desc      string `json:"desc,omitempty"`
	DueDate   string `json:"due_date,omitempty"`
	Status    *bool  `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

const UntitledTask = "Untitled Task"

// DisplayTitle prefers title, then the legacy name.
func (t *Task) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	if t.Name != "" {
		return t.Name
	}
	return UntitledTask
}

// IsActive reports status == true. A nil status is not active.
func (t *Task) IsActive() bool {
	return t.Status != nil && *t.Status
}

// Clone returns a copy that shares nothing with t.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	if t.Status != nil {
		s := *t.Status
		c.Status = &s
	}
	return &c
}

// Draft is the unsaved form representation of a task.
type Draft struct {
	Title   string `json:"title"`
	Desc    string `json:"desc"`
	DueDate string `json:"due_date"`
	Status  bool   `json:"status"`
}

// NewDraft returns the form defaults: empty fields, active.
func NewDraft() Draft {
	return Draft{Status: true}
}

// DraftFromTask pre-populates a form from an existing task.
func DraftFromTask(t *Task) Draft {
	d := NewDraft()
	if t == nil {
		return d
	}
	d.Title = t.Title
	if d.Title == "" {
		d.Title = t.Name
	}
	d.Desc = t.Desc
	d.DueDate = t.DueDate
	if t.Status != nil {
		d.Status = *t.Status
	}
	return d
}

// ValidationError is a client-side check failure shown inline in the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate checks the required fields in display order.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required"}
	}
	if strings.TrimSpace(d.Desc) == "" {
		return &ValidationError{Field: "desc", Message: "Description is required"}
	}
	if d.DueDate == "" {
		return &ValidationError{Field: "due_date", Message: "Due date is required"}
	}
	return nil
}

// ApplyTo returns a copy of t with the draft fields merged over it. Fields the
// draft does not carry (name, created_at) are kept.
func (d Draft) ApplyTo(t *Task) *Task {
	c := t.Clone()
	c.Title = d.Title
	c.Desc = d.Desc
	c.DueDate = d.DueDate
	s := d.Status
	c.Status = &s
	return c
}
