// Package page holds the view state of the task list and the operations that
// change it. Renderers read a State snapshot and call back into Page.
package page

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
)

var (
	ErrSubmitInFlight  = errors.New("page: a save is already in progress")
	ErrAwaitingAnswer  = errors.New("page: a prompt is waiting for an answer")
	ErrModalOpen       = errors.New("page: the task form is already open")
	ErrModalClosed     = errors.New("page: the task form is not open")
	ErrTaskNotFound    = errors.New("page: task is not in the list")
	ErrNoPendingDelete = errors.New("page: no delete is waiting for confirmation")
)

const (
	MsgCreateFailed  = "Failed to create task. Please try again."
	MsgUpdateFailed  = "Failed to update task. Please try again."
	MsgDeleteFailed  = "Failed to delete task. Please try again."
	MsgConfirmDelete = "Are you sure you want to delete this task?"
)

// Field names a free-text form input.
type Field string

const (
	FieldTitle   Field = "title"
	FieldDesc    Field = "desc"
	FieldDueDate Field = "due_date"
)

// Remote is the task backend as seen by the page.
type Remote interface {
	List(ctx context.Context) ([]*domain.Task, error)
	Create(ctx context.Context, d domain.Draft) (*domain.Task, error)
	Update(ctx context.Context, id domain.TaskID, d domain.Draft) (*domain.Task, error)
	Delete(ctx context.Context, id domain.TaskID) error
}

// State is every view cell at one point in time.
type State struct {
	Tasks         []*domain.Task
	Filter        domain.Filter
	ShowModal     bool
	EditingTask   *domain.Task // nil in create mode
	Form          domain.Draft
	Error         string
	Loading       bool
	PendingDelete *domain.TaskID
	Alert         string
}

// Editing reports whether the form edits an existing task.
func (s State) Editing() bool { return s.EditingTask != nil }

// Blocked reports whether a prompt must be answered before anything else.
func (s State) Blocked() bool { return s.PendingDelete != nil || s.Alert != "" }

// Page is one user's view. It is safe for concurrent use; the lock is never
// held across a remote call.
type Page struct {
	remote Remote

	mu sync.Mutex
	st State
}

func New(remote Remote) *Page {
	return &Page{
		remote: remote,
		st: State{
			Tasks:  []*domain.Task{},
			Filter: domain.FilterAll,
			Form:   domain.NewDraft(),
		},
	}
}

// Snapshot returns a deep copy of the current state.
func (p *Page) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.st
	s.Tasks = make([]*domain.Task, len(p.st.Tasks))
	for i, t := range p.st.Tasks {
		s.Tasks[i] = t.Clone()
	}
	s.EditingTask = p.st.EditingTask.Clone()
	if p.st.PendingDelete != nil {
		id := *p.st.PendingDelete
		s.PendingDelete = &id
	}
	return s
}

// Refresh replaces the cached list with the backend's. On failure the cache is
// kept and the error is only logged; callers may ignore the returned error.
// Overlapping refreshes are not ordered: the last to finish wins.
func (p *Page) Refresh(ctx context.Context) error {
	tasks, err := p.remote.List(ctx)
	if err != nil {
		logger.Warn("task list unavailable, keeping cached tasks", "error", err)
		return err
	}

	p.mu.Lock()
	p.st.Tasks = tasks
	p.mu.Unlock()

	logger.Debug("task list refreshed", "count", len(tasks))
	return nil
}

func (p *Page) SetFilter(f domain.Filter) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.st.Blocked() {
		return ErrAwaitingAnswer
	}
	p.st.Filter = f
	return nil
}

// OpenNew opens an empty form in create mode.
func (p *Page) OpenNew() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canOpenLocked(); err != nil {
		return err
	}
	p.st.ShowModal = true
	p.st.EditingTask = nil
	p.st.Form = domain.NewDraft()
	p.st.Error = ""
	return nil
}

// OpenEdit opens the form pre-filled from the first cached task with the
// given id.
func (p *Page) OpenEdit(id domain.TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canOpenLocked(); err != nil {
		return err
	}
	return p.openEditLocked(p.findLocked(id))
}

// OpenEditAt opens the form for the task at position i of the list. The entry
// must still carry id, so a list that changed since it was drawn is refused.
// Empty and duplicate ids are fine.
func (p *Page) OpenEditAt(i int, id domain.TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canOpenLocked(); err != nil {
		return err
	}
	return p.openEditLocked(p.taskAtLocked(i, id))
}

func (p *Page) openEditLocked(t *domain.Task) error {
	if t == nil {
		return ErrTaskNotFound
	}
	p.st.ShowModal = true
	p.st.EditingTask = t.Clone()
	p.st.Form = domain.DraftFromTask(t)
	p.st.Error = ""
	return nil
}

// Close dismisses the form and drops the draft.
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.st.Blocked() {
		return ErrAwaitingAnswer
	}
	p.resetModalLocked()
	return nil
}

// SetField changes one text input of the draft and clears the error.
func (p *Page) SetField(f Field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canEditLocked(); err != nil {
		return err
	}
	switch f {
	case FieldTitle:
		p.st.Form.Title = value
	case FieldDesc:
		p.st.Form.Desc = value
	case FieldDueDate:
		p.st.Form.DueDate = value
	default:
		return fmt.Errorf("page: unknown field %q", f)
	}
	p.st.Error = ""
	return nil
}

// SetStatus flips the draft's active toggle and clears the error.
func (p *Page) SetStatus(active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canEditLocked(); err != nil {
		return err
	}
	p.st.Form.Status = active
	p.st.Error = ""
	return nil
}

// Submit validates the draft and creates or updates the task. On success the
// cache is patched, refreshed from the backend, and the form closes. On failure
// the form stays open with an error message.
func (p *Page) Submit(ctx context.Context) error {
	p.mu.Lock()
	if err := p.canEditLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	if p.st.Loading {
		p.mu.Unlock()
		return ErrSubmitInFlight
	}
	draft := p.st.Form
	if err := draft.Validate(); err != nil {
		p.st.Error = err.Error()
		p.mu.Unlock()
		return err
	}
	p.st.Error = ""
	p.st.Loading = true
	editing := p.st.EditingTask.Clone()
	p.mu.Unlock()

	var err error
	if editing != nil {
		err = p.update(ctx, editing.ID, draft)
	} else {
		err = p.create(ctx, draft)
	}
	if err != nil {
		msg := MsgCreateFailed
		if editing != nil {
			msg = MsgUpdateFailed
		}
		logger.Error("saving task failed", "editing", editing != nil, "error", err)

		p.mu.Lock()
		p.st.Error = msg
		p.st.Loading = false
		p.mu.Unlock()
		return fmt.Errorf("save task: %w", err)
	}

	_ = p.Refresh(ctx)

	p.mu.Lock()
	p.resetModalLocked()
	p.st.Loading = false
	p.mu.Unlock()
	return nil
}

func (p *Page) create(ctx context.Context, d domain.Draft) error {
	created, err := p.remote.Create(ctx, d)
	if err != nil {
		return err
	}
	logger.Info("task created", "task_id", taskIDOf(created))

	// the record is appended even when the backend sent none; the renderer
	// skips missing entries
	p.mu.Lock()
	p.st.Tasks = append(p.st.Tasks, created)
	p.mu.Unlock()
	return nil
}

func (p *Page) update(ctx context.Context, id domain.TaskID, d domain.Draft) error {
	if _, err := p.remote.Update(ctx, id, d); err != nil {
		return err
	}
	logger.Info("task updated", "task_id", id)

	p.mu.Lock()
	for i, t := range p.st.Tasks {
		if t != nil && t.ID == id {
			p.st.Tasks[i] = d.ApplyTo(t)
		}
	}
	p.mu.Unlock()
	return nil
}

// RequestDelete asks for confirmation before deleting the task.
func (p *Page) RequestDelete(id domain.TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canOpenLocked(); err != nil {
		return err
	}
	return p.requestDeleteLocked(p.findLocked(id))
}

// RequestDeleteAt is RequestDelete for the task at position i, checked the
// same way as OpenEditAt.
func (p *Page) RequestDeleteAt(i int, id domain.TaskID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.canOpenLocked(); err != nil {
		return err
	}
	return p.requestDeleteLocked(p.taskAtLocked(i, id))
}

func (p *Page) requestDeleteLocked(t *domain.Task) error {
	if t == nil {
		return ErrTaskNotFound
	}
	id := t.ID
	p.st.PendingDelete = &id
	return nil
}

// ConfirmDelete answers the pending confirmation. A "no" drops the request;
// a "yes" deletes the task on the backend and then from the cache. A failed
// delete raises the alert and leaves the cache alone.
func (p *Page) ConfirmDelete(ctx context.Context, yes bool) error {
	p.mu.Lock()
	if p.st.PendingDelete == nil {
		p.mu.Unlock()
		return ErrNoPendingDelete
	}
	id := *p.st.PendingDelete
	p.st.PendingDelete = nil
	p.mu.Unlock()

	if !yes {
		return nil
	}

	if err := p.remote.Delete(ctx, id); err != nil {
		logger.Error("deleting task failed", "task_id", id, "error", err)
		p.mu.Lock()
		p.st.Alert = MsgDeleteFailed
		p.mu.Unlock()
		return fmt.Errorf("delete task %s: %w", id, err)
	}

	p.mu.Lock()
	kept := make([]*domain.Task, 0, len(p.st.Tasks))
	for _, t := range p.st.Tasks {
		if t != nil && t.ID == id {
			continue
		}
		kept = append(kept, t)
	}
	p.st.Tasks = kept
	p.mu.Unlock()

	logger.Info("task deleted", "task_id", id)
	return nil
}

// DismissAlert acknowledges the blocking alert.
func (p *Page) DismissAlert() {
	p.mu.Lock()
	p.st.Alert = ""
	p.mu.Unlock()
}

func (p *Page) canOpenLocked() error {
	if p.st.Blocked() {
		return ErrAwaitingAnswer
	}
	if p.st.ShowModal {
		return ErrModalOpen
	}
	return nil
}

func (p *Page) canEditLocked() error {
	if p.st.Blocked() {
		return ErrAwaitingAnswer
	}
	if !p.st.ShowModal {
		return ErrModalClosed
	}
	return nil
}

func (p *Page) resetModalLocked() {
	p.st.ShowModal = false
	p.st.EditingTask = nil
	p.st.Form = domain.NewDraft()
	p.st.Error = ""
}

func (p *Page) findLocked(id domain.TaskID) *domain.Task {
	for _, t := range p.st.Tasks {
		if t != nil && t.ID == id {
			return t
		}
	}
	return nil
}

func (p *Page) taskAtLocked(i int, id domain.TaskID) *domain.Task {
	if i < 0 || i >= len(p.st.Tasks) {
		return nil
	}
	t := p.st.Tasks[i]
	if t == nil || t.ID != id {
		return nil
	}
	return t
}

func taskIDOf(t *domain.Task) domain.TaskID {
	if t == nil {
		return ""
	}
	return t.ID
}
