package tui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"task_frontend/internal/domain"
	"task_frontend/internal/page"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRemote struct {
	tasks  []*domain.Task
	next   int
	delErr error
	calls  map[string]int
}

func newMemRemote(tasks ...*domain.Task) *memRemote {
	return &memRemote{tasks: tasks, calls: map[string]int{}}
}

func (r *memRemote) List(context.Context) ([]*domain.Task, error) {
	r.calls["list"]++
	out := make([]*domain.Task, len(r.tasks))
	for i, t := range r.tasks {
		out[i] = t.Clone()
	}
	return out, nil
}

func (r *memRemote) Create(_ context.Context, d domain.Draft) (*domain.Task, error) {
	r.calls["create"]++
	r.next++
	t := d.ApplyTo(&domain.Task{ID: domain.TaskID(fmt.Sprintf("n%d", r.next))})
	r.tasks = append(r.tasks, t)
	return t.Clone(), nil
}

func (r *memRemote) Update(_ context.Context, id domain.TaskID, d domain.Draft) (*domain.Task, error) {
	r.calls["update"]++
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks[i] = d.ApplyTo(t)
			return r.tasks[i].Clone(), nil
		}
	}
	return nil, errors.New("not found")
}

func (r *memRemote) Delete(_ context.Context, id domain.TaskID) error {
	r.calls["delete"]++
	if r.delErr != nil {
		return r.delErr
	}
	for i, t := range r.tasks {
		if t.ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			break
		}
	}
	return nil
}

func boolPtr(b bool) *bool { return &b }

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and runs the resulting commands to completion, the way
// the program loop would.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		if _, ok := out.(tea.QuitMsg); ok || out == nil {
			return m
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m = send(t, m, key(k))
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = send(t, m, key(string(r)))
	}
	return m
}

func started(t *testing.T, remote *memRemote) (Model, *page.Page) {
	t.Helper()
	p := page.New(remote)
	m := New(context.Background(), p)
	m = send(t, m, m.Init()())
	return m, p
}

func TestInitLoadsList(t *testing.T) {
	remote := newMemRemote(&domain.Task{ID: "1", Title: "first", Status: boolPtr(true)})
	m, _ := started(t, remote)

	assert.Equal(t, 1, remote.calls["list"])
	out := m.View()
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "Active")
	assert.Empty(t, m.status)
}

func TestEmptyState(t *testing.T) {
	m, _ := started(t, newMemRemote())
	out := m.View()
	assert.Contains(t, out, "Task-U-Do")
	assert.Contains(t, out, "Organize your life, one task at a time")
	assert.Contains(t, out, "No tasks found")
	assert.Contains(t, out, "Get started by creating your first task!")
	assert.Contains(t, out, "Create Your First Task")

	m = press(t, m, "2")
	assert.Contains(t, m.View(), "No active tasks at the moment.")
}

func TestAddTask(t *testing.T) {
	remote := newMemRemote()
	m, p := started(t, remote)

	m = press(t, m, "a")
	require.True(t, p.Snapshot().ShowModal)
	assert.Contains(t, m.View(), "Create New Task")

	// submitting an empty form shows the first validation message
	m = press(t, m, "ctrl+s")
	assert.Contains(t, m.View(), "Title is required")
	assert.Zero(t, remote.calls["create"])

	m = typeText(t, m, "buy milk")
	m = press(t, m, "tab")
	m = typeText(t, m, "two litres")
	m = press(t, m, "tab")
	m = typeText(t, m, "2024-03-05")
	m = press(t, m, "tab", " ")

	form := p.Snapshot().Form
	assert.Equal(t, domain.Draft{Title: "buy milk", Desc: "two litres", DueDate: "2024-03-05", Status: false}, form)

	m = press(t, m, "enter")
	s := p.Snapshot()
	assert.False(t, s.ShowModal)
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, "buy milk", s.Tasks[0].Title)
	assert.Equal(t, "Task saved", m.status)
	assert.Contains(t, m.View(), "Inactive")
}

func TestEditTask(t *testing.T) {
	remote := newMemRemote(
		&domain.Task{ID: "1", Title: "a", Desc: "x", DueDate: "2024-01-01"},
		&domain.Task{ID: "2", Name: "legacy", Desc: "y", DueDate: "2024-01-02"},
	)
	m, p := started(t, remote)

	m = press(t, m, "j", "e")
	s := p.Snapshot()
	require.True(t, s.Editing())
	assert.Equal(t, "legacy", s.Form.Title)
	assert.Equal(t, "legacy", m.inputs[focusTitle].Value())
	assert.Contains(t, m.View(), "Edit Task")

	m = typeText(t, m, "!")
	m = press(t, m, "ctrl+s")

	s = p.Snapshot()
	assert.False(t, s.ShowModal)
	assert.Equal(t, "legacy!", s.Tasks[1].Title)
	assert.Equal(t, 1, remote.calls["update"])
}

func TestEditPicksCursorCardWithRepeatedID(t *testing.T) {
	remote := newMemRemote(
		&domain.Task{ID: "", Title: "blank"},
		&domain.Task{ID: "d", Title: "dup one"},
		&domain.Task{ID: "d", Title: "dup two"},
	)
	m, p := started(t, remote)

	m = press(t, m, "e")
	assert.Equal(t, "blank", p.Snapshot().Form.Title)
	m = press(t, m, "esc")

	m = press(t, m, "j", "j", "e")
	assert.Equal(t, "dup two", p.Snapshot().Form.Title)
	m = press(t, m, "esc")

	m = press(t, m, "d")
	s := p.Snapshot()
	require.NotNil(t, s.PendingDelete)
	assert.Equal(t, domain.TaskID("d"), *s.PendingDelete)
	assert.Contains(t, m.View(), page.MsgConfirmDelete)
}

func TestCancelForm(t *testing.T) {
	m, p := started(t, newMemRemote())

	m = press(t, m, "a")
	m = typeText(t, m, "draft")
	m = press(t, m, "esc")

	s := p.Snapshot()
	assert.False(t, s.ShowModal)
	assert.Equal(t, domain.NewDraft(), s.Form)
	assert.Empty(t, m.inputs[focusTitle].Value())
}

func TestDeleteAsksFirst(t *testing.T) {
	remote := newMemRemote(&domain.Task{ID: "1", Title: "a"}, &domain.Task{ID: "2", Title: "b"})
	m, p := started(t, remote)

	m = press(t, m, "d")
	assert.Contains(t, m.View(), page.MsgConfirmDelete)
	assert.Zero(t, remote.calls["delete"])

	m = press(t, m, "n")
	assert.Nil(t, p.Snapshot().PendingDelete)
	assert.Zero(t, remote.calls["delete"])

	m = press(t, m, "d", "y")
	assert.Equal(t, 1, remote.calls["delete"])
	s := p.Snapshot()
	require.Len(t, s.Tasks, 1)
	assert.Equal(t, domain.TaskID("2"), s.Tasks[0].ID)
	assert.Equal(t, "Task deleted", m.status)
}

func TestDeleteFailureAlert(t *testing.T) {
	remote := newMemRemote(&domain.Task{ID: "1", Title: "a"})
	remote.delErr = errors.New("boom")
	m, p := started(t, remote)

	m = press(t, m, "d", "y")
	assert.Contains(t, m.View(), page.MsgDeleteFailed)
	assert.Len(t, p.Snapshot().Tasks, 1)

	// keys other than the dismiss keys are swallowed
	m = press(t, m, "a")
	assert.False(t, p.Snapshot().ShowModal)

	m = press(t, m, "enter")
	assert.Empty(t, p.Snapshot().Alert)
	assert.NotContains(t, m.View(), page.MsgDeleteFailed)
}

func TestFilterKeys(t *testing.T) {
	remote := newMemRemote(
		&domain.Task{ID: "1", Title: "on", Status: boolPtr(true)},
		&domain.Task{ID: "2", Title: "off", Status: boolPtr(false)},
	)
	m, p := started(t, remote)

	m = press(t, m, "tab")
	assert.Equal(t, domain.FilterActive, p.Snapshot().Filter)
	assert.NotContains(t, m.View(), "off")

	m = press(t, m, "tab")
	assert.Equal(t, domain.FilterInactive, p.Snapshot().Filter)

	m = press(t, m, "tab")
	assert.Equal(t, domain.FilterAll, p.Snapshot().Filter)

	m = press(t, m, "3")
	assert.Equal(t, domain.FilterInactive, p.Snapshot().Filter)
	assert.Len(t, m.view().Cards, 1)
}

func TestCursorStaysInRange(t *testing.T) {
	m, _ := started(t, newMemRemote(&domain.Task{ID: "1"}, &domain.Task{ID: "2"}))

	m = press(t, m, "j", "j", "j")
	assert.Equal(t, 1, m.cursor)
	m = press(t, m, "k", "k", "k")
	assert.Equal(t, 0, m.cursor)
}

func TestQuit(t *testing.T) {
	m, _ := started(t, newMemRemote())
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
