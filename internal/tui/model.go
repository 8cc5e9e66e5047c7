// Package tui draws the task page in a terminal. It drives the same page.Page
// the web handlers use; remote calls run as commands so the screen stays live.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_frontend/internal/domain"
	"task_frontend/internal/logger"
	"task_frontend/internal/page"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type focus int

const (
	focusTitle focus = iota
	focusDesc
	focusDue
	focusStatus
	focusCount
)

var formFields = [...]page.Field{page.FieldTitle, page.FieldDesc, page.FieldDueDate}

type refreshedMsg struct{ err error }

type actionDoneMsg struct {
	action string
	err    error
}

type Model struct {
	page *page.Page
	ctx  context.Context
	loc  *time.Location

	cursor int
	inputs []textinput.Model
	focus  focus
	status string
	width  int
}

func New(ctx context.Context, p *page.Page) Model {
	placeholders := [...]string{"Enter task title", "Enter task description", "YYYY-MM-DD"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, ph := range placeholders {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.CharLimit = 256
		ti.Width = 40
		ti.Cursor.SetMode(cursor.CursorStatic)
		inputs[i] = ti
	}

	return Model{
		page:   p,
		ctx:    ctx,
		loc:    time.Local,
		inputs: inputs,
		status: "Loading tasks...",
	}
}

// Run shows the page until the user quits or ctx is done.
func Run(ctx context.Context, p *page.Page) error {
	program := tea.NewProgram(New(ctx, p), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		for i := range m.inputs {
			m.inputs[i].Width = max(20, msg.Width-20)
		}
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.status = "Could not load tasks, showing what is cached"
		} else {
			m.status = ""
		}
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		return m.afterAction(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		s := m.page.Snapshot()
		switch {
		case s.Alert != "":
			return m.updateAlert(msg.String())
		case s.PendingDelete != nil:
			return m.updateConfirm(msg.String())
		case s.ShowModal:
			return m.updateModal(msg, s)
		default:
			return m.updateList(msg.String())
		}
	}
	return m, nil
}

func (m Model) updateList(key string) (tea.Model, tea.Cmd) {
	cards := m.view().Cards

	switch key {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.cursor++
	case "k", "up":
		m.cursor--
	case "tab", "f":
		m.setFilter(nextFilter(m.page.Snapshot().Filter))
	case "1", "2", "3":
		m.setFilter(domain.Filters[key[0]-'1'])
	case "a", "n":
		if err := m.page.OpenNew(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.startForm()
	case "e", "enter":
		if len(cards) == 0 {
			return m, nil
		}
		if err := m.page.OpenEditAt(cards[m.cursor].Index, cards[m.cursor].ID); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.startForm()
	case "d", "x":
		if len(cards) == 0 {
			return m, nil
		}
		if err := m.page.RequestDeleteAt(cards[m.cursor].Index, cards[m.cursor].ID); err != nil {
			m.status = err.Error()
		}
	case "r":
		m.status = "Loading tasks..."
		return m, m.refreshCmd()
	}
	m.clampCursor()
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg, s page.State) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if err := m.page.Close(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.stopForm()
		return m, nil
	case "tab", "down":
		m.setFocus((m.focus + 1) % focusCount)
		return m, nil
	case "shift+tab", "up":
		m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, nil
	case "ctrl+s":
		return m, m.submitCmd(s)
	case "enter":
		if m.focus == focusStatus {
			return m, m.submitCmd(s)
		}
		m.setFocus(m.focus + 1)
		return m, nil
	}

	if m.focus == focusStatus {
		if msg.String() == " " {
			_ = m.page.SetStatus(!s.Form.Status)
		}
		return m, nil
	}

	// the static cursor needs no blink commands
	m.inputs[m.focus], _ = m.inputs[m.focus].Update(msg)
	_ = m.page.SetField(formFields[m.focus], m.inputs[m.focus].Value())
	return m, nil
}

func (m Model) updateConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "enter":
		m.status = "Deleting..."
		return m, m.actionCmd("delete", func(ctx context.Context) error {
			return m.page.ConfirmDelete(ctx, true)
		})
	case "n", "esc", "q":
		_ = m.page.ConfirmDelete(m.ctx, false)
	}
	return m, nil
}

func (m Model) updateAlert(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "esc", " ", "q":
		m.page.DismissAlert()
	}
	return m, nil
}

func (m Model) afterAction(msg actionDoneMsg) Model {
	s := m.page.Snapshot()
	switch {
	case msg.err == nil && msg.action == "submit":
		m.stopForm()
		m.status = "Task saved"
	case msg.err == nil && msg.action == "delete":
		m.status = "Task deleted"
	case msg.action == "delete":
		m.status = ""
	case !s.ShowModal:
		m.stopForm()
	default:
		// validation and save failures are shown in the form itself
		m.status = ""
	}
	m.clampCursor()
	return m
}

func (m Model) refreshCmd() tea.Cmd {
	p, ctx := m.page, m.ctx
	return func() tea.Msg {
		return refreshedMsg{err: p.Refresh(ctx)}
	}
}

func (m Model) submitCmd(s page.State) tea.Cmd {
	if s.Loading {
		return nil
	}
	return m.actionCmd("submit", m.page.Submit)
}

func (m Model) actionCmd(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		err := fn(ctx)
		if err != nil {
			logger.Debug("tui action failed", "action", action, "error", err)
		}
		return actionDoneMsg{action: action, err: err}
	}
}

func (m *Model) setFilter(f domain.Filter) {
	if err := m.page.SetFilter(f); err != nil {
		m.status = err.Error()
		return
	}
	m.cursor = 0
}

// startForm loads the page's draft into the inputs and focuses the title.
func (m *Model) startForm() {
	form := m.page.Snapshot().Form
	m.inputs[focusTitle].SetValue(form.Title)
	m.inputs[focusDesc].SetValue(form.Desc)
	m.inputs[focusDue].SetValue(form.DueDate)
	m.setFocus(focusTitle)
	m.status = ""
}

func (m *Model) stopForm() {
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].SetValue("")
	}
	m.focus = focusTitle
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	for i := range m.inputs {
		if focus(i) == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func (m *Model) clampCursor() {
	n := len(m.view().Cards)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) view() page.View {
	return page.RenderIn(m.page.Snapshot(), m.loc)
}

func nextFilter(f domain.Filter) domain.Filter {
	for i, g := range domain.Filters {
		if g == f {
			return domain.Filters[(i+1)%len(domain.Filters)]
		}
	}
	return domain.FilterAll
}

func (m Model) View() string {
	v := m.view()

	var b strings.Builder
	b.WriteString(titleStyle.Render(v.Heading))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(v.Tagline))
	b.WriteString("\n\n")
	b.WriteString(renderTabs(v.Tabs))
	b.WriteString("\n\n")

	switch {
	case v.Alert != "":
		b.WriteString(dialogStyle.Render(v.Alert + "\n\n" + helpStyle.Render("enter: OK")))
	case v.Confirm != nil:
		b.WriteString(dialogStyle.Render(v.Confirm.Message + "\n\n" + helpStyle.Render("y: OK • n: Cancel")))
	case v.Modal != nil:
		b.WriteString(m.renderModal(v.Modal))
	default:
		b.WriteString(m.renderList(v))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(m.help(v)))
	return b.String()
}

func (m Model) renderList(v page.View) string {
	if v.Empty != nil {
		return emptyStyle.Render(v.Empty.Heading + "\n" + v.Empty.Prompt + "\n\n" +
			helpStyle.Render("a: "+v.Empty.Action))
	}

	var b strings.Builder
	for i, c := range v.Cards {
		marker := "  "
		style := cardStyle
		if i == m.cursor {
			marker = "> "
			style = selectedCardStyle
		}
		badge := inactiveBadge.Render(c.Badge)
		if c.Active {
			badge = activeBadge.Render(c.Badge)
		}

		lines := []string{style.Render(c.Title) + "  " + badge}
		if c.Desc != "" {
			lines = append(lines, descStyle.Render(c.Desc))
		}
		meta := "Due: " + c.Due
		if c.Created != "" {
			meta += "  Created: " + c.Created
		}
		lines = append(lines, metaStyle.Render(meta))

		for j, line := range lines {
			if j == 0 {
				b.WriteString(marker)
			} else {
				b.WriteString("  ")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderModal(md *page.Modal) string {
	labels := [...]string{"Title", "Description", "Due Date"}

	var b strings.Builder
	b.WriteString(headingStyle.Render(md.Heading))
	b.WriteString("\n\n")
	if md.Error != "" {
		b.WriteString(errorStyle.Render(md.Error))
		b.WriteString("\n\n")
	}
	for i, label := range labels {
		b.WriteString(labelStyle.Render(label))
		b.WriteString("\n")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n\n")
	}

	box := "[ ]"
	if md.Form.Status {
		box = "[x]"
	}
	status := fmt.Sprintf("%s %s", box, md.StatusLabel)
	if m.focus == focusStatus {
		status = focusedStyle.Render(status)
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	submit := buttonStyle.Render(md.SubmitLabel)
	if md.Loading {
		submit = disabledButtonStyle.Render(md.SubmitLabel)
	}
	b.WriteString(submit)
	return dialogStyle.Render(b.String())
}

func renderTabs(tabs []page.Tab) string {
	parts := make([]string, 0, len(tabs))
	for i, t := range tabs {
		label := fmt.Sprintf("%d %s", i+1, t.Label)
		if t.Active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) help(v page.View) string {
	switch {
	case v.Alert != "", v.Confirm != nil:
		return ""
	case v.Modal != nil:
		return "tab: next field • space: toggle status • ctrl+s: save • esc: cancel"
	default:
		return "a: add • e: edit • d: delete • tab/1-3: filter • r: reload • q: quit"
	}
}
