package tui

import (
	"context"
	"errors"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/application/confirm"
	"taskman/internal/application/detail"
	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/internal/domain/entity"
	"taskman/internal/infrastructure/config"
)

// Model represents the TUI state
type Model struct {
	ctrl    *tasksync.Controller
	ctx     context.Context
	watcher *config.Watcher
	loc     *time.Location
	now     func() time.Time
	clip    func(string) error

	snap   tasksync.Snapshot
	cursor int // selected row
	offset int // first visible row
	width  int
	height int

	spinner spinner.Model
	adding  bool
	form    taskForm
	detail  detail.View
	editor  taskForm
	confirm confirm.Dialog
	status  string // local status line, cleared by the next key
}

// NewModel creates a new TUI model. watcher may be nil.
func NewModel(ctx context.Context, ctrl *tasksync.Controller, watcher *config.Watcher) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		ctrl:    ctrl,
		ctx:     ctx,
		watcher: watcher,
		loc:     time.Local,
		now:     time.Now,
		clip:    clipboard.WriteAll,
		snap:    ctrl.Snapshot(),
		spinner: s,
		form:    newTaskForm(),
		editor:  newTaskForm(),
	}
}

// Messages

type snapshotMsg tasksync.Snapshot

type loadedMsg struct{ err error }

type opDoneMsg struct {
	action tasksync.Action
	err    error
}

type createdMsg struct {
	task dto.TaskDTO
	err  error
}

type fetchedMsg struct {
	fetch detail.Fetch
	task  dto.TaskDTO
	err   error
}

type savedMsg struct {
	task    dto.TaskDTO
	changed bool
	err     error
}

type deletedMsg struct {
	id  string
	err error
}

type configMsg struct{ cfg *config.Config }

type copiedMsg struct {
	text string
	err  error
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.loadTasks(),
		waitForSnapshot(m.ctrl.Changes()),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForConfig(m.watcher.Changes()))
	}
	return tea.Batch(cmds...)
}

// waitForSnapshot waits for the next controller state change
func waitForSnapshot(ch <-chan tasksync.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

// waitForConfig waits for the next config file reload
func waitForConfig(ch <-chan *config.Config) tea.Cmd {
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configMsg{cfg: cfg}
	}
}

func (m Model) loadTasks() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(ctx)}
	}
}

func runOp(ctx context.Context, action tasksync.Action, op tasksync.Op) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{action: action, err: op(ctx)}
	}
}

func (m Model) fetchTask(f detail.Fetch) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		task, err := ctrl.Get(f.Ctx, f.ID)
		return fetchedMsg{fetch: f, task: task, err: err}
	}
}

func (m Model) createTask(d tasksync.Draft) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		task, err := ctrl.Create(ctx, d)
		return createdMsg{task: task, err: err}
	}
}

func (m Model) saveTask(loaded dto.TaskDTO, d tasksync.Draft) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		task, changed, err := ctrl.Edit(ctx, loaded, d)
		return savedMsg{task: task, changed: changed, err: err}
	}
}

func (m Model) deleteTask(req confirm.Request) tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		return deletedMsg{id: req.Target().ID, err: ctrl.Delete(ctx, req)}
	}
}

func (m Model) copyTitle(title string) tea.Cmd {
	write := m.clip
	return func() tea.Msg {
		return copiedMsg{text: title, err: write(title)}
	}
}

// errorMessage extracts the user-facing text of err
func errorMessage(err error) string {
	var aerr *tasksync.ActionError
	if errors.As(err, &aerr) && aerr.Message != "" {
		return aerr.Message
	}
	var verr *entity.ValidationError
	if errors.As(err, &verr) && verr.Msg != "" {
		return verr.Msg
	}
	return err.Error()
}

// currentTask returns the selected task
func (m Model) currentTask() (dto.TaskDTO, bool) {
	return m.snap.Tasks.At(m.cursor)
}

// applySnapshot takes a new controller state and keeps the selection
// and an open detail view consistent with it.
func (m *Model) applySnapshot(s tasksync.Snapshot) {
	m.snap = s
	m.clampCursor()
	if m.detail.Status() == detail.StatusReady {
		if task, ok := s.Tasks.Find(m.detail.ID()); ok {
			m.detail.Refresh(task)
		}
	}
}

// clampCursor ensures the cursor is within valid bounds
func (m *Model) clampCursor() {
	n := m.snap.Tasks.Len()
	if n == 0 {
		m.cursor = 0
	} else if m.cursor >= n {
		m.cursor = n - 1
	} else if m.cursor < 0 {
		m.cursor = 0
	}
}

// visibleRows is how many task rows fit between the header and the help
func (m Model) visibleRows() int {
	rows := m.height - 10
	if rows < 1 {
		rows = 1
	}
	return rows
}

// updateScroll keeps the cursor row visible
func (m *Model) updateScroll() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}

	maxScroll := m.snap.Tasks.Len() - rows
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.offset > maxScroll {
		m.offset = maxScroll
	}
	if m.offset < 0 {
		m.offset = 0
	}
}
