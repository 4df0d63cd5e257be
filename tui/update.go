package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"taskman/internal/application/confirm"
	"taskman/internal/application/detail"
	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/tui/style"
)

const msgReorderBusy = "Wait for the current reorder to finish."

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateScroll()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case snapshotMsg:
		m.applySnapshot(tasksync.Snapshot(msg))
		m.updateScroll()
		return m, waitForSnapshot(m.ctrl.Changes())

	case loadedMsg, opDoneMsg:
		m.applySnapshot(m.ctrl.Snapshot())
		m.updateScroll()
		return m, nil

	case createdMsg:
		return m.handleCreated(msg)

	case fetchedMsg:
		m.detail.Resolve(msg.fetch, msg.task, msg.err)
		return m, nil

	case savedMsg:
		return m.handleSaved(msg)

	case deletedMsg:
		return m.handleDeleted(msg)

	case configMsg:
		style.InitStyles(msg.cfg)
		InitKeybindings(msg.cfg)
		return m, waitForConfig(m.watcher.Changes())

	case copiedMsg:
		if msg.err != nil {
			m.status = "Failed to copy: " + msg.err.Error()
		} else {
			m.status = "Copied: " + msg.text
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, m.updateInputs(msg)
}

// updateInputs forwards non-key messages, such as cursor blinks, to the
// focused form.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	switch {
	case m.adding:
		return m.form.update(msg)
	case m.detail.Mode() == detail.ModeEdit:
		return m.editor.update(msg)
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m, tea.Quit
	}

	switch {
	case m.confirm.Visible():
		return m.handleConfirmKey(msg)
	case m.adding:
		return m.handleFormKey(msg)
	case m.detail.Visible():
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

// List

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Dismiss):
		m.ctrl.DismissNotice()
		m.applySnapshot(m.ctrl.Snapshot())

	case key.Matches(msg, keys.Retry):
		if m.snap.LoadError != "" && !m.snap.Loading {
			return m, m.loadTasks()
		}

	case key.Matches(msg, keys.MoveUp):
		return m.reorder(-1)

	case key.Matches(msg, keys.MoveDown):
		return m.reorder(1)

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.updateScroll()

	case key.Matches(msg, keys.Down):
		if m.cursor < m.snap.Tasks.Len()-1 {
			m.cursor++
		}
		m.updateScroll()

	case key.Matches(msg, keys.Toggle):
		return m.toggle()

	case key.Matches(msg, keys.Add):
		m.adding = true
		return m, m.form.reset(tasksync.Draft{})

	case key.Matches(msg, keys.Open):
		if task, ok := m.currentTask(); ok {
			return m.openDetail(task.ID)
		}

	case key.Matches(msg, keys.Delete):
		if task, ok := m.currentTask(); ok {
			m.showConfirm(task)
		}

	case key.Matches(msg, keys.Copy):
		if task, ok := m.currentTask(); ok {
			return m, m.copyTitle(task.Title)
		}
	}

	return m, nil
}

// toggle flips completion on the selected task
func (m Model) toggle() (tea.Model, tea.Cmd) {
	task, ok := m.currentTask()
	if !ok {
		return m, nil
	}
	op, err := m.ctrl.StartToggle(task.ID, !task.IsComplete)
	if err != nil {
		return m, nil
	}
	m.applySnapshot(m.ctrl.Snapshot())
	return m, runOp(m.ctx, tasksync.ActionToggle, op)
}

// reorder moves the selected task one row and keeps it selected
func (m Model) reorder(delta int) (tea.Model, tea.Cmd) {
	to := m.cursor + delta
	if to < 0 || to >= m.snap.Tasks.Len() {
		return m, nil
	}
	op, err := m.ctrl.StartReorder(m.cursor, to)
	if errors.Is(err, tasksync.ErrReorderInProgress) {
		m.status = msgReorderBusy
		return m, nil
	}
	if err != nil {
		return m, nil
	}
	m.cursor = to
	m.applySnapshot(m.ctrl.Snapshot())
	m.updateScroll()
	return m, runOp(m.ctx, tasksync.ActionReorder, op)
}

// Create form

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.busy {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.adding = false
		m.form.err = ""
		return m, nil

	case key.Matches(msg, keys.NextField):
		return m, m.form.next()

	case key.Matches(msg, keys.PrevField):
		return m, m.form.prev()

	case key.Matches(msg, keys.Save),
		key.Matches(msg, keys.Submit) && m.form.focus != fieldDescription:
		return m.submitCreate()
	}

	return m, m.form.update(msg)
}

func (m Model) submitCreate() (tea.Model, tea.Cmd) {
	d, err := m.form.draft(m.loc)
	if err != nil {
		m.form.err = msgInvalidDeadline
		return m, nil
	}
	if err := d.Validate(); err != nil {
		m.form.err = errorMessage(err)
		return m, nil
	}
	m.form.err = ""
	m.form.busy = true
	return m, m.createTask(d)
}

func (m Model) handleCreated(msg createdMsg) (tea.Model, tea.Cmd) {
	m.form.busy = false
	if msg.err != nil {
		m.form.err = errorMessage(msg.err)
		return m, nil
	}
	m.adding = false
	m.applySnapshot(m.ctrl.Snapshot())
	if i := m.snap.Tasks.IndexOf(msg.task.ID); i >= 0 {
		m.cursor = i
	}
	m.updateScroll()
	return m, nil
}

// Detail modal

func (m Model) openDetail(id string) (tea.Model, tea.Cmd) {
	f := m.detail.Open(m.ctx, id)
	return m, tea.Batch(m.fetchTask(f), m.spinner.Tick)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.Mode() == detail.ModeEdit {
		return m.handleEditKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.detail.Close()

	case key.Matches(msg, keys.Retry):
		if m.detail.Status() == detail.StatusFailed {
			return m.openDetail(m.detail.ID())
		}

	case key.Matches(msg, keys.Edit):
		if m.detail.BeginEdit() {
			return m, m.editor.reset(m.detail.Draft())
		}

	case key.Matches(msg, keys.Delete):
		if m.detail.Status() == detail.StatusReady {
			m.showConfirm(m.detail.Task())
		}
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.detail.Saving() {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		m.detail.CancelEdit()
		return m, nil

	case key.Matches(msg, keys.Save):
		return m.submitEdit()

	case key.Matches(msg, keys.NextField):
		return m, m.editor.next()

	case key.Matches(msg, keys.PrevField):
		return m, m.editor.prev()
	}

	return m, m.editor.update(msg)
}

func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	d, err := m.editor.draft(m.loc)
	if err != nil {
		m.detail.SaveFailed(msgInvalidDeadline)
		return m, nil
	}
	m.detail.SetFields(d)
	if err := d.Validate(); err != nil {
		m.detail.SaveFailed(errorMessage(err))
		return m, nil
	}
	if !m.detail.BeginSave() {
		return m, nil
	}
	return m, m.saveTask(m.detail.Task(), d)
}

func (m Model) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	if !m.detail.Saving() {
		return m, nil
	}
	if msg.err != nil {
		m.detail.SaveFailed(errorMessage(msg.err))
		return m, nil
	}
	m.detail.Saved(msg.task)
	m.applySnapshot(m.ctrl.Snapshot())
	return m, nil
}

// Confirm dialog

func (m *Model) showConfirm(task dto.TaskDTO) {
	_ = m.confirm.Show(confirm.Target{ID: task.ID, Title: task.Title})
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.Busy() {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.NextField), key.Matches(msg, keys.PrevField):
		m.confirm.ToggleFocus()

	case key.Matches(msg, keys.Submit):
		req, confirmed, err := m.confirm.Activate()
		if err == nil && confirmed {
			return m, tea.Batch(m.deleteTask(req), m.spinner.Tick)
		}

	case key.Matches(msg, keys.Yes):
		req, err := m.confirm.Confirm()
		if err == nil {
			return m, tea.Batch(m.deleteTask(req), m.spinner.Tick)
		}

	case key.Matches(msg, keys.No), key.Matches(msg, keys.Back):
		_ = m.confirm.Cancel()
	}

	return m, nil
}

func (m Model) handleDeleted(msg deletedMsg) (tea.Model, tea.Cmd) {
	if !m.confirm.Busy() {
		return m, nil
	}
	if msg.err != nil {
		_ = m.confirm.Fail(errorMessage(msg.err))
		return m, nil
	}
	_ = m.confirm.Succeed()
	if m.detail.Visible() && m.detail.ID() == msg.id {
		m.detail.Close()
	}
	m.applySnapshot(m.ctrl.Snapshot())
	m.updateScroll()
	return m, nil
}
