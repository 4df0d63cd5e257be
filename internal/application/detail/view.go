// Package detail holds the state of the single-task detail and edit view.
package detail

import (
	"context"
	"errors"

	"taskman/internal/application/dto"
	"taskman/internal/application/tasksync"
	"taskman/internal/domain/entity"
)

// Status is the load state of the view
type Status int

const (
	StatusClosed Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

// Mode selects between reading and editing
type Mode int

const (
	ModeRead Mode = iota
	ModeEdit
)

// Fetch identifies one load of a task. Its context is cancelled when the
// view closes or opens another task.
type Fetch struct {
	ID  string
	Ctx context.Context
	gen uint64
}

// View is the detail modal state. The zero value is a closed view.
type View struct {
	id      string
	status  Status
	task    dto.TaskDTO
	loadErr string

	mode    Mode
	fields  tasksync.Draft
	saveErr string
	saving  bool

	gen    uint64
	cancel context.CancelFunc
}

// Open starts loading id and supersedes any fetch in flight
func (v *View) Open(parent context.Context, id string) Fetch {
	v.stop()
	v.gen++

	ctx, cancel := context.WithCancel(parent)
	v.cancel = cancel
	v.id = id
	v.status = StatusLoading
	v.task = dto.TaskDTO{}
	v.loadErr = ""
	v.mode = ModeRead
	v.fields = tasksync.Draft{}
	v.saveErr = ""
	v.saving = false

	return Fetch{ID: id, Ctx: ctx, gen: v.gen}
}

// Resolve applies a fetch result. It reports false when the fetch was
// superseded and the result was dropped.
func (v *View) Resolve(f Fetch, task dto.TaskDTO, err error) bool {
	if f.gen != v.gen || v.status != StatusLoading {
		return false
	}
	v.stop()

	if err != nil {
		v.status = StatusFailed
		if errors.Is(err, entity.ErrTaskNotFound) {
			v.loadErr = tasksync.MsgDetailMissing
		} else {
			v.loadErr = tasksync.MsgDetailFailed
		}
		return true
	}
	v.status = StatusReady
	v.task = task
	return true
}

// Close discards the view and cancels a pending fetch
func (v *View) Close() {
	v.stop()
	v.gen++
	*v = View{gen: v.gen}
}

func (v *View) stop() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// BeginEdit switches to edit mode seeded from the loaded task
func (v *View) BeginEdit() bool {
	if v.status != StatusReady || v.mode == ModeEdit {
		return false
	}
	v.mode = ModeEdit
	v.fields = tasksync.DraftFromTask(v.task)
	v.saveErr = ""
	return true
}

// CancelEdit drops unsaved edits
func (v *View) CancelEdit() {
	if v.mode != ModeEdit || v.saving {
		return
	}
	v.mode = ModeRead
	v.fields = tasksync.DraftFromTask(v.task)
	v.saveErr = ""
}

// SetFields replaces the edit field values
func (v *View) SetFields(d tasksync.Draft) {
	if v.mode == ModeEdit {
		v.fields = d
	}
}

// Draft returns the current field values
func (v *View) Draft() tasksync.Draft {
	return v.fields
}

// BeginSave marks a save in flight
func (v *View) BeginSave() bool {
	if v.mode != ModeEdit || v.saving {
		return false
	}
	v.saving = true
	v.saveErr = ""
	return true
}

// Saved stores the server copy and returns to read mode
func (v *View) Saved(task dto.TaskDTO) {
	v.saving = false
	v.task = task
	v.mode = ModeRead
	v.fields = tasksync.DraftFromTask(task)
	v.saveErr = ""
}

// SaveFailed keeps edit mode open with msg shown inline
func (v *View) SaveFailed(msg string) {
	v.saving = false
	v.saveErr = msg
}

// Refresh replaces the shown task with a newer copy from the list,
// unless the user is editing it.
func (v *View) Refresh(task dto.TaskDTO) {
	if v.status != StatusReady || task.ID != v.id || v.mode == ModeEdit {
		return
	}
	v.task = task
}

func (v *View) ID() string { return v.id }

func (v *View) Status() Status { return v.status }

// Task returns the last loaded or saved copy
func (v *View) Task() dto.TaskDTO { return v.task }

func (v *View) LoadError() string { return v.loadErr }

func (v *View) Mode() Mode { return v.mode }

func (v *View) SaveError() string { return v.saveErr }

func (v *View) Saving() bool { return v.saving }

// Visible reports whether the modal is open
func (v *View) Visible() bool { return v.status != StatusClosed }
