package tasksync

import (
	"errors"

	"taskman/internal/application/dto"
	"taskman/internal/application/state"
)

var (
	ErrUnknownTask       = errors.New("unknown task")
	ErrReorderInProgress = errors.New("a reorder is already in progress")
	ErrNotConfirmed      = errors.New("delete was not confirmed")
)

// ApplyToggle optimistically sets is_complete on one task and reports
// the value it replaced.
func ApplyToggle(c state.TaskCollection, id string, value bool) (state.TaskCollection, bool, error) {
	task, ok := c.Find(id)
	if !ok {
		return c, false, ErrUnknownTask
	}
	prev := task.IsComplete
	task.IsComplete = value
	return c.Replace(task), prev, nil
}

// ResolveToggle reconciles a finished toggle. On success the server
// record replaces the local one. On failure only is_complete goes back
// to fallback. A 404 leaves the local record untouched.
func ResolveToggle(c state.TaskCollection, id string, fallback bool, result dto.TaskDTO, err error) state.TaskCollection {
	switch {
	case err == nil:
		return MergeServerTask(c, result)
	case isNotFound(err):
		return c
	default:
		return setComplete(c, id, fallback)
	}
}

// MergeServerTask replaces a task with its server copy. The local
// position is kept so that an in-flight reorder is not undone.
func MergeServerTask(c state.TaskCollection, server dto.TaskDTO) state.TaskCollection {
	local, ok := c.Find(server.ID)
	if !ok {
		return c
	}
	server.Position = local.Position
	return c.Replace(server)
}

func setComplete(c state.TaskCollection, id string, value bool) state.TaskCollection {
	task, ok := c.Find(id)
	if !ok || task.IsComplete == value {
		return c
	}
	task.IsComplete = value
	return c.Replace(task)
}

// ApplyReorder optimistically moves the task at from to index to.
// moved is false when the indices are equal.
func ApplyReorder(c state.TaskCollection, from, to int) (next state.TaskCollection, moved bool, err error) {
	if from == to {
		if _, ok := c.At(from); !ok {
			return c, false, state.ErrIndexOutOfRange
		}
		return c, false, nil
	}
	next, err = c.MoveAndRenumber(from, to)
	if err != nil {
		return c, false, err
	}
	return next, true, nil
}

// ResolveReorder reconciles a finished reorder against the current state.
//
// On success the server order and positions win. A task's other fields
// come from whichever copy has the newer updated_at. Tasks deleted during
// the request stay deleted and tasks created during it are kept at the end.
//
// On failure the snapshot order is restored over the current field values,
// with the same treatment of created and deleted tasks.
func ResolveReorder(snapshot, current state.TaskCollection, result []dto.TaskDTO, err error) state.TaskCollection {
	if err != nil {
		return restoreOrder(snapshot, current)
	}

	merged := make([]dto.TaskDTO, 0, current.Len())
	seen := make(map[string]struct{}, len(result))
	for _, server := range result {
		seen[server.ID] = struct{}{}
		local, ok := current.Find(server.ID)
		if !ok {
			continue
		}
		if local.UpdatedAt.After(server.UpdatedAt) {
			local.Position = server.Position
			merged = append(merged, local)
			continue
		}
		merged = append(merged, server)
	}
	return state.NewTaskCollection(appendUnseen(merged, seen, current))
}

func restoreOrder(snapshot, current state.TaskCollection) state.TaskCollection {
	restored := make([]dto.TaskDTO, 0, current.Len())
	seen := make(map[string]struct{}, snapshot.Len())
	for _, before := range snapshot.Tasks() {
		seen[before.ID] = struct{}{}
		local, ok := current.Find(before.ID)
		if !ok {
			continue
		}
		local.Position = before.Position
		restored = append(restored, local)
	}
	return state.NewTaskCollection(appendUnseen(restored, seen, current))
}

func appendUnseen(out []dto.TaskDTO, seen map[string]struct{}, current state.TaskCollection) []dto.TaskDTO {
	for _, task := range current.Tasks() {
		if _, ok := seen[task.ID]; !ok {
			out = append(out, task)
		}
	}
	return out
}

// ApplyCreate appends a server-confirmed task
func ApplyCreate(c state.TaskCollection, created dto.TaskDTO) state.TaskCollection {
	if _, exists := c.Find(created.ID); exists {
		return c.Replace(created)
	}
	return c.InsertAtEnd(created)
}

// ResolveDelete removes the task when the delete succeeded or the task
// was already gone. removed reports whether the delete counts as done.
func ResolveDelete(c state.TaskCollection, id string, err error) (next state.TaskCollection, removed bool) {
	if err != nil && !isNotFound(err) {
		return c, false
	}
	return c.Remove(id), true
}
