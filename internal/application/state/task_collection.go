package state

import (
	"errors"

	"taskman/internal/application/dto"
)

var (
	// ErrIndexOutOfRange is returned by MoveAndRenumber for a bad index
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownID is returned by Arrange for an id not in the collection
	ErrUnknownID = errors.New("unknown task id")
)

// TaskCollection is an ordered, immutable list of tasks. Every operation
// returns a new collection and leaves the receiver untouched.
type TaskCollection struct {
	tasks []dto.TaskDTO
}

// NewTaskCollection creates a collection holding a copy of tasks
func NewTaskCollection(tasks []dto.TaskDTO) TaskCollection {
	return TaskCollection{tasks: clone(tasks)}
}

// Tasks returns a copy of the tasks in display order
func (c TaskCollection) Tasks() []dto.TaskDTO {
	return clone(c.tasks)
}

// Len returns the number of tasks
func (c TaskCollection) Len() int {
	return len(c.tasks)
}

// At returns the task at index i
func (c TaskCollection) At(i int) (dto.TaskDTO, bool) {
	if i < 0 || i >= len(c.tasks) {
		return dto.TaskDTO{}, false
	}
	return c.tasks[i], true
}

// Find returns the task with the given id
func (c TaskCollection) Find(id string) (dto.TaskDTO, bool) {
	if i := c.IndexOf(id); i >= 0 {
		return c.tasks[i], true
	}
	return dto.TaskDTO{}, false
}

// IndexOf returns the index of id, or -1
func (c TaskCollection) IndexOf(id string) int {
	for i := range c.tasks {
		if c.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// IDs returns task ids in display order
func (c TaskCollection) IDs() []string {
	ids := make([]string, len(c.tasks))
	for i := range c.tasks {
		ids[i] = c.tasks[i].ID
	}
	return ids
}

// InsertAtEnd appends a server-confirmed task
func (c TaskCollection) InsertAtEnd(task dto.TaskDTO) TaskCollection {
	next := make([]dto.TaskDTO, len(c.tasks), len(c.tasks)+1)
	copy(next, c.tasks)
	return TaskCollection{tasks: append(next, task)}
}

// Replace substitutes the task with the same id, keeping its place in
// the sequence. Unknown ids leave the collection unchanged.
func (c TaskCollection) Replace(task dto.TaskDTO) TaskCollection {
	i := c.IndexOf(task.ID)
	if i < 0 {
		return c
	}
	next := clone(c.tasks)
	next[i] = task
	return TaskCollection{tasks: next}
}

// Remove deletes the task with the given id
func (c TaskCollection) Remove(id string) TaskCollection {
	i := c.IndexOf(id)
	if i < 0 {
		return c
	}
	next := make([]dto.TaskDTO, 0, len(c.tasks)-1)
	next = append(next, c.tasks[:i]...)
	next = append(next, c.tasks[i+1:]...)
	return TaskCollection{tasks: next}
}

// MoveAndRenumber moves the task at from to index to and renumbers the
// predicted positions 1..N.
func (c TaskCollection) MoveAndRenumber(from, to int) (TaskCollection, error) {
	n := len(c.tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return c, ErrIndexOutOfRange
	}

	next := make([]dto.TaskDTO, 0, n)
	moved := c.tasks[from]
	for i := range c.tasks {
		if i != from {
			next = append(next, c.tasks[i])
		}
	}
	next = append(next[:to], append([]dto.TaskDTO{moved}, next[to:]...)...)

	for i := range next {
		next[i].Position = i + 1
	}
	return TaskCollection{tasks: next}, nil
}

// Arrange puts the tasks named by ids first, in that order, followed by
// the rest in their current order, and renumbers positions 1..N.
// Repeated ids are ignored after their first occurrence.
func (c TaskCollection) Arrange(ids []string) (TaskCollection, error) {
	next := make([]dto.TaskDTO, 0, len(c.tasks))
	placed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := placed[id]; dup {
			continue
		}
		i := c.IndexOf(id)
		if i < 0 {
			return c, ErrUnknownID
		}
		placed[id] = struct{}{}
		next = append(next, c.tasks[i])
	}
	for _, task := range c.tasks {
		if _, ok := placed[task.ID]; !ok {
			next = append(next, task)
		}
	}

	for i := range next {
		next[i].Position = i + 1
	}
	return TaskCollection{tasks: next}, nil
}

func clone(tasks []dto.TaskDTO) []dto.TaskDTO {
	if tasks == nil {
		return nil
	}
	out := make([]dto.TaskDTO, len(tasks))
	copy(out, tasks)
	return out
}
