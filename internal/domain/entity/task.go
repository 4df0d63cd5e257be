package entity

import (
	"time"
)

// Task represents a single to-do item
type Task struct {
	id          string
	title       string
	description *string
	isComplete  bool
	position    int
	deadline    *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTask creates a new Task entity at the given position
func NewTask(
	id string,
	title string,
	description *string,
	deadline *time.Time,
	position int,
) (*Task, error) {
	if id == "" {
		return nil, ErrInvalidTaskID
	}
	if position < 1 {
		return nil, ErrInvalidPosition
	}
	normalizedTitle, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	normalizedDesc, err := NormalizeDescription(description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Task{
		id:          id,
		title:       normalizedTitle,
		description: normalizedDesc,
		position:    position,
		deadline:    copyTime(deadline),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// RestoreTask rebuilds a Task from stored values without validation
func RestoreTask(
	id string,
	title string,
	description *string,
	isComplete bool,
	position int,
	deadline *time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *Task {
	return &Task{
		id:          id,
		title:       title,
		description: copyString(description),
		isComplete:  isComplete,
		position:    position,
		deadline:    copyTime(deadline),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the task ID
func (t *Task) ID() string {
	return t.id
}

// Title returns the task title
func (t *Task) Title() string {
	return t.title
}

// Description returns a copy of the task description
func (t *Task) Description() *string {
	return copyString(t.description)
}

// IsComplete reports whether the task is done
func (t *Task) IsComplete() bool {
	return t.isComplete
}

// Position returns the 1-based display rank
func (t *Task) Position() int {
	return t.position
}

// Deadline returns a copy of the task deadline
func (t *Task) Deadline() *time.Time {
	return copyTime(t.deadline)
}

// CreatedAt returns when the task was created
func (t *Task) CreatedAt() time.Time {
	return t.createdAt
}

// UpdatedAt returns when the task was last modified
func (t *Task) UpdatedAt() time.Time {
	return t.updatedAt
}

// UpdateTitle updates the task title
func (t *Task) UpdateTitle(title string) error {
	normalized, err := NormalizeTitle(title)
	if err != nil {
		return err
	}
	t.title = normalized
	t.touch()
	return nil
}

// UpdateDescription updates the task description; nil clears it
func (t *Task) UpdateDescription(description *string) error {
	normalized, err := NormalizeDescription(description)
	if err != nil {
		return err
	}
	t.description = normalized
	t.touch()
	return nil
}

// SetComplete updates the completion flag
func (t *Task) SetComplete(complete bool) {
	t.isComplete = complete
	t.touch()
}

// SetDeadline sets the deadline; nil clears it.
// Past deadlines are allowed so overdue tasks can be recorded.
func (t *Task) SetDeadline(deadline *time.Time) {
	t.deadline = copyTime(deadline)
	t.touch()
}

// MoveTo changes the task position
func (t *Task) MoveTo(position int) {
	if t.position == position {
		return
	}
	t.position = position
	t.touch()
}

// IsOverdue reports whether the deadline has passed, regardless of completion
func (t *Task) IsOverdue(now time.Time) bool {
	if t.deadline == nil {
		return false
	}
	return t.deadline.Before(now)
}

func (t *Task) touch() {
	now := time.Now().UTC()
	if !now.After(t.updatedAt) {
		now = t.updatedAt.Add(time.Microsecond)
	}
	t.updatedAt = now
}

func copyTime(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := src.UTC()
	return &dst
}

func copyString(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
