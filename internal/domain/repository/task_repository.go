package repository

import (
	"context"
	"errors"

	"taskman/internal/domain/entity"
)

// ErrPositionConflict is returned when an insert collides on the unique position
var ErrPositionConflict = errors.New("position already taken")

// TaskRepository defines the interface for task persistence
type TaskRepository interface {
	// FindAll retrieves all tasks ordered by ascending position
	FindAll(ctx context.Context) ([]*entity.Task, error)

	// FindByID retrieves a task by its ID
	FindByID(ctx context.Context, id string) (*entity.Task, error)

	// Count returns the number of stored tasks
	Count(ctx context.Context) (int, error)

	// MaxPosition returns the highest position in use, or 0 when empty
	MaxPosition(ctx context.Context) (int, error)

	// Insert persists a new task
	Insert(ctx context.Context, task *entity.Task) error

	// Save persists changes to an existing task
	Save(ctx context.Context, task *entity.Task) error

	// Delete removes a task from storage and renumbers the tasks after
	// it so positions stay contiguous
	Delete(ctx context.Context, id string) error

	// Reorder assigns positions 1..N following ids in one transaction
	// and returns the tasks in that order
	Reorder(ctx context.Context, ids []string) ([]*entity.Task, error)
}
