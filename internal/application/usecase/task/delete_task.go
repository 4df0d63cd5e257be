package task

import (
	"context"

	"taskman/internal/domain/repository"
)

// DeleteTaskUseCase handles removing a task
type DeleteTaskUseCase struct {
	taskRepo repository.TaskRepository
}

// NewDeleteTaskUseCase creates a new DeleteTaskUseCase
func NewDeleteTaskUseCase(taskRepo repository.TaskRepository) *DeleteTaskUseCase {
	return &DeleteTaskUseCase{
		taskRepo: taskRepo,
	}
}

// Execute deletes the task. Missing tasks yield entity.ErrTaskNotFound.
func (uc *DeleteTaskUseCase) Execute(ctx context.Context, id string) error {
	return uc.taskRepo.Delete(ctx, id)
}
