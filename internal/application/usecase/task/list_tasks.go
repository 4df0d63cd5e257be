package task

import (
	"context"

	"taskman/internal/application/dto"
	"taskman/internal/domain/repository"
)

// ListTasksUseCase handles listing all tasks in display order
type ListTasksUseCase struct {
	taskRepo repository.TaskRepository
}

// NewListTasksUseCase creates a new ListTasksUseCase
func NewListTasksUseCase(taskRepo repository.TaskRepository) *ListTasksUseCase {
	return &ListTasksUseCase{
		taskRepo: taskRepo,
	}
}

// Execute lists all tasks ordered by ascending position
func (uc *ListTasksUseCase) Execute(ctx context.Context) ([]dto.TaskDTO, error) {
	tasks, err := uc.taskRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.TasksToDTOs(tasks), nil
}
